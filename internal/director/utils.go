package director

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// GenerateOutputPath creates a timestamped filename inside dir
func GenerateOutputPath(dir, prefix, ext string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("%s_%s%s", prefix, timestamp, ext))
}

// ManifestPathFor names the manifest written next to a frames file,
// e.g. output/rewind_x.jsonl -> output/rewind_x_manifest.yaml.
func ManifestPathFor(output string) string {
	base := strings.TrimSuffix(output, filepath.Ext(output))
	return base + "_manifest.yaml"
}
