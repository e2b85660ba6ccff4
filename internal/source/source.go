package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Source produces the content payload for one rendering session.
type Source interface {
	Load(ctx context.Context) (*Payload, error)
}

// FileSource reads a payload previously saved as JSON.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (f *FileSource) Load(ctx context.Context) (*Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse payload %s: %w", f.path, err)
	}
	return &p, nil
}

// WritePayload saves p as indented JSON so it can be replayed with FileSource.
func WritePayload(p *Payload, path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
