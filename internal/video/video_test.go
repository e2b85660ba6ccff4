package video

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/rewind2video/internal/effects"
)

func TestJSONLinesEncoder(t *testing.T) {
	var out bytes.Buffer
	enc := NewJSONLinesEncoder(&out)

	for i := 0; i < 3; i++ {
		st := effects.State{
			Frame: i,
			Scene: "intro",
			Elements: []effects.Element{
				{ID: "title", Text: "Hi", Props: map[string]float64{"opacity": float64(i) / 2}},
			},
		}
		if err := enc.Encode(st); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if enc.Frames() != 3 {
		t.Errorf("expected 3 frames, got %d", enc.Frames())
	}

	scanner := bufio.NewScanner(&out)
	line := 0
	for scanner.Scan() {
		var st effects.State
		if err := json.Unmarshal(scanner.Bytes(), &st); err != nil {
			t.Fatalf("line %d: %v", line, err)
		}
		if st.Frame != line {
			t.Errorf("line %d holds frame %d", line, st.Frame)
		}
		line++
	}
	if line != 3 {
		t.Errorf("expected 3 lines, got %d", line)
	}
}

type trackingWriter struct {
	bytes.Buffer
	closed bool
}

func (w *trackingWriter) Close() error {
	w.closed = true
	return nil
}

func TestCloseLeavesCallerWriterOpen(t *testing.T) {
	w := &trackingWriter{}
	enc := NewJSONLinesEncoder(w)
	if err := enc.Encode(effects.State{Frame: 1}); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if w.closed {
		t.Error("encoder closed a writer it does not own")
	}
	if !bytes.HasSuffix(w.Bytes(), []byte("\n")) {
		t.Errorf("buffered frame not flushed: %q", w.Bytes())
	}
}

func TestCreateJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.jsonl")
	enc, err := CreateJSONLines(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := enc.Encode(effects.State{Frame: 7, Scene: "closing"}); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"scene":"closing"`)) || !bytes.HasSuffix(data, []byte("\n")) {
		t.Errorf("unexpected file contents: %s", data)
	}
}
