package system

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSongPath(t *testing.T) {
	tests := []struct {
		dir      string
		index    int
		expected string
	}{
		{"songs", 1, "songs/song_1.mp3"},
		{"songs", 5, "songs/song_5.mp3"},
		{"public/songs", 3, "public/songs/song_3.mp3"},
	}

	for _, tt := range tests {
		if got := SongPath(tt.dir, tt.index); got != tt.expected {
			t.Errorf("SongPath(%q, %d) = %q, want %q", tt.dir, tt.index, got, tt.expected)
		}
	}
}

func TestFindLatestPayload(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "older.json")
	newer := filepath.Join(dir, "newer.JSON")
	other := filepath.Join(dir, "notes.txt")

	for i, f := range []string{older, newer, other} {
		if err := os.WriteFile(f, []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		os.Chtimes(f, modTime, modTime)
	}

	latest, err := FindLatestPayload(dir)
	if err != nil {
		t.Fatalf("FindLatestPayload failed: %v", err)
	}
	if latest != newer {
		t.Errorf("expected %s, got %s", newer, latest)
	}

	if _, err := FindLatestPayload(t.TempDir()); err == nil {
		t.Error("expected error for empty directory")
	}
}

func TestDefaultWorkers(t *testing.T) {
	if n := DefaultWorkers(); n < 1 {
		t.Errorf("expected at least one worker, got %d", n)
	}
}

func TestBufferPool(t *testing.T) {
	buf := GetBuffer()
	buf.WriteString("frame")
	PutBuffer(buf)

	again := GetBuffer()
	if again.Len() != 0 {
		t.Errorf("pooled buffer not reset: %q", again.String())
	}
	PutBuffer(again)

	PutBuffer(nil)
	PutBuffer(bytes.NewBuffer(make([]byte, 0, maxPooledBuffer+1)))
}

func TestWriteBrandQR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qr.png")
	if err := WriteBrandQR("https://example.com/forge", path, 128); err != nil {
		t.Fatalf("WriteBrandQR failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("expected a PNG file")
	}

	if err := WriteBrandQR("", path, 128); err == nil {
		t.Error("expected error for empty url")
	}
}
