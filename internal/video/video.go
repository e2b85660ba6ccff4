package video

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ivlev/rewind2video/internal/effects"
	"github.com/ivlev/rewind2video/internal/system"
)

// StateEncoder receives frame states in frame order.
type StateEncoder interface {
	Encode(st effects.State) error
	Close() error
}

// JSONLinesEncoder writes one JSON document per frame.
type JSONLinesEncoder struct {
	w      *bufio.Writer
	closer io.Closer
	frames int
}

// NewJSONLinesEncoder writes to w. Close flushes but leaves w open; the
// caller owns it.
func NewJSONLinesEncoder(w io.Writer) *JSONLinesEncoder {
	return &JSONLinesEncoder{w: bufio.NewWriter(w)}
}

// CreateJSONLines creates (or truncates) path and encodes into it.
func CreateJSONLines(path string) (*JSONLinesEncoder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	e := NewJSONLinesEncoder(f)
	e.closer = f
	return e, nil
}

func (e *JSONLinesEncoder) Encode(st effects.State) error {
	buf := system.GetBuffer()
	defer system.PutBuffer(buf)

	if err := json.NewEncoder(buf).Encode(st); err != nil {
		return fmt.Errorf("encode frame %d: %w", st.Frame, err)
	}
	if _, err := e.w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write frame %d: %w", st.Frame, err)
	}
	e.frames++
	return nil
}

// Frames reports how many states were written.
func (e *JSONLinesEncoder) Frames() int { return e.frames }

func (e *JSONLinesEncoder) Close() error {
	if err := e.w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	if e.closer != nil {
		return e.closer.Close()
	}
	return nil
}
