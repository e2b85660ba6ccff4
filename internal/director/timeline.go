package director

import (
	"errors"
	"fmt"
)

// ErrSegmentDuration is returned when the composition is too short to give
// every segment at least one frame.
var ErrSegmentDuration = errors.New("segment duration must be positive")

// Timeline splits a composition into equal sequential segments. The last
// segment is lengthened by a hold pad so the closing scene can rest.
type Timeline struct {
	total    int
	segments int
	pad      int
	segDur   int
}

func NewTimeline(totalFrames, segments, pad int) (*Timeline, error) {
	if segments <= 0 {
		return nil, fmt.Errorf("%w: %d segments", ErrSegmentDuration, segments)
	}
	if pad < 0 {
		return nil, fmt.Errorf("hold pad must not be negative, got %d", pad)
	}
	segDur := totalFrames / segments
	if segDur <= 0 {
		return nil, fmt.Errorf("%w: %d frames over %d segments", ErrSegmentDuration, totalFrames, segments)
	}
	return &Timeline{total: totalFrames, segments: segments, pad: pad, segDur: segDur}, nil
}

func (t *Timeline) SegmentDuration() int { return t.segDur }
func (t *Timeline) Segments() int        { return t.segments }
func (t *Timeline) TotalFrames() int     { return t.total }

// Start is the first global frame of segment i.
func (t *Timeline) Start(i int) int {
	return i * t.segDur
}

// Length is the number of frames segment i is shown for.
func (t *Timeline) Length(i int) int {
	if i == t.segments-1 {
		return t.segDur + t.pad
	}
	return t.segDur
}

// LastFrame is the highest frame that still has its own state.
func (t *Timeline) LastFrame() int {
	last := t.segments - 1
	end := t.Start(last) + t.Length(last) - 1
	return max(end, t.total-1)
}

// SegmentFor maps a global frame to (segment index, local offset). Frames
// past LastFrame resolve to the final held state.
func (t *Timeline) SegmentFor(frame int) (int, int) {
	frame = max(0, min(frame, t.LastFrame()))
	idx := min(t.segments-1, frame/t.segDur)
	return idx, frame - idx*t.segDur
}
