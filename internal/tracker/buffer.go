package tracker

import "github.com/skywatch-data/debris.report/internal/detect"

// FrameBuffer is a bounded rolling window of the most recent frames,
// with FIFO eviction once capacity is reached. It feeds periodic
// background rebuilds in live mode.
type FrameBuffer struct {
	frames   []*detect.Frame
	capacity int
	head     int // next write position
	size     int // frames currently stored
}

// NewFrameBuffer creates a buffer holding at most capacity frames.
func NewFrameBuffer(capacity int) *FrameBuffer {
	if capacity < 1 {
		capacity = DefaultBufferCapacity
	}
	return &FrameBuffer{
		frames:   make([]*detect.Frame, capacity),
		capacity: capacity,
	}
}

// Push stores a frame, evicting the oldest when full.
func (b *FrameBuffer) Push(f *detect.Frame) {
	b.frames[b.head] = f
	b.head = (b.head + 1) % b.capacity
	if b.size < b.capacity {
		b.size++
	}
}

// Snapshot returns the buffered frames from oldest to newest. The
// returned slice is a copy of the window; callers may hold it across
// further pushes.
func (b *FrameBuffer) Snapshot() []*detect.Frame {
	if b.size == 0 {
		return nil
	}
	out := make([]*detect.Frame, b.size)
	for i := 0; i < b.size; i++ {
		idx := (b.head - b.size + i + b.capacity) % b.capacity
		out[i] = b.frames[idx]
	}
	return out
}

// Len returns the number of frames currently stored.
func (b *FrameBuffer) Len() int { return b.size }

// Capacity returns the maximum number of frames the buffer holds.
func (b *FrameBuffer) Capacity() int { return b.capacity }

// Clear removes all frames.
func (b *FrameBuffer) Clear() {
	for i := range b.frames {
		b.frames[i] = nil
	}
	b.head = 0
	b.size = 0
}
