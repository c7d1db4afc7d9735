// Package frame implements the capacity-bounded, append-only byte buffers
// that carry data across the datapath without heap allocation per operation:
// Frame for one hardware-sized buffer, Segment for a reassembled
// payload spanning several of them.
package frame

import (
	"github.com/kaonic-radio/kaonic/internal/kaonicerr"
)

// HardwareFrameSize is the RF215 baseband FIFO size in bytes (S in spec.md).
const HardwareFrameSize = 2048

// MaxSegments is the default fan-in width (R in spec.md) a Segment can
// reassemble from.
const MaxSegments = 8

// Frame is a fixed-capacity byte buffer with a logical length <= capacity.
// The zero value is not usable; construct with New.
type Frame struct {
	buf []byte
	len int
}

// New returns an empty Frame with the given capacity.
func New(capacity int) *Frame {
	return &Frame{buf: make([]byte, capacity)}
}

// NewHardware returns an empty Frame sized for one RF215 baseband FIFO.
func NewHardware() *Frame {
	return New(HardwareFrameSize)
}

// Cap returns the buffer's capacity.
func (f *Frame) Cap() int { return len(f.buf) }

// Len returns the current logical length.
func (f *Frame) Len() int { return f.len }

// Clear resets the logical length to zero without touching capacity.
func (f *Frame) Clear() { f.len = 0 }

// Bytes returns a slice view over the logical contents. The slice aliases
// the Frame's backing array; callers must not retain it past the next
// mutation of the Frame.
func (f *Frame) Bytes() []byte { return f.buf[:f.len] }

// Append copies data onto the end of the frame, failing with OutOfMemory
// if it would exceed capacity. On failure the frame is left unmodified.
func (f *Frame) Append(data []byte) error {
	if f.len+len(data) > len(f.buf) {
		return kaonicerr.New(kaonicerr.OutOfMemory, "frame.append")
	}
	copy(f.buf[f.len:], data)
	f.len += len(data)
	return nil
}

// Resize shrinks (or grows, up to capacity) the logical length without
// touching the bytes already present. Growing beyond capacity fails with
// OutOfMemory and leaves the frame unmodified; the newly exposed bytes
// when growing within capacity are whatever was previously written there
// and must be overwritten by the caller before being trusted.
func (f *Frame) Resize(n int) error {
	if n < 0 || n > len(f.buf) {
		return kaonicerr.New(kaonicerr.OutOfMemory, "frame.resize")
	}
	f.len = n
	return nil
}

// CopyFrom clears the frame and copies data into it, failing with
// OutOfMemory if data doesn't fit.
func (f *Frame) CopyFrom(data []byte) error {
	f.Clear()
	return f.Append(data)
}

// RawSlice returns the full backing buffer including bytes past the
// logical length, for code (e.g. baseband FIFO unload) that must write
// directly into the backing array before calling Resize.
func (f *Frame) RawSlice() []byte { return f.buf }

// Segment is a Frame whose capacity spans up to maxSegments hardware
// frames, used to hold a payload reassembled from several wire segments.
type Segment struct {
	Frame
}

// NewSegment returns an empty Segment sized for maxSegments frames of
// segmentSize bytes each.
func NewSegment(segmentSize, maxSegments int) *Segment {
	return &Segment{Frame: Frame{buf: make([]byte, segmentSize*maxSegments)}}
}
