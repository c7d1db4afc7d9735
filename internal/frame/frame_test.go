package frame

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/kaonic-radio/kaonic/internal/kaonicerr"
)

func TestAppendWithinCapacity(t *testing.T) {
	f := New(8)
	assert.NoError(t, f.Append([]byte{1, 2, 3}))
	assert.NoError(t, f.Append([]byte{4, 5}))
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, f.Bytes())
	assert.Equal(t, 5, f.Len())
	assert.Equal(t, 8, f.Cap())
}

func TestAppendOverCapacityFails(t *testing.T) {
	f := New(4)
	err := f.Append([]byte{1, 2, 3, 4, 5})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, kaonicerr.ErrOutOfMemory))
	assert.Equal(t, 0, f.Len(), "failed append must not mutate the frame")
}

func TestClearResetsLength(t *testing.T) {
	f := New(4)
	_ = f.Append([]byte{1, 2})
	f.Clear()
	assert.Equal(t, 0, f.Len())
	assert.NoError(t, f.Append([]byte{9, 9, 9, 9}))
}

func TestResizeDown(t *testing.T) {
	f := New(4)
	_ = f.Append([]byte{1, 2, 3, 4})
	assert.NoError(t, f.Resize(2))
	assert.Equal(t, []byte{1, 2}, f.Bytes())
}

func TestResizePastCapacityFails(t *testing.T) {
	f := New(4)
	err := f.Resize(5)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, kaonicerr.ErrOutOfMemory))
}

func TestCopyFromReplacesContents(t *testing.T) {
	f := New(4)
	_ = f.Append([]byte{9, 9, 9, 9})
	assert.NoError(t, f.CopyFrom([]byte{1, 2}))
	assert.Equal(t, []byte{1, 2}, f.Bytes())
}

func TestSegmentCapacitySpansMaxSegments(t *testing.T) {
	s := NewSegment(64, 4)
	assert.Equal(t, 256, s.Cap())
	assert.NoError(t, s.Append(make([]byte, 256)))
	assert.Error(t, s.Append([]byte{1}))
}
