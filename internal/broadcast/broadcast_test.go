package broadcast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPublishDeliversToAllSubscribers(t *testing.T) {
	b := New[int](4)
	s1 := b.Subscribe()
	s2 := b.Subscribe()

	b.Publish(42)

	v, lagged, ok := s1.Recv()
	assert.True(t, ok)
	assert.Equal(t, 0, lagged)
	assert.Equal(t, 42, v)

	v, lagged, ok = s2.Recv()
	assert.True(t, ok)
	assert.Equal(t, 0, lagged)
	assert.Equal(t, 42, v)
}

func TestSlowSubscriberGetsLaggedSignalInsteadOfBlockingPublisher(t *testing.T) {
	b := New[int](2)
	slow := b.Subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			b.Publish(i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}

	_, lagged, ok := slow.Recv()
	assert.True(t, ok)
	// Publish is synchronous: 10 values into a buffer of 2 drop 8.
	assert.Equal(t, 8, lagged)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New[string](1)
	sub := b.Subscribe()
	b.Unsubscribe(sub)

	_, _, ok := sub.Recv()
	assert.False(t, ok)
}

func TestSubscriberCountTracksLifecycle(t *testing.T) {
	b := New[int](1)
	assert.Equal(t, 0, b.SubscriberCount())

	s := b.Subscribe()
	assert.Equal(t, 1, b.SubscriberCount())

	b.Unsubscribe(s)
	assert.Equal(t, 0, b.SubscriberCount())
}
