package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kaonic-radio/kaonic/internal/broadcast"
	"github.com/kaonic-radio/kaonic/internal/frame"
	"github.com/kaonic-radio/kaonic/internal/kaonicerr"
	"github.com/kaonic-radio/kaonic/internal/rf215"
	"github.com/stretchr/testify/assert"
)

type fakeRadio struct {
	mu sync.Mutex

	rxPayload []byte
	rxRSSI    int8
	rxErr     error

	transmitted []byte
	configured  []rf215.FrequencyConfig
	modulations []rf215.Modulation
}

func (f *fakeRadio) BbTransmit(fr *frame.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transmitted = append([]byte(nil), fr.Bytes()...)
	return nil
}

func (f *fakeRadio) BbReceive(fr *frame.Frame, timeout time.Duration) (int8, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rxErr != nil {
		return -127, f.rxErr
	}
	fr.Clear()
	_ = fr.Append(f.rxPayload)
	return f.rxRSSI, nil
}

func (f *fakeRadio) Configure(modulation rf215.Modulation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modulations = append(f.modulations, modulation)
	return nil
}

func (f *fakeRadio) SetFrequency(cfg rf215.FrequencyConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configured = append(f.configured, cfg)
	return nil
}

func TestWorkerPublishesReceivedFramesForItsModule(t *testing.T) {
	radio := &fakeRadio{rxPayload: []byte("hello"), rxRSSI: -42}
	commandBus := broadcast.New[Command](4)
	receiveBus := broadcast.New[ReceiveEvent](4)
	sub := commandBus.Subscribe()

	w := New(0, radio, sub, receiveBus, nil)
	rxSub := receiveBus.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	event, _, ok := rxSub.Recv()
	assert.True(t, ok)
	assert.Equal(t, 0, event.Module)
	assert.Equal(t, int8(-42), event.RSSI)
	assert.Equal(t, []byte("hello"), event.Frame.Bytes())

	cancel()
	<-done
}

func TestWorkerIgnoresCommandsForOtherModules(t *testing.T) {
	radio := &fakeRadio{rxErr: kaonicerr.New(kaonicerr.Timeout, "test")}
	commandBus := broadcast.New[Command](4)
	receiveBus := broadcast.New[ReceiveEvent](4)
	sub := commandBus.Subscribe()

	w := New(0, radio, sub, receiveBus, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	commandBus.Publish(Command{Kind: CommandSetModulation, Module: 1, Modulation: rf215.NewOfdmModulation(rf215.DefaultOfdmModulation())})
	time.Sleep(50 * time.Millisecond)

	cancel()
	<-done

	radio.mu.Lock()
	defer radio.mu.Unlock()
	assert.Empty(t, radio.modulations)
}

func TestWorkerDispatchesCommandsForItsModule(t *testing.T) {
	radio := &fakeRadio{rxErr: kaonicerr.New(kaonicerr.Timeout, "test")}
	commandBus := broadcast.New[Command](4)
	receiveBus := broadcast.New[ReceiveEvent](4)
	sub := commandBus.Subscribe()

	w := New(3, radio, sub, receiveBus, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	want := rf215.FrequencyConfig{Freq: 915_000_000, ChannelSpacing: 200_000, Channel: 1}
	commandBus.Publish(Command{Kind: CommandConfigure, Module: 3, FreqConfig: want})

	assert.Eventually(t, func() bool {
		radio.mu.Lock()
		defer radio.mu.Unlock()
		return len(radio.configured) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	radio.mu.Lock()
	defer radio.mu.Unlock()
	assert.Equal(t, want, radio.configured[0])
}
