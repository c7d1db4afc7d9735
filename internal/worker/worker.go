// Package worker drives one radio module's lifetime: it is the only user
// of the module's radio for as long as it runs, dispatching module-addressed
// commands as they arrive and always attempting a short, timeout-bounded
// receive every iteration, publishing whatever it hears.
package worker

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kaonic-radio/kaonic/internal/broadcast"
	"github.com/kaonic-radio/kaonic/internal/frame"
	"github.com/kaonic-radio/kaonic/internal/rf215"
)

// receiveTimeout is the per-iteration receive window; short enough that a
// pending command is never starved for long, long enough not to busy-loop.
const receiveTimeout = 20 * time.Millisecond

// Radio is the subset of *rf215.Chip a worker drives. Defined as an
// interface so tests can substitute a fake.
type Radio interface {
	BbTransmit(f *frame.Frame) error
	BbReceive(f *frame.Frame, timeout time.Duration) (int8, error)
	Configure(modulation rf215.Modulation) error
	SetFrequency(cfg rf215.FrequencyConfig) error
}

// CommandKind tags which field of Command is populated.
type CommandKind int

const (
	CommandTransmit CommandKind = iota
	CommandConfigure
	CommandSetModulation
)

// Command is the tagged union of requests a Controller can dispatch to a
// module's worker. Module selects which worker acts on it; every other
// worker ignores it.
type Command struct {
	Kind       CommandKind
	Module     int
	Frame      *frame.Frame
	FreqConfig rf215.FrequencyConfig
	Modulation rf215.Modulation
}

// ReceiveEvent reports one frame heard by a module, with the RSSI the
// chip measured for it.
type ReceiveEvent struct {
	Module int
	Frame  *frame.Frame
	RSSI   int8
}

// Worker owns one radio module for its whole run.
type Worker struct {
	module   int
	radio    Radio
	commands *broadcast.Subscription[Command]
	receives *broadcast.Broadcaster[ReceiveEvent]
	logger   *log.Logger
}

// New returns a Worker for module, dispatching commands received on
// commands and publishing heard frames to receives.
func New(module int, radio Radio, commands *broadcast.Subscription[Command], receives *broadcast.Broadcaster[ReceiveEvent], logger *log.Logger) *Worker {
	return &Worker{
		module:   module,
		radio:    radio,
		commands: commands,
		receives: receives,
		logger:   logger,
	}
}

// Run loops until ctx is canceled: dispatch at most one pending command
// (non-blocking; an empty or lagged queue is not an error), then attempt
// a bounded receive and publish it if one arrived.
func (w *Worker) Run(ctx context.Context) error {
	rxFrame := frame.NewHardware()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		w.dispatchPending()

		rssi, err := w.radio.BbReceive(rxFrame, receiveTimeout)
		if err != nil {
			continue
		}

		heard := frame.NewHardware()
		if copyErr := heard.CopyFrom(rxFrame.Bytes()); copyErr != nil {
			if w.logger != nil {
				w.logger.Warn("dropping oversized received frame", "module", w.module, "error", copyErr)
			}
			continue
		}
		w.receives.Publish(ReceiveEvent{Module: w.module, Frame: heard, RSSI: rssi})
	}
}

// dispatchPending handles at most one queued command addressed to this
// module, mirroring a non-blocking try-receive: an empty channel, a
// command for another module, or a lagged subscriber are all silently
// skipped rather than treated as errors.
func (w *Worker) dispatchPending() {
	select {
	case cmd, ok := <-w.commands.Chan():
		if !ok {
			return
		}
		if cmd.Module != w.module {
			return
		}
		w.dispatch(cmd)
	default:
	}
}

func (w *Worker) dispatch(cmd Command) {
	var err error
	switch cmd.Kind {
	case CommandTransmit:
		err = w.radio.BbTransmit(cmd.Frame)
	case CommandConfigure:
		err = w.radio.SetFrequency(cmd.FreqConfig)
	case CommandSetModulation:
		err = w.radio.Configure(cmd.Modulation)
	}
	if err != nil && w.logger != nil {
		w.logger.Warn("command dispatch failed", "module", w.module, "kind", cmd.Kind, "error", err)
	}
}
