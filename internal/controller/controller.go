// Package controller wires per-module radio workers to a shared network
// layer: a receive pump decodes heard frames into the network and republishes
// whatever it fully reassembles, a transmit pump fragments outbound
// payloads and re-dispatches the pieces back out to module 0, and
// RadioController is the single object callers drive both directions
// through.
package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kaonic-radio/kaonic/internal/broadcast"
	"github.com/kaonic-radio/kaonic/internal/frame"
	"github.com/kaonic-radio/kaonic/internal/kaonicerr"
	"github.com/kaonic-radio/kaonic/internal/netlayer"
	"github.com/kaonic-radio/kaonic/internal/rf215"
	"github.com/kaonic-radio/kaonic/internal/worker"
	"golang.org/x/sync/errgroup"
)

// busCapacity bounds every internal broadcast channel's per-subscriber
// buffer; a slow consumer lags rather than stalling the pumps.
const busCapacity = 8

// transmitModule is the module a fragmented outbound payload is handed
// to. The original scaffold only ever drives module 0 from the transmit
// pump; a multi-radio transmit policy is future work.
const transmitModule = 0

// NetworkReceive carries one fully-reassembled inbound payload.
type NetworkReceive struct {
	Frame *frame.Segment
}

// API is the external command surface a transport layer (gRPC, CLI,
// whatever) drives the datapath through, with ordinary Go errors in
// place of RPC status codes. kaonicerr.Kind.RPCName maps those errors
// onto the InvalidArgument/Internal/ResourceExhausted/Unimplemented
// surface a future transport would want, without this package importing
// any RPC library itself.
type API interface {
	Configure(module int, freq rf215.FrequencyConfig) error
	Transmit(module int, f *frame.Frame) error
	SetModulation(module int, modulation rf215.Modulation) error
	NetworkTransmit(payload *frame.Segment) error
	ModuleReceiveStream(module int) (*broadcast.Subscription[worker.ReceiveEvent], error)
	NetworkReceiveStream() *broadcast.Subscription[NetworkReceive]
}

var _ API = (*RadioController)(nil)

// RadioController owns the network layer, the per-module workers, and the
// pump goroutines that bridge them; it is the only object callers need to
// drive both directions of the datapath.
type RadioController struct {
	networkMu sync.Mutex
	network   *netlayer.Network

	networkRx *broadcast.Broadcaster[NetworkReceive]
	networkTx *broadcast.Broadcaster[*frame.Segment]
	moduleRx  *broadcast.Broadcaster[worker.ReceiveEvent]
	commands  *broadcast.Broadcaster[worker.Command]

	outputFrames []*frame.Frame
	moduleCount  int

	// workers and pumps are kept in separate errgroup.Groups: a worker
	// hitting a fatal bus error must not tear down its siblings or the
	// network pumps, only the top-level shutdown context does that.
	workers *errgroup.Group
	pumps   *errgroup.Group
	cancel  context.CancelFunc
	logger  *log.Logger
}

// Config bundles the radios to drive, in module-index order, and the
// network layer's sizing. Callers typically build Radios from
// platform.OpenModules; the controller itself only depends on the
// worker.Radio interface so it can be driven by fakes in tests.
type Config struct {
	Radios  []worker.Radio
	Network netlayer.Config
	Logger  *log.Logger
}

// New constructs a RadioController and starts one worker goroutine per
// module (in one errgroup) plus the RX/TX network pumps (in a second one),
// all cancelled through one shared context. Call Shutdown to stop them.
func New(cfg Config) *RadioController {
	ctx, cancel := context.WithCancel(context.Background())

	outputFrames := make([]*frame.Frame, cfg.Network.MaxSegments)
	for i := range outputFrames {
		outputFrames[i] = frame.New(cfg.Network.SegmentCap)
	}

	c := &RadioController{
		network:      netlayer.NewNetwork(cfg.Network),
		networkRx:    broadcast.New[NetworkReceive](busCapacity),
		networkTx:    broadcast.New[*frame.Segment](busCapacity),
		moduleRx:     broadcast.New[worker.ReceiveEvent](busCapacity),
		commands:     broadcast.New[worker.Command](busCapacity),
		outputFrames: outputFrames,
		moduleCount:  len(cfg.Radios),
		workers:      new(errgroup.Group),
		pumps:        new(errgroup.Group),
		cancel:       cancel,
		logger:       cfg.Logger,
	}

	for i, radio := range cfg.Radios {
		w := worker.New(i, radio, c.commands.Subscribe(), c.moduleRx, c.logger)
		c.workers.Go(func() error { return w.Run(ctx) })
	}

	c.pumps.Go(func() error { return c.manageRxNetwork(ctx) })
	c.pumps.Go(func() error { return c.manageTxNetwork(ctx) })

	return c
}

// Execute dispatches command to whichever module it addresses.
func (c *RadioController) Execute(command worker.Command) {
	c.commands.Publish(command)
}

// NetworkTransmit hands payload to the transmit pump, which fragments it
// and drives the pieces out through the radio workers.
func (c *RadioController) NetworkTransmit(payload *frame.Segment) error {
	c.networkTx.Publish(payload)
	return nil
}

// NetworkReceive subscribes to fully-reassembled inbound payloads.
func (c *RadioController) NetworkReceive() *broadcast.Subscription[NetworkReceive] {
	return c.networkRx.Subscribe()
}

// ModuleReceive subscribes to raw frames heard by module (currently every
// module's events share one bus; the argument is accepted for parity with
// a future per-module fan-out and to mirror the upstream call shape).
func (c *RadioController) ModuleReceive(_ int) *broadcast.Subscription[worker.ReceiveEvent] {
	return c.moduleRx.Subscribe()
}

// validateModule rejects an out-of-range module index the way §6 requires:
// 0 up to (but not including) the number of radios are valid module
// identifiers, anything else is IncorrectSettings
// (a future transport maps that to InvalidArgument via Kind.RPCName).
func (c *RadioController) validateModule(module int) error {
	if module < 0 || module >= c.moduleCount {
		return kaonicerr.New(kaonicerr.IncorrectSettings, "controller.invalid_module")
	}
	return nil
}

// Configure programs module's frequency/channel. Part of API.
func (c *RadioController) Configure(module int, freq rf215.FrequencyConfig) error {
	if err := c.validateModule(module); err != nil {
		return err
	}
	c.commands.Publish(worker.Command{Kind: worker.CommandConfigure, Module: module, FreqConfig: freq})
	return nil
}

// Transmit hands f to module's worker for immediate baseband transmit,
// bypassing the network layer's fragmentation. Part of API.
func (c *RadioController) Transmit(module int, f *frame.Frame) error {
	if err := c.validateModule(module); err != nil {
		return err
	}
	c.commands.Publish(worker.Command{Kind: worker.CommandTransmit, Module: module, Frame: f})
	return nil
}

// SetModulation reprograms module's modulation (and TX power, carried
// inside modulation's variant). Part of API.
func (c *RadioController) SetModulation(module int, modulation rf215.Modulation) error {
	if err := c.validateModule(module); err != nil {
		return err
	}
	c.commands.Publish(worker.Command{Kind: worker.CommandSetModulation, Module: module, Modulation: modulation})
	return nil
}

// ModuleReceiveStream is ModuleReceive with the module-range validation
// API requires.
func (c *RadioController) ModuleReceiveStream(module int) (*broadcast.Subscription[worker.ReceiveEvent], error) {
	if err := c.validateModule(module); err != nil {
		return nil, err
	}
	return c.moduleRx.Subscribe(), nil
}

// NetworkReceiveStream is NetworkReceive under the API interface's name.
func (c *RadioController) NetworkReceiveStream() *broadcast.Subscription[NetworkReceive] {
	return c.networkRx.Subscribe()
}

// Shutdown cancels every worker and pump and waits for them to return.
func (c *RadioController) Shutdown() error {
	c.cancel()
	return errors.Join(c.workers.Wait(), c.pumps.Wait())
}

func currentTimeMs() int64 {
	return time.Now().UnixMilli()
}

// manageRxNetwork feeds every heard module frame into the network layer
// and republishes whatever fully reassembles from it.
func (c *RadioController) manageRxNetwork(ctx context.Context) error {
	sub := c.moduleRx.Subscribe()
	defer c.moduleRx.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-sub.Chan():
			if !ok {
				return nil
			}

			c.networkMu.Lock()
			_ = c.network.Receive(currentTimeMs(), event.Frame)
			c.network.Process(currentTimeMs(), func(payload []byte) {
				assembled := frame.NewSegment(len(payload), frame.MaxSegments)
				_ = assembled.Append(payload)
				c.networkRx.Publish(NetworkReceive{Frame: assembled})
			})
			c.networkMu.Unlock()
		}
	}
}

// manageTxNetwork fragments every outbound payload and re-dispatches the
// resulting segments as Transmit commands to transmitModule's worker.
func (c *RadioController) manageTxNetwork(ctx context.Context) error {
	sub := c.networkTx.Subscribe()
	defer c.networkTx.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case payload, ok := <-sub.Chan():
			if !ok {
				return nil
			}

			c.networkMu.Lock()
			err := c.network.Transmit(payload.Bytes(), c.outputFrames, func(frames []*frame.Frame) error {
				for _, f := range frames {
					// outputFrames is reused across calls; publish a copy so
					// a slow-to-dispatch command isn't clobbered by the next
					// Transmit before its worker reads it.
					chunk := frame.New(f.Cap())
					_ = chunk.CopyFrom(f.Bytes())
					c.commands.Publish(worker.Command{
						Kind:   worker.CommandTransmit,
						Module: transmitModule,
						Frame:  chunk,
					})
				}
				return nil
			})
			c.networkMu.Unlock()

			if err != nil && c.logger != nil {
				c.logger.Warn("network transmit failed", "error", err)
			}
		}
	}
}
