//go:build !tinygo

package bus

import (
	"time"

	"github.com/kaonic-radio/kaonic/internal/kaonicerr"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// LinuxConfig describes the SPI/GPIO resources for one RF215 chip.
type LinuxConfig struct {
	// SpiBusPath is e.g. "/dev/spidev0.0" or "/dev/spidev6.0".
	SpiBusPath string
	// SpiClockHz defaults to 8 MHz if zero.
	SpiClockHz int
	// ResetPin, InterruptPin are periph.io GPIO line names, e.g. "PD8",
	// "PE15", or a numeric "GPIO17" style name.
	ResetPin     string
	InterruptPin string
}

// LinuxBus is a Bus backed by periph.io SPI and GPIO, grounded on the
// nrf24 driver's realPin edge-watch pattern generalized to a synchronous
// wait instead of a callback.
type LinuxBus struct {
	conn     spi.Conn
	port     spi.PortCloser
	resetPin gpio.PinIO
	irqPin   gpio.PinIO
	start    time.Time

	irqEdge chan struct{}
}

// NewLinuxBus opens the SPI port and GPIO lines described by cfg.
func NewLinuxBus(cfg LinuxConfig) (*LinuxBus, error) {
	if _, err := host.Init(); err != nil {
		return nil, kaonicerr.Wrap(kaonicerr.HardwareError, "bus.host_init", err)
	}

	if cfg.SpiBusPath == "" {
		cfg.SpiBusPath = "/dev/spidev0.0"
	}
	port, err := spireg.Open(cfg.SpiBusPath)
	if err != nil {
		return nil, kaonicerr.Wrap(kaonicerr.HardwareError, "bus.spi_open", err)
	}

	clockHz := cfg.SpiClockHz
	if clockHz == 0 {
		clockHz = 8_000_000
	}
	conn, err := port.Connect(physic.Frequency(clockHz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, kaonicerr.Wrap(kaonicerr.HardwareError, "bus.spi_connect", err)
	}

	resetPin := gpioreg.ByName(cfg.ResetPin)
	if resetPin == nil {
		port.Close()
		return nil, kaonicerr.New(kaonicerr.HardwareError, "bus.reset_pin")
	}
	if err := resetPin.Out(gpio.High); err != nil {
		port.Close()
		return nil, kaonicerr.Wrap(kaonicerr.HardwareError, "bus.reset_pin_out", err)
	}

	irqPin := gpioreg.ByName(cfg.InterruptPin)
	if irqPin == nil {
		port.Close()
		return nil, kaonicerr.New(kaonicerr.HardwareError, "bus.irq_pin")
	}
	if err := irqPin.In(gpio.PullDown, gpio.RisingEdge); err != nil {
		port.Close()
		return nil, kaonicerr.Wrap(kaonicerr.HardwareError, "bus.irq_pin_in", err)
	}

	b := &LinuxBus{
		conn:     conn,
		port:     port,
		resetPin: resetPin,
		irqPin:   irqPin,
		start:    time.Now(),
	}
	return b, nil
}

// Tx implements Transport over the periph.io SPI connection.
func (b *LinuxBus) Tx(w, r []byte) error {
	return b.conn.Tx(w, r)
}

func (b *LinuxBus) WriteRegs(addr uint16, values []byte) error {
	return WriteRegsTo(b, addr, values)
}

func (b *LinuxBus) ReadRegs(addr uint16, values []byte) error {
	return ReadRegsTo(b, addr, values)
}

func (b *LinuxBus) WriteRegU8(addr uint16, value byte) error {
	return b.WriteRegs(addr, []byte{value})
}

func (b *LinuxBus) WriteRegU16(addr uint16, value uint16) error {
	return b.WriteRegs(addr, []byte{byte(value), byte(value >> 8)})
}

func (b *LinuxBus) ReadRegU8(addr uint16) (byte, error) {
	var v [1]byte
	if err := b.ReadRegs(addr, v[:]); err != nil {
		return 0, err
	}
	return v[0], nil
}

func (b *LinuxBus) ReadRegU16(addr uint16) (uint16, error) {
	var v [2]byte
	if err := b.ReadRegs(addr, v[:]); err != nil {
		return 0, err
	}
	return uint16(v[0]) | uint16(v[1])<<8, nil
}

// WaitInterrupt polls WaitForEdge with the given timeout, mirroring the
// nrf24 driver's Watch pattern but as a synchronous call suited to the
// radio worker's bounded-time receive.
func (b *LinuxBus) WaitInterrupt(timeout time.Duration) bool {
	return b.irqPin.WaitForEdge(timeout)
}

func (b *LinuxBus) Delay(duration time.Duration) {
	time.Sleep(duration)
}

func (b *LinuxBus) CurrentTimeMs() uint64 {
	return uint64(time.Since(b.start).Milliseconds())
}

func (b *LinuxBus) HardwareReset() error {
	if err := b.resetPin.Out(gpio.Low); err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "bus.reset_low", err)
	}
	time.Sleep(ResetPulse)
	if err := b.resetPin.Out(gpio.High); err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "bus.reset_high", err)
	}
	return nil
}

// Close releases the underlying SPI port.
func (b *LinuxBus) Close() error {
	return b.port.Close()
}
