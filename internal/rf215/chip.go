package rf215

import (
	"fmt"
	"time"

	"github.com/kaonic-radio/kaonic/internal/bus"
	"github.com/kaonic-radio/kaonic/internal/frame"
	"github.com/kaonic-radio/kaonic/internal/kaonicerr"
)

// PartNumber identifies the specific AT86RF215 variant read from RF_PN.
type PartNumber uint8

const (
	PartAt86Rf215   PartNumber = 0x34
	PartAt86Rf215Iq PartNumber = 0x35
	PartAt86Rf215M  PartNumber = 0x36
)

func (p PartNumber) String() string {
	switch p {
	case PartAt86Rf215:
		return "AT86RF215"
	case PartAt86Rf215Iq:
		return "AT86RF215IQ"
	case PartAt86Rf215M:
		return "AT86RF215M"
	default:
		return fmt.Sprintf("Unknown(0x%02x)", uint8(p))
	}
}

// ChipMode is the RF_IQIFC1 mode select field.
type ChipMode uint8

const (
	ChipModeBasebandRadio   ChipMode = 0x00 // RF + both basebands, I/Q IF disabled
	ChipModeRadio           ChipMode = 0x01 // RF only, I/Q IF enabled
	ChipModeBasebandRadio09 ChipMode = 0x04 // BBC1 only, I/Q IF for sub-GHz
	ChipModeBasebandRadio24 ChipMode = 0x05 // BBC0 only, I/Q IF for 2.4GHz
)

// Chip owns both of the RF215's transceivers and routes frequency-bound
// operations to whichever band covers the tuned frequency.
type Chip struct {
	name       string
	partNumber PartNumber
	version    uint8
	bus        bus.Bus

	trx09 *Transceiver
	trx24 *Transceiver

	freqConfig FrequencyConfig
}

// Probe reads the part number/version registers, resets both
// transceivers, and tunes to a safe default sub-GHz frequency.
func Probe(b bus.Bus, name string) (*Chip, error) {
	pn, err := b.ReadRegU8(RegRFPN)
	if err != nil {
		return nil, kaonicerr.Wrap(kaonicerr.HardwareError, "rf215.probe.part_number", err)
	}
	switch PartNumber(pn) {
	case PartAt86Rf215, PartAt86Rf215Iq, PartAt86Rf215M:
	default:
		return nil, kaonicerr.New(kaonicerr.HardwareError, "rf215.probe.unknown_part")
	}

	version, err := b.ReadRegU8(RegRFVN)
	if err != nil {
		return nil, kaonicerr.Wrap(kaonicerr.HardwareError, "rf215.probe.version", err)
	}

	trx09 := NewTransceiver(Band09, b)
	trx24 := NewTransceiver(Band24, b)

	if err := trx09.Reset(); err != nil {
		return nil, err
	}
	if err := trx24.Reset(); err != nil {
		return nil, err
	}

	c := &Chip{
		name:       name,
		partNumber: PartNumber(pn),
		version:    version,
		bus:        b,
		trx09:      trx09,
		trx24:      trx24,
	}

	if err := c.SetFrequency(FrequencyConfig{Freq: Band09.MinFrequency, ChannelSpacing: 200_000, Channel: 0}); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Chip) Name() string           { return c.name }
func (c *Chip) PartNumber() PartNumber { return c.partNumber }
func (c *Chip) Version() uint8         { return c.version }

// SetMode programs the RF_IQIFC1 chip-mode field.
func (c *Chip) SetMode(mode ChipMode) error {
	value, err := c.bus.ReadRegU8(RegRFIQIFC1)
	if err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "rf215.set_mode.read", err)
	}
	value = (value &^ 0b0111_0000) | (uint8(mode) << 4)
	return kaonicerr.Wrap(kaonicerr.HardwareError, "rf215.set_mode.write",
		c.bus.WriteRegU8(RegRFIQIFC1, value))
}

// SetIqLoopback toggles the external I/Q loopback bit in RF_IQIFC0.
func (c *Chip) SetIqLoopback(enabled bool) error {
	value, err := c.bus.ReadRegU8(RegRFIQIFC0)
	if err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "rf215.set_iq_loopback.read", err)
	}
	if enabled {
		value |= 0b1000_0000
	} else {
		value &^= 0b1000_0000
	}
	return kaonicerr.Wrap(kaonicerr.HardwareError, "rf215.set_iq_loopback.write",
		c.bus.WriteRegU8(RegRFIQIFC0, value))
}

// SetupIrq enables radioMask on both transceivers.
func (c *Chip) SetupIrq(radioMask RadioInterruptMask) error {
	if err := c.trx09.SetupIrq(radioMask); err != nil {
		return err
	}
	return c.trx24.SetupIrq(radioMask)
}

// transceiverFor returns whichever transceiver's band covers freq.
func (c *Chip) transceiverFor(freq Frequency) *Transceiver {
	if c.trx09.CheckBand(freq) {
		return c.trx09
	}
	return c.trx24
}

// SetFrequency routes to the transceiver whose band covers cfg.Freq, a
// no-op if cfg matches the already-applied configuration.
func (c *Chip) SetFrequency(cfg FrequencyConfig) error {
	if cfg == c.freqConfig {
		return nil
	}
	if err := c.transceiverFor(cfg.Freq).SetFrequency(cfg); err != nil {
		return err
	}
	c.freqConfig = cfg
	return nil
}

// Configure applies modulation's frontend table to both transceivers, so
// whichever band is later tuned to is already primed.
func (c *Chip) Configure(modulation Modulation) error {
	if err := c.trx09.Configure(modulation); err != nil {
		return err
	}
	return c.trx24.Configure(modulation)
}

// StartReceive commands both transceivers into Rx.
func (c *Chip) StartReceive() error {
	if err := c.trx09.Radio().Receive(); err != nil {
		return err
	}
	return c.trx24.Radio().Receive()
}

// BbTransmit transmits f on whichever band covers the currently-tuned
// frequency.
func (c *Chip) BbTransmit(f *frame.Frame) error {
	return c.transceiverFor(c.freqConfig.Freq).BbTransmitCCA(f)
}

// BbReceive receives into f on whichever band covers the currently-tuned
// frequency.
func (c *Chip) BbReceive(f *frame.Frame, timeout time.Duration) (int8, error) {
	return c.transceiverFor(c.freqConfig.Freq).BbReceive(f, timeout)
}

// ReadRSSI reads RSSI from whichever band covers the currently-tuned
// frequency.
func (c *Chip) ReadRSSI() (int8, error) {
	return c.transceiverFor(c.freqConfig.Freq).Radio().ReadRSSI()
}

// ReadEDV reads EDV from whichever band covers the currently-tuned
// frequency.
func (c *Chip) ReadEDV() (int8, error) {
	return c.transceiverFor(c.freqConfig.Freq).Radio().ReadEDV()
}

// Trx09 exposes the sub-GHz transceiver directly, for platform code that
// needs per-band control (e.g. the FEM adjuster).
func (c *Chip) Trx09() *Transceiver { return c.trx09 }

// Trx24 exposes the 2.4GHz transceiver directly.
func (c *Chip) Trx24() *Transceiver { return c.trx24 }

// Reset resets both transceivers.
func (c *Chip) Reset() error {
	if err := c.trx09.Reset(); err != nil {
		return err
	}
	return c.trx24.Reset()
}
