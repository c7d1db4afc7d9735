package rf215

import (
	"time"

	"github.com/kaonic-radio/kaonic/internal/bus"
	"github.com/kaonic-radio/kaonic/internal/frame"
	"github.com/kaonic-radio/kaonic/internal/kaonicerr"
)

// Transceiver composes a Radio and Baseband for one band, applying
// modulation-dependent frontend tables and performing CCA-guarded
// transmit and timeout-bounded receive.
type Transceiver struct {
	band     Band
	radio    *Radio
	baseband *Baseband
	table    frontendTable
}

// NewTransceiver returns a Transceiver for band over bus.
func NewTransceiver(band Band, b bus.Bus) *Transceiver {
	table := frontendTable09
	if band.Name == Band24.Name {
		table = frontendTable24
	}
	return &Transceiver{
		band:     band,
		radio:    NewRadio(band, b),
		baseband: NewBaseband(band, b),
		table:    table,
	}
}

// Radio returns the underlying per-band Radio.
func (t *Transceiver) Radio() *Radio { return t.radio }

// Baseband returns the underlying per-band Baseband.
func (t *Transceiver) Baseband() *Baseband { return t.baseband }

// CheckBand reports whether freq is covered by this transceiver's band.
func (t *Transceiver) CheckBand(freq Frequency) bool { return t.band.Contains(freq) }

// SetFrequency delegates to the Radio.
func (t *Transceiver) SetFrequency(cfg FrequencyConfig) error {
	return t.radio.SetFrequency(cfg)
}

// SetupIrq programs the radio interrupt mask (RFn_IRQM). The baseband
// interrupt mask is not written.
func (t *Transceiver) SetupIrq(radioMask RadioInterruptMask) error {
	return t.radio.SetIrqMask(radioMask)
}

// Reset resets the radio to TrxOff.
func (t *Transceiver) Reset() error { return t.radio.Reset() }

// txdfeValue packs sample rate (bits 5-7) and relative cutoff (bits 0-2)
// into one RFn_TXDFE byte.
func txdfeValue(sr FrequencySampleRate, rcut RelativeCutOff) uint8 {
	return uint8(sr)<<5 | uint8(rcut)
}

// rxdfeValue mirrors txdfeValue for RFn_RXDFE.
func rxdfeValue(sr FrequencySampleRate, rcut RelativeCutOff) uint8 {
	return uint8(sr)<<5 | uint8(rcut)
}

// txcutcValue packs PA ramp time (bits 6-7) and LPF cutoff (bits 0-3)
// into RFn_TXCUTC. PaCur is written separately via RFn_PAC (SetPac).
func txcutcValue(ramp PaRampTime, lpfcut TransmitterCutOff) uint8 {
	return uint8(ramp)<<6 | uint8(lpfcut)
}

// rxbwcValue packs IF-shift (bit 4) and bandwidth (bits 0-3) into RFn_RXBWC.
func rxbwcValue(bw ReceiverBandwidth, ifShift bool) uint8 {
	v := uint8(bw)
	if ifShift {
		v |= 0b0001_0000
	}
	return v
}

// agccValue packs AGC enable (bit 0), external-input selector (bit 1) and
// average time (bits 2-3) into RFn_AGCC.
func agccValue(c AgcControlConfig) uint8 {
	v := uint8(0)
	if c.Enabled {
		v |= 0b0000_0001
	}
	if c.AgcInput {
		v |= 0b0000_0010
	}
	v |= uint8(c.AverageTime) << 2
	return v
}

// agcsValue packs the AGC target level into RFn_AGCS's gain-control field.
func agcsValue(g AgcGainConfig) uint8 {
	return uint8(g.TargetLevel) << 5
}

// Configure applies the frontend table entry for modulation to the
// transceiver's registers: TX sample rate/cutoffs/ramp/power, RX
// bandwidth/cutoff/IF-shift, and AGC control/gain.
func (t *Transceiver) Configure(modulation Modulation) error {
	if modulation.Kind == ModulationFsk {
		return kaonicerr.New(kaonicerr.NotSupported, "transceiver.configure.fsk")
	}
	cfg := t.table(modulation)

	if err := t.radio.bus.WriteRegU8(t.radio.abs(regRFxxTXDFE),
		txdfeValue(cfg.TxConfig.SampleRate, cfg.TxConfig.RelCutOff)); err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "transceiver.configure.txdfe", err)
	}
	if err := t.radio.bus.WriteRegU8(t.radio.abs(regRFxxTXCUTC),
		txcutcValue(cfg.TxConfig.PaRamp, cfg.TxConfig.LpfCutOff)); err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "transceiver.configure.txcutc", err)
	}
	if err := t.radio.SetPac(cfg.TxConfig.PaCur, cfg.TxConfig.Power); err != nil {
		return err
	}
	if err := t.radio.bus.WriteRegU8(t.radio.abs(regRFxxRXDFE),
		rxdfeValue(cfg.RxConfig.SampleRate, cfg.RxConfig.RelCutOff)); err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "transceiver.configure.rxdfe", err)
	}
	if err := t.radio.bus.WriteRegU8(t.radio.abs(regRFxxRXBWC),
		rxbwcValue(cfg.RxConfig.Bandwidth, cfg.RxConfig.IfShift)); err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "transceiver.configure.rxbwc", err)
	}
	if err := t.radio.bus.WriteRegU8(t.radio.abs(regRFxxAGCC), agccValue(cfg.AgcControl)); err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "transceiver.configure.agcc", err)
	}
	if err := t.radio.bus.WriteRegU8(t.radio.abs(regRFxxAGCS), agcsValue(cfg.AgcGain)); err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "transceiver.configure.agcs", err)
	}
	if err := t.radio.bus.WriteRegU16(t.radio.abs(regRFxxEDD), uint16(cfg.Edd.Microseconds())); err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "transceiver.configure.edd", err)
	}
	return nil
}

// BbTransmitCCA transmits f: leave RX, wait for TrxPrep, load the TX
// FIFO, command Tx, wait for completion (state-based), then return to RX
// so the caller keeps listening.
func (t *Transceiver) BbTransmitCCA(f *frame.Frame) error {
	if _, err := t.radio.ChangeState(100*time.Millisecond, StateTrxPrep); err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "transceiver.bb_transmit_cca.trxprep", err)
	}
	if err := t.baseband.LoadTx(f); err != nil {
		return err
	}
	if _, err := t.radio.ChangeState(100*time.Millisecond, StateTx); err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "transceiver.bb_transmit_cca.tx", err)
	}
	if _, err := t.radio.WaitOnState(200*time.Millisecond, func(s RadioState) bool {
		return s == StateTrxOff || s == StateTrxPrep
	}); err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "transceiver.bb_transmit_cca.txfe", err)
	}
	return t.radio.Receive()
}

// BbReceive waits on the interrupt line up to timeout; on the edge,
// unloads the baseband FIFO into f and returns its RSSI. On timer
// expiry returns kaonicerr.Timeout, which callers treat as expected.
func (t *Transceiver) BbReceive(f *frame.Frame, timeout time.Duration) (rssi int8, err error) {
	if !t.radio.WaitInterrupt(timeout) {
		return -127, kaonicerr.New(kaonicerr.Timeout, "transceiver.bb_receive")
	}
	if err := t.radio.ClearIrq(); err != nil {
		return -127, err
	}
	if err := t.baseband.LoadRx(f); err != nil {
		return -127, err
	}
	return t.radio.ReadRSSI()
}
