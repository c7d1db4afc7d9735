package rf215

import (
	"time"

	"github.com/kaonic-radio/kaonic/internal/bus"
	"github.com/kaonic-radio/kaonic/internal/kaonicerr"
)

// Frequency is expressed in Hz; Channel is the channel number within a
// band's channel-spacing grid.
type Frequency = uint32
type Channel = uint16

// Band describes one of the RF215's two radio bands. Go has no
// const-generic trait bound, so the per-band constants that the source
// attaches to a generic type parameter become a runtime value instead,
// passed into Radio/Baseband/Transceiver at construction.
type Band struct {
	Name            string
	RadioAddress    uint16
	BasebandAddress uint16
	FifoTxAddress   uint16
	FifoRxAddress   uint16
	IrqsAddress     uint16
	MinFrequency    Frequency
	MaxFrequency    Frequency
	FrequencyOffset Frequency
	MaxChannel      Channel
}

// Band09 and Band24 are the two supported RF215 bands.
var (
	Band09 = Band{
		Name:            "rf09",
		RadioAddress:    RadioBaseAddress09,
		BasebandAddress: BasebandBaseAddress0,
		FifoTxAddress:   FifoTxBaseAddress0,
		FifoRxAddress:   FifoRxBaseAddress0,
		IrqsAddress:     RegRF09IRQS,
		MinFrequency:    389_500_000,
		MaxFrequency:    1_020_000_000,
		FrequencyOffset: 0,
		MaxChannel:      255,
	}
	Band24 = Band{
		Name:            "rf24",
		RadioAddress:    RadioBaseAddress24,
		BasebandAddress: BasebandBaseAddress1,
		FifoTxAddress:   FifoTxBaseAddress1,
		FifoRxAddress:   FifoRxBaseAddress1,
		IrqsAddress:     RegRF24IRQS,
		MinFrequency:    2_400_000_000,
		MaxFrequency:    2_483_500_000,
		FrequencyOffset: 1_500_000_000,
		MaxChannel:      511,
	}
)

// Contains reports whether freq lies within this band's supported range.
func (b Band) Contains(freq Frequency) bool {
	return freq >= b.MinFrequency && freq <= b.MaxFrequency
}

// Pacur is the power-amplifier current-reduction setting (RFn_PAC bits 5-6).
type Pacur uint8

const (
	PacurReduction22mA Pacur = 0x00 << 5
	PacurReduction18mA Pacur = 0x01 << 5
	PacurReduction11mA Pacur = 0x02 << 5
	PacurNoReduction   Pacur = 0x03 << 5
)

// PllLoopBandwidth is the RFn_PLL loop-bandwidth adjustment.
type PllLoopBandwidth uint8

const (
	PllBandwidthDefault PllLoopBandwidth = 0x00 << 4
	PllBandwidthSmaller PllLoopBandwidth = 0x01 << 4
	PllBandwidthLarger  PllLoopBandwidth = 0x02 << 4
)

// FrequencyConfig describes a requested tuning: center frequency, channel
// spacing, channel number, and PLL loop bandwidth.
type FrequencyConfig struct {
	Freq           Frequency
	ChannelSpacing Frequency
	Channel        Channel
	PllBandwidth   PllLoopBandwidth
}

// Radio drives one band's RFn_ register block: state machine, frequency
// programming, PA/AGC settings, RSSI/EDV readout.
type Radio struct {
	band Band
	bus  bus.Bus
}

// NewRadio returns a Radio bound to band over bus.
func NewRadio(band Band, b bus.Bus) *Radio {
	return &Radio{band: band, bus: b}
}

// Band returns the band this Radio drives.
func (r *Radio) Band() Band { return r.band }

func (r *Radio) abs(offset uint16) uint16 { return r.band.RadioAddress + offset }

// SendCommand writes command to RFn_CMD.
func (r *Radio) SendCommand(command RadioCommand) error {
	return kaonicerr.Wrap(kaonicerr.HardwareError, "radio.send_command",
		r.bus.WriteRegU8(r.abs(regRFxxCMD), uint8(command)))
}

// SetState requests a transition into state by issuing the matching
// command. Transition itself is never a valid target.
func (r *Radio) SetState(state RadioState) error {
	var command RadioCommand
	switch state {
	case StatePowerOff:
		command = CommandNop
	case StateSleep:
		command = CommandSleep
	case StateTrxOff:
		command = CommandTrxOff
	case StateTrxPrep:
		command = CommandTrxPrep
	case StateTx:
		command = CommandTx
	case StateRx:
		command = CommandRx
	case StateReset:
		command = CommandReset
	default:
		return kaonicerr.New(kaonicerr.InvalidState, "radio.set_state")
	}
	return r.SendCommand(command)
}

// SetIrqMask enables the given radio interrupt sources.
func (r *Radio) SetIrqMask(mask RadioInterruptMask) error {
	return kaonicerr.Wrap(kaonicerr.HardwareError, "radio.set_irq_mask",
		r.bus.WriteRegU8(r.abs(regRFxxIRQM), uint8(mask)))
}

// ReadState reads the current RFn_STATE value.
func (r *Radio) ReadState() (RadioState, error) {
	v, err := r.bus.ReadRegU8(r.abs(regRFxxSTATE))
	if err != nil {
		return 0, kaonicerr.Wrap(kaonicerr.HardwareError, "radio.read_state", err)
	}
	if v > uint8(StateReset) {
		return 0, kaonicerr.New(kaonicerr.InvalidState, "radio.read_state")
	}
	return RadioState(v), nil
}

// WaitOnState polls ReadState every 100us until check returns true or
// timeout elapses, failing with HardwareError on timeout.
func (r *Radio) WaitOnState(timeout time.Duration, check func(RadioState) bool) (RadioState, error) {
	deadline := r.bus.CurrentTimeMs() + uint64(timeout.Milliseconds())
	for {
		state, err := r.ReadState()
		if err != nil {
			return 0, err
		}
		if check(state) {
			return state, nil
		}
		if r.bus.CurrentTimeMs() > deadline {
			return 0, kaonicerr.New(kaonicerr.HardwareError, "radio.wait_on_state")
		}
		r.bus.Delay(100 * time.Microsecond)
	}
}

// ChangeState requests state then waits for it to be reached.
func (r *Radio) ChangeState(timeout time.Duration, state RadioState) (RadioState, error) {
	if err := r.SetState(state); err != nil {
		return 0, err
	}
	return r.WaitOnState(timeout, func(s RadioState) bool { return s == state })
}

// WaitInterrupt blocks up to timeout for the bus interrupt line.
func (r *Radio) WaitInterrupt(timeout time.Duration) bool {
	return r.bus.WaitInterrupt(timeout)
}

// Receive brings the radio to TrxOff/TrxPrep if needed, then commands Rx
// and waits (100ms ceiling) for the state to be reached.
func (r *Radio) Receive() error {
	for {
		state, err := r.WaitOnState(100*time.Millisecond, func(s RadioState) bool {
			return s == StateTrxOff || s == StateTrxPrep
		})
		shouldChangeState := err != nil || state != StateTrxPrep
		if !shouldChangeState {
			break
		}
		if err := r.SetState(StateTrxPrep); err != nil {
			return err
		}
	}

	if err := r.SetState(StateRx); err != nil {
		return err
	}
	_, err := r.WaitOnState(100*time.Millisecond, func(s RadioState) bool { return s == StateRx })
	return err
}

// SetFrequency validates and programs CS, CCF0L/CCF0H, CNL/CNM, and PLL
// loop bandwidth for cfg, per the 25kHz-resolution scheme.
func (r *Radio) SetFrequency(cfg FrequencyConfig) error {
	if cfg.Freq < r.band.MinFrequency || cfg.Freq > r.band.MaxFrequency || cfg.Freq < r.band.FrequencyOffset {
		return kaonicerr.New(kaonicerr.IncorrectSettings, "radio.set_frequency")
	}
	if cfg.Channel > r.band.MaxChannel {
		return kaonicerr.New(kaonicerr.IncorrectSettings, "radio.set_frequency")
	}

	csDiv := cfg.ChannelSpacing / FreqResolutionHz
	if csDiv > 0xFF {
		return kaonicerr.New(kaonicerr.IncorrectSettings, "radio.set_frequency")
	}

	freqDiv := (cfg.Freq - r.band.FrequencyOffset) / FreqResolutionHz

	if err := r.bus.WriteRegU8(r.abs(regRFxxCS), uint8(csDiv)); err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "radio.set_frequency.cs", err)
	}
	if err := r.bus.WriteRegU16(r.abs(regRFxxCCF0L), uint16(freqDiv)); err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "radio.set_frequency.ccf0", err)
	}

	channelBytes := [2]byte{byte(cfg.Channel), byte(cfg.Channel >> 8)}
	if err := r.bus.WriteRegU8(r.abs(regRFxxCNL), channelBytes[0]); err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "radio.set_frequency.cnl", err)
	}
	// IEEE-compliant scheme: top bits of CNM are zero.
	if err := r.bus.WriteRegU8(r.abs(regRFxxCNM), channelBytes[1]); err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "radio.set_frequency.cnm", err)
	}
	if err := r.bus.WriteRegU8(r.abs(regRFxxPLL), uint8(cfg.PllBandwidth)); err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "radio.set_frequency.pll", err)
	}
	return nil
}

// SetPac programs the PA current-reduction setting and clamped TX power
// (0..=31).
func (r *Radio) SetPac(pacur Pacur, txPower uint8) error {
	if txPower > 31 {
		txPower = 31
	}
	value := uint8(pacur) | txPower
	return kaonicerr.Wrap(kaonicerr.HardwareError, "radio.set_pac",
		r.bus.WriteRegU8(r.abs(regRFxxPAC), value))
}

// ReadRSSI returns the last demodulated frame's RSSI, or -127 if the
// register reads the chip's "invalid" sentinel (127).
func (r *Radio) ReadRSSI() (int8, error) {
	v, err := r.bus.ReadRegU8(r.abs(regRFxxRSSI))
	if err != nil {
		return -127, kaonicerr.Wrap(kaonicerr.HardwareError, "radio.read_rssi", err)
	}
	rssi := int8(v)
	if rssi == 127 {
		return -127, kaonicerr.New(kaonicerr.InvalidState, "radio.read_rssi")
	}
	return rssi, nil
}

// ReadEDV returns the current energy-detection value, with the same
// invalid-sentinel handling as ReadRSSI.
func (r *Radio) ReadEDV() (int8, error) {
	v, err := r.bus.ReadRegU8(r.abs(regRFxxEDV))
	if err != nil {
		return -127, kaonicerr.Wrap(kaonicerr.HardwareError, "radio.read_edv", err)
	}
	edv := int8(v)
	if edv == 127 {
		return -127, kaonicerr.New(kaonicerr.InvalidState, "radio.read_edv")
	}
	return edv, nil
}

// ReadIrq reads and returns the pending radio IRQ status bits. Reading
// RFn_IRQS clears it. Unlike the other RFn_ registers, IRQS is a
// chip-wide address (RF09_IRQS/RF24_IRQS), not an offset into this
// band's register block, so it bypasses abs().
func (r *Radio) ReadIrq() (RadioInterruptMask, error) {
	v, err := r.bus.ReadRegU8(r.band.IrqsAddress)
	if err != nil {
		return 0, kaonicerr.Wrap(kaonicerr.HardwareError, "radio.read_irq", err)
	}
	return RadioInterruptMask(v), nil
}

// ClearIrq discards the pending radio IRQ status.
func (r *Radio) ClearIrq() error {
	_, err := r.ReadIrq()
	return err
}

// Reset pulses the hardware reset line then brings the radio to TrxOff.
func (r *Radio) Reset() error {
	if err := r.bus.HardwareReset(); err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "radio.reset", err)
	}
	return r.SetState(StateTrxOff)
}
