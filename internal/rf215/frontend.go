package rf215

import "time"

// The types below reconstruct the frontend-configuration vocabulary that
// the original driver's radio module declares (AgcAverageTime,
// AgcTargetLevel, FrequencySampleRate, RelativeCutOff, TransmitterCutOff,
// ReceiverBandwidth, PaRampTime) but whose definitions sit outside the
// file this port was grounded on; values and names follow their usage
// sites in the per-band frontend tables below (datasheet §6.3 recommended
// configuration tables).

// FrequencySampleRate is the ADC/DAC sample rate (RFn_TXDFE/RXDFE SR field).
type FrequencySampleRate uint8

const (
	SampleRate4000kHz FrequencySampleRate = iota
	SampleRate2000kHz
	SampleRate1333kHz
	SampleRate1000kHz
	SampleRate800kHz
	SampleRate666kHz
	SampleRate400kHz
	SampleRate333kHz
)

// RelativeCutOff is the digital filter relative-cutoff fraction of the
// sample rate (RCUT field).
type RelativeCutOff uint8

const (
	Fcut0_250 RelativeCutOff = iota
	Fcut0_375
	Fcut0_500
	Fcut0_750
	Fcut1_000
)

// TransmitterCutOff is the TX analog low-pass filter cutoff (RFn_TXCUTC
// LPFCUT field).
type TransmitterCutOff uint8

const (
	Flc160kHz TransmitterCutOff = iota
	Flc200kHz
	Flc250kHz
	Flc315kHz
	Flc400kHz
	Flc500kHz
	Flc625kHz
	Flc800kHz
	Flc1000kHz
)

// ReceiverBandwidth is the RX analog filter bandwidth and matching IF
// frequency (RFn_RXBWC BW field).
type ReceiverBandwidth uint8

const (
	Bw160kHzIf250kHz ReceiverBandwidth = iota
	Bw200kHzIf250kHz
	Bw250kHzIf250kHz
	Bw320kHzIf500kHz
	Bw400kHzIf500kHz
	Bw500kHzIf500kHz
	Bw630kHzIf1000kHz
	Bw800kHzIf1000kHz
	Bw1000kHzIf1000kHz
	Bw1250kHzIf2000kHz
	Bw1600kHzIf2000kHz
	Bw2000kHzIf2000kHz
)

// PaRampTime is the TX power-amplifier ramp time in microseconds.
type PaRampTime uint8

const (
	Paramp4 PaRampTime = iota
	Paramp8
	Paramp16
	Paramp32
)

// AgcAverageTime is the AGC energy-averaging window, in ADC samples.
type AgcAverageTime uint8

const (
	AgcSamples8 AgcAverageTime = iota
	AgcSamples16
	AgcSamples32
	AgcSamples64
)

// AgcTargetLevel is the AGC's target input power level.
type AgcTargetLevel uint8

const (
	TargetN30dB AgcTargetLevel = iota
	TargetN33dB
	TargetN36dB
	TargetN39dB
)

// TxFrontendConfig is the transmit half of a frontend configuration.
type TxFrontendConfig struct {
	SampleRate FrequencySampleRate
	RelCutOff  RelativeCutOff
	LpfCutOff  TransmitterCutOff
	PaRamp     PaRampTime
	PaCur      Pacur
	Power      uint8
}

// RxFrontendConfig is the receive half of a frontend configuration.
type RxFrontendConfig struct {
	SampleRate FrequencySampleRate
	RelCutOff  RelativeCutOff
	Bandwidth  ReceiverBandwidth
	IfShift    bool
}

// AgcControlConfig mirrors RFn_AGCC.
type AgcControlConfig struct {
	Enabled     bool
	AgcInput    bool
	AverageTime AgcAverageTime
}

// AgcGainConfig mirrors RFn_AGCS target-level fields.
type AgcGainConfig struct {
	TargetLevel AgcTargetLevel
}

// TransceiverConfig is the complete per-modulation frontend configuration
// a Transceiver programs into its Radio before transmitting/receiving.
type TransceiverConfig struct {
	TxConfig    TxFrontendConfig
	RxConfig    RxFrontendConfig
	AgcControl  AgcControlConfig
	AgcGain     AgcGainConfig
	Edd         time.Duration // expected energy-detection duration
}

// frontendTable computes the TransceiverConfig for modulation on a given
// band. Both bands implement the same interface but, per the chip's
// datasheet, the 2.4GHz band uses slightly wider RX filters for the same
// OFDM option to compensate for the wider channel — see frontendTable24.
type frontendTable func(Modulation) TransceiverConfig

// frontendTable09 implements the sub-GHz band's recommended
// transmitter/receiver frontend tables (datasheet tables 6-90, 6-93,
// 6-106).
func frontendTable09(m Modulation) TransceiverConfig {
	var cfg TransceiverConfig
	switch m.Kind {
	case ModulationOfdm:
		cfg.Edd = 960 * time.Microsecond
		cfg.AgcControl.AverageTime = AgcSamples8
		cfg.AgcControl.AgcInput = false

		switch m.Ofdm.Opt {
		case OfdmOption1:
			cfg.TxConfig.SampleRate = SampleRate1333kHz
			cfg.TxConfig.RelCutOff = Fcut1_000
			cfg.TxConfig.LpfCutOff = Flc800kHz
			cfg.RxConfig.RelCutOff = Fcut1_000
			cfg.RxConfig.Bandwidth = Bw1250kHzIf2000kHz
			cfg.RxConfig.IfShift = true
		case OfdmOption2:
			cfg.TxConfig.SampleRate = SampleRate1333kHz
			cfg.TxConfig.RelCutOff = Fcut0_750
			cfg.TxConfig.LpfCutOff = Flc500kHz
			cfg.RxConfig.RelCutOff = Fcut0_500
			cfg.RxConfig.Bandwidth = Bw800kHzIf1000kHz
			cfg.RxConfig.IfShift = true
		case OfdmOption3:
			cfg.TxConfig.SampleRate = SampleRate666kHz
			cfg.TxConfig.RelCutOff = Fcut0_750
			cfg.TxConfig.LpfCutOff = Flc250kHz
			cfg.RxConfig.RelCutOff = Fcut0_500
			cfg.RxConfig.Bandwidth = Bw400kHzIf500kHz
			cfg.RxConfig.IfShift = false
		case OfdmOption4:
			cfg.TxConfig.SampleRate = SampleRate666kHz
			cfg.TxConfig.RelCutOff = Fcut0_500
			cfg.TxConfig.LpfCutOff = Flc160kHz
			cfg.RxConfig.RelCutOff = Fcut0_375
			cfg.RxConfig.Bandwidth = Bw250kHzIf250kHz
			cfg.RxConfig.IfShift = true
		}
		cfg.RxConfig.SampleRate = cfg.TxConfig.SampleRate
		cfg.TxConfig.Power = m.Ofdm.TxPower

	case ModulationQpsk:
		cfg.AgcControl.Enabled = true
		cfg.AgcGain.TargetLevel = TargetN30dB

		switch m.Qpsk.ChipFreq {
		case QpskChip100:
			cfg.AgcControl.AverageTime = AgcSamples32
			cfg.TxConfig.SampleRate = SampleRate400kHz
			cfg.TxConfig.RelCutOff = Fcut0_750
			cfg.TxConfig.LpfCutOff = Flc400kHz
			cfg.TxConfig.PaRamp = Paramp32
			cfg.RxConfig.RelCutOff = Fcut0_375
			cfg.RxConfig.Bandwidth = Bw160kHzIf250kHz
			cfg.RxConfig.SampleRate = SampleRate400kHz
			cfg.Edd = 10 * 128 * time.Microsecond
		case QpskChip200:
			cfg.AgcControl.AverageTime = AgcSamples32
			cfg.TxConfig.PaRamp = Paramp16
			cfg.TxConfig.SampleRate = SampleRate800kHz
			cfg.TxConfig.RelCutOff = Fcut0_750
			cfg.TxConfig.LpfCutOff = Flc400kHz
			cfg.RxConfig.RelCutOff = Fcut0_375
			cfg.RxConfig.Bandwidth = Bw250kHzIf250kHz
			cfg.RxConfig.SampleRate = SampleRate800kHz
			cfg.Edd = 5 * 128 * time.Microsecond
		case QpskChip1000:
			cfg.AgcControl.AverageTime = AgcSamples8
			cfg.TxConfig.PaRamp = Paramp4
			cfg.TxConfig.SampleRate = SampleRate4000kHz
			cfg.TxConfig.RelCutOff = Fcut0_750
			cfg.TxConfig.LpfCutOff = Flc1000kHz
			cfg.RxConfig.RelCutOff = Fcut0_250
			cfg.RxConfig.Bandwidth = Bw1000kHzIf1000kHz
			cfg.RxConfig.SampleRate = SampleRate4000kHz
			cfg.Edd = 4 * 128 * time.Microsecond
		case QpskChip2000:
			cfg.AgcControl.AverageTime = AgcSamples8
			cfg.TxConfig.PaRamp = Paramp4
			cfg.TxConfig.SampleRate = SampleRate4000kHz
			cfg.TxConfig.RelCutOff = Fcut1_000
			cfg.TxConfig.LpfCutOff = Flc1000kHz
			cfg.RxConfig.RelCutOff = Fcut0_500
			cfg.RxConfig.Bandwidth = Bw2000kHzIf2000kHz
			cfg.RxConfig.SampleRate = SampleRate4000kHz
			cfg.Edd = 4 * 128 * time.Microsecond
		}
		cfg.TxConfig.Power = m.Qpsk.TxPower
	}

	cfg.TxConfig.PaCur = PacurNoReduction
	return cfg
}

// frontendTable24 implements the 2.4GHz band's tables. Differs from
// frontendTable09 only in the OFDM RX bandwidth selections (wider
// channel), per datasheet table 6-93's band-specific rows.
func frontendTable24(m Modulation) TransceiverConfig {
	cfg := frontendTable09(m)
	if m.Kind != ModulationOfdm {
		return cfg
	}

	switch m.Ofdm.Opt {
	case OfdmOption1:
		cfg.RxConfig.Bandwidth = Bw1600kHzIf2000kHz
	case OfdmOption2:
		cfg.RxConfig.Bandwidth = Bw800kHzIf1000kHz
	case OfdmOption3:
		cfg.RxConfig.Bandwidth = Bw500kHzIf500kHz
	case OfdmOption4:
		cfg.RxConfig.Bandwidth = Bw320kHzIf500kHz
	}
	return cfg
}
