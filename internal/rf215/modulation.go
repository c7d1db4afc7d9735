package rf215

// ModulationKind tags which variant a Modulation value carries.
type ModulationKind int

const (
	ModulationOff ModulationKind = iota
	ModulationOfdm
	ModulationQpsk
	ModulationFsk
)

// OfdmMcs is the OFDM modulation and coding scheme index (MCS 0..=6).
type OfdmMcs uint8

const (
	McsBpskC1_2_4x OfdmMcs = 0x00 // BPSK, coding rate 1/2, 4x frequency repetition
	McsBpskC1_2_2x OfdmMcs = 0x01 // BPSK, coding rate 1/2, 2x frequency repetition
	McsQpskC1_2_2x OfdmMcs = 0x02 // QPSK, coding rate 1/2, 2x frequency repetition
	McsQpskC1_2    OfdmMcs = 0x03 // QPSK, coding rate 1/2
	McsQpskC3_4    OfdmMcs = 0x04 // QPSK, coding rate 3/4
	McsQamC1_2     OfdmMcs = 0x05 // 16-QAM, coding rate 1/2
	McsQamC3_4     OfdmMcs = 0x06 // 16-QAM, coding rate 3/4
)

// OfdmOption is the OFDM bandwidth option: 1 (widest) through 4 (narrowest).
type OfdmOption uint8

const (
	OfdmOption1 OfdmOption = 0x00
	OfdmOption2 OfdmOption = 0x01
	OfdmOption3 OfdmOption = 0x02
	OfdmOption4 OfdmOption = 0x03
)

// OfdmModulation is a fully-specified OFDM modulation request.
type OfdmModulation struct {
	Mcs     OfdmMcs
	Opt     OfdmOption
	TxPower uint8 // 0..=31
}

// DefaultOfdmModulation matches the chip's conservative power-on default.
func DefaultOfdmModulation() OfdmModulation {
	return OfdmModulation{Mcs: McsBpskC1_2_4x, Opt: OfdmOption1, TxPower: 0x03}
}

// QpskChipFrequency is the O-QPSK chip rate in kHz.
type QpskChipFrequency uint8

const (
	QpskChip100  QpskChipFrequency = iota // 100 kHz
	QpskChip200                           // 200 kHz
	QpskChip1000                          // 1000 kHz
	QpskChip2000                          // 2000 kHz
)

// QpskRateMode is the O-QPSK rate mode (0..=3, spreading/rate-mode index).
type QpskRateMode uint8

const (
	QpskMode0 QpskRateMode = iota
	QpskMode1
	QpskMode2
	QpskMode3
)

// QpskModulation is a fully-specified O-QPSK modulation request.
type QpskModulation struct {
	ChipFreq QpskChipFrequency
	Mode     QpskRateMode
	TxPower  uint8 // 0..=31
}

// Modulation is the tagged modulation request accepted at the Transceiver
// boundary. Fsk is accepted as a value but always rejected as
// unsupported, matching the datapath's stated scope.
type Modulation struct {
	Kind ModulationKind
	Ofdm OfdmModulation
	Qpsk QpskModulation
}

// NewOfdmModulation wraps m as a Modulation.
func NewOfdmModulation(m OfdmModulation) Modulation {
	return Modulation{Kind: ModulationOfdm, Ofdm: m}
}

// NewQpskModulation wraps m as a Modulation.
func NewQpskModulation(m QpskModulation) Modulation {
	return Modulation{Kind: ModulationQpsk, Qpsk: m}
}
