// Package qos implements passive channel-quality estimation from
// energy-detection-value (EDV) samples, and the modulation / TX-power /
// backoff recommendations derived from it.
package qos

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/kaonic-radio/kaonic/internal/rf215"
)

// Quality is a 5-level channel-quality tag derived from the worse of the
// idle and RX EDV EMAs.
type Quality int

const (
	Excellent Quality = iota
	Good
	Fair
	Poor
	Bad
)

func (q Quality) String() string {
	switch q {
	case Excellent:
		return "Excellent"
	case Good:
		return "Good"
	case Fair:
		return "Fair"
	case Poor:
		return "Poor"
	case Bad:
		return "Bad"
	default:
		return "Unknown"
	}
}

// QualityFromEDV buckets an EDV reading in dBm into a Quality tag.
func QualityFromEDV(edv int8) Quality {
	switch {
	case edv <= -70:
		return Excellent
	case edv <= -50:
		return Good
	case edv <= -30:
		return Fair
	case edv <= -10:
		return Poor
	default:
		return Bad
	}
}

// BackoffMs is the recommended inter-transmission backoff for quality.
func (q Quality) BackoffMs() uint32 {
	switch q {
	case Excellent:
		return 1000
	case Good:
		return 2000
	case Fair:
		return 5000
	case Poor:
		return 10000
	default:
		return 20000
	}
}

// TxPowerAdjustment is the recommended additive TX power delta for quality.
func (q Quality) TxPowerAdjustment() int8 {
	switch q {
	case Excellent, Good:
		return 0
	case Fair:
		return 2
	case Poor:
		return 4
	default:
		return 6
	}
}

// RecommendedOfdm returns the OFDM modulation recommended at quality,
// scaled from basePower.
func (q Quality) RecommendedOfdm(basePower uint8) rf215.OfdmModulation {
	switch q {
	case Excellent:
		return rf215.OfdmModulation{Mcs: rf215.McsQamC3_4, Opt: rf215.OfdmOption1, TxPower: basePower}
	case Good:
		return rf215.OfdmModulation{Mcs: rf215.McsQpskC3_4, Opt: rf215.OfdmOption2, TxPower: basePower}
	case Fair:
		return rf215.OfdmModulation{Mcs: rf215.McsQpskC1_2_2x, Opt: rf215.OfdmOption3, TxPower: basePower + 2}
	case Poor:
		return rf215.OfdmModulation{Mcs: rf215.McsBpskC1_2_2x, Opt: rf215.OfdmOption4, TxPower: basePower + 4}
	default:
		return rf215.OfdmModulation{Mcs: rf215.McsBpskC1_2_4x, Opt: rf215.OfdmOption4, TxPower: basePower + 6}
	}
}

// RecommendedQpsk returns the O-QPSK modulation recommended at quality,
// scaled from basePower.
func (q Quality) RecommendedQpsk(basePower uint8) rf215.QpskModulation {
	switch q {
	case Excellent:
		return rf215.QpskModulation{ChipFreq: rf215.QpskChip2000, Mode: rf215.QpskMode3, TxPower: basePower}
	case Good:
		return rf215.QpskModulation{ChipFreq: rf215.QpskChip1000, Mode: rf215.QpskMode2, TxPower: basePower}
	case Fair:
		return rf215.QpskModulation{ChipFreq: rf215.QpskChip1000, Mode: rf215.QpskMode1, TxPower: basePower + 2}
	case Poor:
		return rf215.QpskModulation{ChipFreq: rf215.QpskChip200, Mode: rf215.QpskMode1, TxPower: basePower + 4}
	default:
		return rf215.QpskModulation{ChipFreq: rf215.QpskChip100, Mode: rf215.QpskMode0, TxPower: basePower + 6}
	}
}

// RecommendedModulation returns the recommended modulation of the
// requested family at quality.
func (q Quality) RecommendedModulation(kind rf215.ModulationKind, basePower uint8) rf215.Modulation {
	if kind == rf215.ModulationQpsk {
		return rf215.NewQpskModulation(q.RecommendedQpsk(basePower))
	}
	return rf215.NewOfdmModulation(q.RecommendedOfdm(basePower))
}

// Assessment tracks the running EDV estimate and derived quality for one
// radio module.
type Assessment struct {
	IdleEDV           int8
	RxEDV             int8
	NoiseFloor        int8
	InterferenceLevel int8
	Quality           Quality
	SampleCount       uint32
	LastRxTime        time.Time
	NoRxTimeout       time.Duration

	logger *log.Logger
}

// NewAssessment returns an Assessment with the chip's RSSI-invalid
// sentinel (-127 dBm) as its initial readings.
func NewAssessment(logger *log.Logger) *Assessment {
	return &Assessment{
		IdleEDV:     -127,
		RxEDV:       -127,
		NoiseFloor:  -127,
		Quality:     Excellent,
		NoRxTimeout: 5 * time.Second,
		logger:      logger,
	}
}

// UpdateIdle folds an idle-state EDV sample into the EMA (alpha=0.2) and
// re-derives quality.
func (a *Assessment) UpdateIdle(edv int8) {
	old := a.Quality
	a.SampleCount++

	if a.SampleCount == 1 {
		a.IdleEDV = edv
		a.NoiseFloor = edv
	} else {
		a.IdleEDV = int8((int32(a.IdleEDV)*4 + int32(edv)) / 5)
		a.NoiseFloor = minI8(a.IdleEDV, a.NoiseFloor)
	}

	a.updateQuality()
	a.logTransition(old)
	a.CheckNoRxRecovery()
}

// UpdateRx folds an RX-state EDV sample into the EMA and re-derives
// quality and interference level.
func (a *Assessment) UpdateRx(edv int8) {
	old := a.Quality
	firstRx := a.LastRxTime.IsZero()
	a.LastRxTime = time.Now()

	if firstRx {
		a.RxEDV = edv
	} else {
		a.RxEDV = int8((int32(a.RxEDV)*4 + int32(edv)) / 5)
	}

	a.InterferenceLevel = satSubI8(a.RxEDV, a.NoiseFloor)
	a.updateQuality()
	a.logTransition(old)
}

func (a *Assessment) updateQuality() {
	worst := a.IdleEDV
	if a.RxEDV > worst {
		worst = a.RxEDV
	}
	a.Quality = QualityFromEDV(worst)
}

// IsClear reports whether the idle EDV is below threshold (CCA).
func (a *Assessment) IsClear(threshold int8) bool {
	return a.IdleEDV < threshold
}

// CheckNoRxRecovery relaxes the RX EDV estimate toward idle when no RX
// has occurred for NoRxTimeout, recovering quality after interference
// clears. Reports whether quality changed.
func (a *Assessment) CheckNoRxRecovery() bool {
	if a.LastRxTime.IsZero() {
		return false
	}
	if time.Since(a.LastRxTime) <= a.NoRxTimeout {
		return false
	}

	old := a.Quality
	a.RxEDV = int8((int32(a.RxEDV) + int32(a.IdleEDV)*3) / 4)
	a.InterferenceLevel = satSubI8(a.RxEDV, a.NoiseFloor)
	a.updateQuality()

	changed := old != a.Quality
	if changed {
		a.logTransitionForced(old)
	}
	return changed
}

func (a *Assessment) logTransition(old Quality) {
	if a.logger != nil && old != a.Quality {
		a.logTransitionForced(old)
	}
}

func (a *Assessment) logTransitionForced(old Quality) {
	if a.logger == nil {
		return
	}
	a.logger.Info("channel quality changed", "from", old, "to", a.Quality, "idle_edv", a.IdleEDV, "rx_edv", a.RxEDV)
}

func minI8(a, b int8) int8 {
	if a < b {
		return a
	}
	return b
}

func satSubI8(a, b int8) int8 {
	r := int16(a) - int16(b)
	if r > 127 {
		return 127
	}
	if r < -128 {
		return -128
	}
	return int8(r)
}
