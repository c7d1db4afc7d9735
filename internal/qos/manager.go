package qos

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/kaonic-radio/kaonic/internal/rf215"
)

// Manager wraps an Assessment with the knobs that turn raw channel
// quality into an adaptive recommendation: whether TX power, backoff,
// and modulation are allowed to adapt, and the CCA threshold to gate
// transmission on.
type Manager struct {
	assessment *Assessment

	ccaThreshold       int8
	adaptiveTxPower    bool
	adaptiveBackoff    bool
	adaptiveModulation bool
	modulationKind     rf215.ModulationKind
	defaultModulation  rf215.Modulation
	baseTxPower        uint8
}

// NewManager returns a Manager with the stack's conservative defaults:
// CCA at -75 dBm, all three adaptive behaviors enabled, OFDM MCS3/Option2
// at TX power 10 as the fallback modulation.
func NewManager(logger *log.Logger) *Manager {
	return &Manager{
		assessment:         NewAssessment(logger),
		ccaThreshold:       -75,
		adaptiveTxPower:    true,
		adaptiveBackoff:    true,
		adaptiveModulation: true,
		modulationKind:     rf215.ModulationOfdm,
		defaultModulation: rf215.NewOfdmModulation(rf215.OfdmModulation{
			Mcs: rf215.McsQpskC1_2, Opt: rf215.OfdmOption2, TxPower: 10,
		}),
		baseTxPower: 10,
	}
}

// WithCCAThreshold sets the clear-channel-assessment threshold in dBm.
func (m *Manager) WithCCAThreshold(threshold int8) *Manager {
	m.ccaThreshold = threshold
	return m
}

// WithAdaptiveTxPower toggles TX-power adaptation.
func (m *Manager) WithAdaptiveTxPower(enabled bool) *Manager {
	m.adaptiveTxPower = enabled
	return m
}

// WithAdaptiveBackoff toggles backoff adaptation.
func (m *Manager) WithAdaptiveBackoff(enabled bool) *Manager {
	m.adaptiveBackoff = enabled
	return m
}

// WithAdaptiveModulation toggles modulation adaptation.
func (m *Manager) WithAdaptiveModulation(enabled bool) *Manager {
	m.adaptiveModulation = enabled
	return m
}

// WithDefaultModulation sets the modulation used when adaptation is
// disabled, and derives the preferred family / base TX power from it.
func (m *Manager) WithDefaultModulation(mod rf215.Modulation) *Manager {
	m.defaultModulation = mod
	m.modulationKind = mod.Kind
	if mod.Kind == rf215.ModulationQpsk {
		m.baseTxPower = mod.Qpsk.TxPower
	} else {
		m.baseTxPower = mod.Ofdm.TxPower
	}
	return m
}

// WithNoRxTimeout sets the no-RX quality-recovery timeout.
func (m *Manager) WithNoRxTimeout(timeout time.Duration) *Manager {
	m.assessment.NoRxTimeout = timeout
	return m
}

// UpdateIdleEDV folds an idle-state EDV sample into the assessment.
func (m *Manager) UpdateIdleEDV(edv int8) { m.assessment.UpdateIdle(edv) }

// UpdateRxEDV folds an RX-state EDV sample into the assessment.
func (m *Manager) UpdateRxEDV(edv int8) { m.assessment.UpdateRx(edv) }

// Assessment returns the current channel assessment.
func (m *Manager) Assessment() *Assessment { return m.assessment }

// CanTransmit reports whether the channel is currently clear (CCA).
func (m *Manager) CanTransmit() bool {
	return m.assessment.IsClear(m.ccaThreshold)
}

// BackoffMs is the recommended backoff before a retry, or 0 if backoff
// adaptation is disabled.
func (m *Manager) BackoffMs() uint32 {
	if !m.adaptiveBackoff {
		return 0
	}
	return m.assessment.Quality.BackoffMs()
}

// TxPowerAdjustment is the recommended TX-power delta, or 0 if TX-power
// adaptation is disabled.
func (m *Manager) TxPowerAdjustment() int8 {
	if !m.adaptiveTxPower {
		return 0
	}
	return m.assessment.Quality.TxPowerAdjustment()
}

// RecommendedModulation returns the adaptively-chosen modulation, or the
// configured default if modulation adaptation is disabled.
func (m *Manager) RecommendedModulation() rf215.Modulation {
	if !m.adaptiveModulation {
		return m.defaultModulation
	}
	return m.assessment.Quality.RecommendedModulation(m.modulationKind, m.baseTxPower)
}

// Reset clears the accumulated assessment statistics back to initial
// conditions.
func (m *Manager) Reset() {
	logger := m.assessment.logger
	m.assessment = NewAssessment(logger)
}
