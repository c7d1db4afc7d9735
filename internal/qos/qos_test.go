package qos

import (
	"testing"
	"time"

	"github.com/kaonic-radio/kaonic/internal/rf215"
	"github.com/stretchr/testify/assert"
)

func TestQualityFromEDVBuckets(t *testing.T) {
	assert.Equal(t, Excellent, QualityFromEDV(-100))
	assert.Equal(t, Good, QualityFromEDV(-60))
	assert.Equal(t, Fair, QualityFromEDV(-40))
	assert.Equal(t, Poor, QualityFromEDV(-20))
	assert.Equal(t, Bad, QualityFromEDV(0))
}

func TestUpdateIdleAppliesEmaAfterFirstSample(t *testing.T) {
	a := NewAssessment(nil)
	a.UpdateIdle(-80)
	assert.Equal(t, int8(-80), a.IdleEDV)

	a.UpdateIdle(-70)
	// EMA: (4*-80 + -70)/5 = -78
	assert.Equal(t, int8(-78), a.IdleEDV)
}

func TestUpdateQualityUsesWorseOfIdleAndRx(t *testing.T) {
	a := NewAssessment(nil)
	a.UpdateIdle(-95) // Excellent
	a.UpdateRx(-20)    // Poor
	assert.Equal(t, Poor, a.Quality)
}

func TestIsClearRespectsThreshold(t *testing.T) {
	a := NewAssessment(nil)
	a.UpdateIdle(-80)
	assert.True(t, a.IsClear(-75))
	assert.False(t, a.IsClear(-85))
}

func TestCheckNoRxRecoveryRelaxesTowardIdleAfterTimeout(t *testing.T) {
	a := NewAssessment(nil)
	a.NoRxTimeout = 1 * time.Millisecond
	a.UpdateIdle(-95)
	a.UpdateRx(-5)
	assert.Equal(t, Bad, a.Quality)

	time.Sleep(5 * time.Millisecond)
	changed := a.CheckNoRxRecovery()
	assert.True(t, changed)
	assert.NotEqual(t, Bad, a.Quality)
}

func TestManagerDisabledAdaptationReturnsNeutralValues(t *testing.T) {
	m := NewManager(nil).WithAdaptiveBackoff(false).WithAdaptiveTxPower(false)
	m.UpdateIdleEDV(-5)

	assert.Equal(t, uint32(0), m.BackoffMs())
	assert.Equal(t, int8(0), m.TxPowerAdjustment())
}

func TestManagerRecommendedModulationFollowsQuality(t *testing.T) {
	m := NewManager(nil)
	m.UpdateIdleEDV(-95)

	mod := m.RecommendedModulation()
	assert.Equal(t, rf215.ModulationOfdm, mod.Kind)
	assert.Equal(t, rf215.McsQamC3_4, mod.Ofdm.Mcs)
}

func TestManagerDefaultModulationUsedWhenAdaptationDisabled(t *testing.T) {
	want := rf215.NewQpskModulation(rf215.QpskModulation{ChipFreq: rf215.QpskChip1000, Mode: rf215.QpskMode2, TxPower: 7})
	m := NewManager(nil).WithAdaptiveModulation(false).WithDefaultModulation(want)

	assert.Equal(t, want, m.RecommendedModulation())
}

// TestIdleEDVBatchDrivesQualityChange feeds two independent batches of
// idle-EDV samples, one calm and one noisy, and checks the resulting
// quality, backoff, TX-power delta and recommended OFDM scheme. Each
// batch starts from a fresh manager: the EMA has no way to reach Poor
// from a handful of noisy samples on top of an already-converged calm
// baseline, so the noisy batch is evaluated on its own, as the effect of
// that interference arriving from a freshly powered-on radio would be.
func TestIdleEDVBatchDrivesQualityChange(t *testing.T) {
	calm := NewManager(nil)
	for _, edv := range []int8{-95, -94, -95, -96} {
		calm.UpdateIdleEDV(edv)
	}
	assert.Equal(t, Excellent, calm.Assessment().Quality)
	assert.Equal(t, uint32(1000), calm.BackoffMs())
	assert.Equal(t, int8(0), calm.TxPowerAdjustment())

	noisy := NewManager(nil)
	for _, edv := range []int8{-25, -24, -23} {
		noisy.UpdateIdleEDV(edv)
	}
	assert.Equal(t, Poor, noisy.Assessment().Quality)
	assert.Equal(t, uint32(10000), noisy.BackoffMs())
	assert.Equal(t, int8(4), noisy.TxPowerAdjustment())

	mod := noisy.RecommendedModulation()
	assert.Equal(t, rf215.ModulationOfdm, mod.Kind)
	assert.Equal(t, rf215.McsBpskC1_2_2x, mod.Ofdm.Mcs)
	assert.Equal(t, rf215.OfdmOption4, mod.Ofdm.Opt)
}
