package rf215

import (
	"testing"
	"time"

	"github.com/kaonic-radio/kaonic/internal/bus"
	"github.com/kaonic-radio/kaonic/internal/kaonicerr"
	"github.com/stretchr/testify/assert"
)

func TestSetFrequencyRejectsOutOfBandFrequency(t *testing.T) {
	m := bus.NewMockBus()
	r := NewRadio(Band09, m)

	err := r.SetFrequency(FrequencyConfig{Freq: 2_000_000_000, ChannelSpacing: 200_000})
	assert.ErrorIs(t, err, kaonicerr.ErrIncorrectSettings)
}

func TestSetFrequencyWithinBandSucceeds(t *testing.T) {
	m := bus.NewMockBus()
	r := NewRadio(Band09, m)

	err := r.SetFrequency(FrequencyConfig{Freq: 868_000_000, ChannelSpacing: 200_000, Channel: 5})
	assert.NoError(t, err)

	cs := m.Reg(r.abs(regRFxxCS))
	assert.Equal(t, byte(200_000/FreqResolutionHz), cs)
}

func TestSetFrequencyRejectsChannelAboveMax(t *testing.T) {
	m := bus.NewMockBus()
	r := NewRadio(Band09, m)

	err := r.SetFrequency(FrequencyConfig{Freq: 868_000_000, ChannelSpacing: 200_000, Channel: 1000})
	assert.Error(t, err)
}

func TestReadStateMapsRegisterValue(t *testing.T) {
	m := bus.NewMockBus()
	r := NewRadio(Band09, m)
	m.SetReg(r.abs(regRFxxSTATE), uint8(StateTrxOff))

	state, err := r.ReadState()
	assert.NoError(t, err)
	assert.Equal(t, StateTrxOff, state)
}

func TestChangeStateWritesCommandAndWaits(t *testing.T) {
	m := bus.NewMockBus()
	r := NewRadio(Band09, m)
	m.SetReg(r.abs(regRFxxSTATE), uint8(StateTrxOff))

	state, err := r.ChangeState(10*time.Millisecond, StateTrxOff)
	assert.NoError(t, err)
	assert.Equal(t, StateTrxOff, state)
	assert.Equal(t, uint8(CommandTrxOff), m.Reg(r.abs(regRFxxCMD)))
}

func TestReadRSSISentinel(t *testing.T) {
	m := bus.NewMockBus()
	r := NewRadio(Band09, m)
	m.SetReg(r.abs(regRFxxRSSI), 127)

	rssi, err := r.ReadRSSI()
	assert.Error(t, err)
	assert.Equal(t, int8(-127), rssi)
}

func TestReadIrqReadsChipWideStatusNotPerBandMask(t *testing.T) {
	m := bus.NewMockBus()
	r := NewRadio(Band09, m)

	// SetIrqMask writes the per-band IRQM register; ReadIrq must read the
	// chip-wide IRQS register instead, so the two never alias.
	assert.NoError(t, r.SetIrqMask(RadioInterruptMask(0xFF)))
	m.SetReg(RegRF09IRQS, 0x05)

	irq, err := r.ReadIrq()
	assert.NoError(t, err)
	assert.Equal(t, RadioInterruptMask(0x05), irq)
}

func TestSetPacClampsTxPower(t *testing.T) {
	m := bus.NewMockBus()
	r := NewRadio(Band09, m)

	assert.NoError(t, r.SetPac(PacurNoReduction, 100))
	v := m.Reg(r.abs(regRFxxPAC))
	assert.Equal(t, uint8(PacurNoReduction)|31, v)
}
