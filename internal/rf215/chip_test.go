package rf215

import (
	"testing"

	"github.com/kaonic-radio/kaonic/internal/bus"
	"github.com/stretchr/testify/assert"
)

func TestProbeRejectsUnknownPartNumber(t *testing.T) {
	m := bus.NewMockBus()
	m.SetReg(RegRFPN, 0x99)

	_, err := Probe(m, "test")
	assert.Error(t, err)
}

func TestProbeSucceedsAndTunesDefaultFrequency(t *testing.T) {
	m := bus.NewMockBus()
	m.SetReg(RegRFPN, uint8(PartAt86Rf215))
	m.SetReg(RegRFVN, 3)
	m.SetReg(Band09.RadioAddress+regRFxxSTATE, uint8(StateTrxOff))

	c, err := Probe(m, "chip0")
	assert.NoError(t, err)
	assert.Equal(t, PartAt86Rf215, c.PartNumber())
	assert.Equal(t, uint8(3), c.Version())
	assert.Equal(t, byte(200_000/FreqResolutionHz), m.Reg(Band09.RadioAddress+regRFxxCS))
}

func TestSetFrequencyRoutesToCoveringBand(t *testing.T) {
	m := bus.NewMockBus()
	m.SetReg(RegRFPN, uint8(PartAt86Rf215))
	m.SetReg(Band09.RadioAddress+regRFxxSTATE, uint8(StateTrxOff))
	c, err := Probe(m, "chip0")
	assert.NoError(t, err)

	err = c.SetFrequency(FrequencyConfig{Freq: 2_440_000_000, ChannelSpacing: 2_000_000, Channel: 1})
	assert.NoError(t, err)

	cs := m.Reg(Band24.RadioAddress + regRFxxCS)
	assert.Equal(t, byte(2_000_000/FreqResolutionHz), cs)
}
