package rf215

import (
	"testing"

	"github.com/kaonic-radio/kaonic/internal/bus"
	"github.com/kaonic-radio/kaonic/internal/frame"
	"github.com/stretchr/testify/assert"
)

func TestConfigureAppliesOfdmFrontendTable(t *testing.T) {
	m := bus.NewMockBus()
	tr := NewTransceiver(Band09, m)

	err := tr.Configure(NewOfdmModulation(OfdmModulation{Mcs: McsQpskC1_2, Opt: OfdmOption3, TxPower: 10}))
	assert.NoError(t, err)

	assert.Equal(t, txdfeValue(SampleRate666kHz, Fcut0_750), m.Reg(tr.radio.abs(regRFxxTXDFE)))
	assert.Equal(t, rxbwcValue(Bw400kHzIf500kHz, false), m.Reg(tr.radio.abs(regRFxxRXBWC)))
	power := m.Reg(tr.radio.abs(regRFxxPAC))
	assert.Equal(t, uint8(PacurNoReduction)|10, power)
}

func TestFrontendTable24DiffersFromTable09ForOfdm(t *testing.T) {
	mod := NewOfdmModulation(OfdmModulation{Opt: OfdmOption1, TxPower: 5})
	cfg09 := frontendTable09(mod)
	cfg24 := frontendTable24(mod)
	assert.Equal(t, Bw1250kHzIf2000kHz, cfg09.RxConfig.Bandwidth)
	assert.Equal(t, Bw1600kHzIf2000kHz, cfg24.RxConfig.Bandwidth)
}

func TestBbReceiveTimesOutWithoutInterrupt(t *testing.T) {
	m := bus.NewMockBus()
	tr := NewTransceiver(Band09, m)

	f := frame.NewHardware()
	_, err := tr.BbReceive(f, 0)
	assert.Error(t, err)
}
