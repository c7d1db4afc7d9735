package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSharedBusSerializesRegisterWrites(t *testing.T) {
	m := NewMockBus()
	s := NewSharedBus(m)

	assert.NoError(t, s.WriteRegU8(0x100, 0x42))
	v, err := s.ReadRegU8(0x100)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x42), v)
}

func TestSharedBusU16LittleEndian(t *testing.T) {
	m := NewMockBus()
	s := NewSharedBus(m)

	assert.NoError(t, s.WriteRegU16(0x200, 0xABCD))
	assert.Equal(t, byte(0xCD), m.Reg(0x200))
	assert.Equal(t, byte(0xAB), m.Reg(0x201))

	v, err := s.ReadRegU16(0x200)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0xABCD), v)
}

func TestMockBusWaitInterruptFiresOnce(t *testing.T) {
	m := NewMockBus()
	m.Interrupted = true

	assert.True(t, m.WaitInterrupt(0))
	assert.False(t, m.WaitInterrupt(0))
}

func TestMockBusHardwareResetCounts(t *testing.T) {
	m := NewMockBus()
	assert.NoError(t, m.HardwareReset())
	assert.NoError(t, m.HardwareReset())
	assert.Equal(t, 2, m.ResetCount)
}

func TestEncodeAddrSetsWriteBit(t *testing.T) {
	w := encodeAddr(0x0100, opWrite)
	assert.Equal(t, byte(0x81), w[0])
	assert.Equal(t, byte(0x00), w[1])

	r := encodeAddr(0x0100, opRead)
	assert.Equal(t, byte(0x01), r[0])
	assert.Equal(t, byte(0x00), r[1])
}
