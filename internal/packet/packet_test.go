package packet

import (
	"testing"

	"github.com/kaonic-radio/kaonic/internal/frame"
	"github.com/kaonic-radio/kaonic/internal/kaonicerr"
	"github.com/stretchr/testify/assert"
)

func TestBuildAndValidateRoundTrip(t *testing.T) {
	p := New(256)
	assert.NoError(t, p.Frame.Append([]byte("@@ TEST PACKET DATA @@")))
	p.Build()

	assert.Equal(t, uint16(22), p.Header.Length)
	assert.Equal(t, ChecksumPayload([]byte("@@ TEST PACKET DATA @@")), p.Header.CRC)
	assert.True(t, p.Validate())
}

func TestValidateFailsOnLengthMismatch(t *testing.T) {
	p := New(256)
	assert.NoError(t, p.Frame.Append([]byte("hello")))
	p.Build()

	assert.NoError(t, p.Frame.Append([]byte("!")))
	assert.False(t, p.Validate())
}

func TestEncodeDecodeSimplePacket(t *testing.T) {
	p := New(256)
	assert.NoError(t, p.Frame.Append([]byte("@@ TEST PACKET DATA @@")))
	p.Header.PacketID = 0xDEADBEEF
	p.Header.SeqCount = 1
	p.Build()

	coder := NewCoder()
	wire := frame.New(2048)
	assert.NoError(t, coder.Encode(p, wire))

	decoded := New(256)
	assert.NoError(t, coder.Decode(wire, decoded))
	assert.True(t, decoded.Validate())
	assert.Equal(t, p.Header.PacketID, decoded.Header.PacketID)
	assert.Equal(t, []byte("@@ TEST PACKET DATA @@"), decoded.Frame.Bytes())
}

func TestDecodeSurvivesScatteredBitFlips(t *testing.T) {
	p := New(256)
	assert.NoError(t, p.Frame.Append([]byte("@@ TEST PACKET DATA @@")))
	p.Build()

	coder := NewCoder()
	wire := frame.New(2048)
	assert.NoError(t, coder.Encode(p, wire))

	raw := wire.RawSlice()
	for _, bit := range []int{0, 15, 33, 34, 35, 36, 37, 90, 196, 231} {
		raw[bit/8] ^= 1 << uint(bit%8)
	}

	decoded := New(256)
	assert.NoError(t, coder.Decode(wire, decoded))
	assert.True(t, decoded.Validate())
	assert.Equal(t, []byte("@@ TEST PACKET DATA @@"), decoded.Frame.Bytes())
}

func TestDecodeFailsOnHeavilyCorruptedHeader(t *testing.T) {
	p := New(256)
	assert.NoError(t, p.Frame.Append([]byte("payload")))
	p.Build()

	coder := NewCoder()
	wire := frame.New(2048)
	assert.NoError(t, coder.Encode(p, wire))

	raw := wire.RawSlice()
	for i := 0; i < CodewordSize; i++ {
		raw[i] ^= 0xFF
	}

	decoded := New(256)
	err := coder.Decode(wire, decoded)
	assert.ErrorIs(t, err, kaonicerr.ErrDataCorruption)
}

func TestUnpackHeaderRejectsUnknownType(t *testing.T) {
	var data [HeaderSize]byte
	data[0] = 0x00
	_, err := UnpackHeader(data[:])
	assert.ErrorIs(t, err, kaonicerr.ErrIncorrectSettings)
}
