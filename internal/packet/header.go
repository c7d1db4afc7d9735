package packet

import (
	"encoding/binary"

	"github.com/kaonic-radio/kaonic/internal/kaonicerr"
	"github.com/kaonic-radio/kaonic/internal/ldpc"
)

// HeaderSize is the packed, pre-LDPC header size in bytes.
const HeaderSize = 16

// CodewordSize is the on-air size of the LDPC-protected header.
const CodewordSize = ldpc.CodeBytes

// Type identifies the packet's payload interpretation. Only Payload is
// recognized; anything else fails decode.
type Type uint8

const TypePayload Type = 0xBA

// Flags are header bit flags.
type Flags uint8

const (
	FlagEncoded Flags = 1 << iota
	FlagSegmented
)

// Header is the 16-byte on-air packet header, before LDPC encoding.
type Header struct {
	Type     Type
	Flags    Flags
	PacketID uint32
	Seq      uint16
	SeqCount uint16
	Length   uint16
	CRC      uint32
}

// Pack serializes the header into its 16-byte wire layout:
// type(1) flags(1) packet_id(4) seq(2) seq_count(2) length(2,LE) crc(4,LE).
func (h Header) Pack() [HeaderSize]byte {
	var buf [HeaderSize]byte
	buf[0] = byte(h.Type)
	buf[1] = byte(h.Flags)
	binary.LittleEndian.PutUint32(buf[2:6], h.PacketID)
	binary.LittleEndian.PutUint16(buf[6:8], h.Seq)
	binary.LittleEndian.PutUint16(buf[8:10], h.SeqCount)
	binary.LittleEndian.PutUint16(buf[10:12], h.Length)
	binary.LittleEndian.PutUint32(buf[12:16], h.CRC)
	return buf
}

// UnpackHeader parses a 16-byte wire header. Fails with IncorrectSettings
// if the type field is not recognized.
func UnpackHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, kaonicerr.New(kaonicerr.IncorrectSettings, "packet.header.unpack.short")
	}

	t := Type(data[0])
	if t != TypePayload {
		return Header{}, kaonicerr.New(kaonicerr.IncorrectSettings, "packet.header.unpack.type")
	}

	return Header{
		Type:     t,
		Flags:    Flags(data[1]),
		PacketID: binary.LittleEndian.Uint32(data[2:6]),
		Seq:      binary.LittleEndian.Uint16(data[6:8]),
		SeqCount: binary.LittleEndian.Uint16(data[8:10]),
		Length:   binary.LittleEndian.Uint16(data[10:12]),
		CRC:      binary.LittleEndian.Uint32(data[12:16]),
	}, nil
}
