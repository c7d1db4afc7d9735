package packet

import (
	"hash/crc32"

	"github.com/kaonic-radio/kaonic/internal/frame"
)

// Packet pairs a header with the payload frame it describes.
type Packet struct {
	Header Header
	Frame  *frame.Frame
}

// New returns a Packet backed by a frame of the given capacity.
func New(capacity int) *Packet {
	return &Packet{Header: Header{Type: TypePayload}, Frame: frame.New(capacity)}
}

// Reset clears the header and payload back to empty.
func (p *Packet) Reset() {
	p.Header = Header{Type: TypePayload}
	p.Frame.Clear()
}

// Build recomputes Header.Length and Header.CRC from the current payload.
// Type and Flags are left as already set by the caller.
func (p *Packet) Build() {
	p.Header.Length = uint16(p.Frame.Len())
	p.Header.CRC = ChecksumPayload(p.Frame.Bytes())
}

// Validate reports whether the payload's length and CRC match the header.
func (p *Packet) Validate() bool {
	if int(p.Header.Length) != p.Frame.Len() {
		return false
	}
	return ChecksumPayload(p.Frame.Bytes()) == p.Header.CRC
}

// ChecksumPayload computes the CRC32-ISO-HDLC checksum used for packet
// payload integrity. The stdlib IEEE polynomial is the ISO-HDLC polynomial.
func ChecksumPayload(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}
