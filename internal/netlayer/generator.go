package netlayer

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/kaonic-radio/kaonic/internal/kaonicerr"
)

// PacketID is the random correlation tag shared by every segment of one
// demultiplexed payload. It is not an address: it never survives past
// reassembly or appears in routing decisions.
type PacketID uint32

// GeneratePacketID draws a cryptographically random packet ID.
func GeneratePacketID() (PacketID, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, kaonicerr.Wrap(kaonicerr.HardwareError, "netlayer.generate_packet_id", err)
	}
	return PacketID(binary.LittleEndian.Uint32(buf[:])), nil
}
