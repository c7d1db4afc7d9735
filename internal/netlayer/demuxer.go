package netlayer

import (
	"github.com/kaonic-radio/kaonic/internal/kaonicerr"
	"github.com/kaonic-radio/kaonic/internal/packet"
)

// Demuxer splits an arbitrary byte payload into fixed-size segments
// tagged with a shared packet ID and seq/seq_count, one packet per
// segment.
type Demuxer struct {
	maxSegmentPayload int
	maxSegments       int
}

// NewDemuxer returns a Demuxer that splits payloads into segments of at
// most maxSegmentPayload bytes, never producing more than maxSegments
// packets.
func NewDemuxer(maxSegmentPayload, maxSegments int) *Demuxer {
	return &Demuxer{maxSegmentPayload: maxSegmentPayload, maxSegments: maxSegments}
}

// MaxPayloadSize is the largest payload this Demuxer can fragment.
func (d *Demuxer) MaxPayloadSize() int { return d.maxSegmentPayload * d.maxSegments }

// MaxSegmentPayloadSize is the largest chunk carried by one segment.
func (d *Demuxer) MaxSegmentPayloadSize() int { return d.maxSegmentPayload }

// Demultiplex fragments payload into packets (reusing the storage in
// packets, which must have length >= maxSegments) and returns the
// prefix actually populated.
func (d *Demuxer) Demultiplex(id PacketID, payload []byte, packets []*packet.Packet) ([]*packet.Packet, error) {
	totalLen := len(payload)
	if totalLen > d.MaxPayloadSize() {
		return nil, kaonicerr.New(kaonicerr.OutOfMemory, "netlayer.demultiplex.payload_too_big")
	}
	if d.maxSegmentPayload > 0xFFFF {
		return nil, kaonicerr.New(kaonicerr.OutOfMemory, "netlayer.demultiplex.segment_too_big")
	}

	seqCount := divRoundUp(totalLen, d.maxSegmentPayload)
	if seqCount > len(packets) {
		return nil, kaonicerr.New(kaonicerr.OutOfMemory, "netlayer.demultiplex.too_many_segments")
	}

	seq := 0
	offset := 0
	for offset < totalLen {
		chunkLen := d.maxSegmentPayload
		if offset+chunkLen > totalLen {
			chunkLen = totalLen - offset
		}
		chunk := payload[offset : offset+chunkLen]
		offset += chunkLen

		p := packets[seq]
		p.Reset()
		p.Header.Flags = packet.FlagEncoded | packet.FlagSegmented
		p.Header.PacketID = uint32(id)
		p.Header.Seq = uint16(seq)
		p.Header.SeqCount = uint16(seqCount)

		if err := p.Frame.Append(chunk); err != nil {
			return nil, err
		}
		p.Build()

		seq++
	}

	return packets[:seq], nil
}

func divRoundUp(n, d int) int {
	if d <= 0 {
		return 0
	}
	q := n / d
	if n%d != 0 {
		q++
	}
	return q
}
