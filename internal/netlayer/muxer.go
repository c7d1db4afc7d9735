package netlayer

import (
	"time"

	"github.com/kaonic-radio/kaonic/internal/frame"
	"github.com/kaonic-radio/kaonic/internal/kaonicerr"
	"github.com/kaonic-radio/kaonic/internal/packet"
)

// accumulator collects the segments of one in-flight packet ID until all
// seq_count segments have arrived or it goes stale.
type accumulator struct {
	packets      []*packet.Packet // len == maxSegments, reused across packet IDs
	count        int
	lastUpdateMs int64
}

func newAccumulator(maxSegments, segmentCap int) *accumulator {
	packets := make([]*packet.Packet, maxSegments)
	for i := range packets {
		packets[i] = packet.New(segmentCap)
	}
	return &accumulator{packets: packets}
}

func (a *accumulator) packetID() PacketID {
	if a.count == 0 {
		return 0
	}
	return PacketID(a.packets[0].Header.PacketID)
}

func (a *accumulator) isEmpty() bool { return a.count == 0 }

// push admits newPacket if it belongs to this accumulator's collection
// (or the accumulator is empty), its seq_count fits, and no packet with
// the same seq has already been admitted. It reports whether the packet
// was admitted.
func (a *accumulator) push(nowMs int64, newPacket *packet.Packet) bool {
	if a.count >= len(a.packets) {
		return false
	}
	if int(newPacket.Header.SeqCount) > len(a.packets) {
		return false
	}

	for i := 0; i < a.count; i++ {
		existing := a.packets[i].Header
		if existing.PacketID != newPacket.Header.PacketID {
			return false
		}
		if existing.Seq == newPacket.Header.Seq {
			return false
		}
	}

	dst := a.packets[a.count]
	dst.Header = newPacket.Header
	if err := dst.Frame.CopyFrom(newPacket.Frame.Bytes()); err != nil {
		return false
	}
	a.count++
	a.lastUpdateMs = nowMs
	return true
}

func (a *accumulator) release() {
	a.count = 0
	a.lastUpdateMs = 0
}

// timeoutReached reports whether this accumulator has been idle longer
// than timeout. The original implementation compared current_time against
// current_time+timeout, which can never be true; this compares against
// the accumulator's own last-update time instead.
func (a *accumulator) timeoutReached(nowMs int64, timeout time.Duration) bool {
	if a.isEmpty() {
		return false
	}
	deadline := a.lastUpdateMs + timeout.Milliseconds()
	return nowMs > deadline
}

// assemble concatenates the accumulated segments into out, in seq order.
// It requires every seq in [0, seq_count) to be present.
func (a *accumulator) assemble(out *frame.Segment) error {
	if a.count == 0 {
		return kaonicerr.New(kaonicerr.TryAgain, "netlayer.muxer.assemble.empty")
	}

	seqCount := int(a.packets[0].Header.SeqCount)
	if a.count < seqCount {
		return kaonicerr.New(kaonicerr.TryAgain, "netlayer.muxer.assemble.incomplete")
	}

	out.Clear()
	for seq := 0; seq < seqCount; seq++ {
		found := false
		for i := 0; i < a.count; i++ {
			if int(a.packets[i].Header.Seq) == seq {
				if err := out.Append(a.packets[i].Frame.Bytes()); err != nil {
					return err
				}
				found = true
				break
			}
		}
		if !found {
			return kaonicerr.New(kaonicerr.InvalidState, "netlayer.muxer.assemble.seq_hole")
		}
	}
	return nil
}

// Muxer is a bounded ring of Q partial-packet accumulators.
type Muxer struct {
	queue   []*accumulator
	timeout time.Duration
}

// NewMuxer returns a Muxer holding up to queueDepth concurrent in-flight
// packet IDs, each reassembling up to maxSegments segments of segmentCap
// bytes, dropping accumulators idle longer than timeout.
func NewMuxer(segmentCap, maxSegments, queueDepth int, timeout time.Duration) *Muxer {
	queue := make([]*accumulator, queueDepth)
	for i := range queue {
		queue[i] = newAccumulator(maxSegments, segmentCap)
	}
	return &Muxer{queue: queue, timeout: timeout}
}

// Multiplex admits packet into whichever accumulator already holds its
// packet ID, or the first empty one. It requires the Segmented flag.
func (m *Muxer) Multiplex(nowMs int64, p *packet.Packet) error {
	if p.Header.Flags&packet.FlagSegmented == 0 {
		return kaonicerr.New(kaonicerr.NotSupported, "netlayer.muxer.multiplex.unsegmented")
	}

	for _, acc := range m.queue {
		if !acc.isEmpty() && acc.packetID() == PacketID(p.Header.PacketID) {
			if acc.push(nowMs, p) {
				return nil
			}
		}
	}

	for _, acc := range m.queue {
		if acc.isEmpty() {
			if acc.push(nowMs, p) {
				return nil
			}
		}
	}

	return kaonicerr.New(kaonicerr.TryAgain, "netlayer.muxer.multiplex.no_slot")
}

// Process assembles and releases the first complete accumulator, if any,
// then releases every accumulator that has gone stale.
func (m *Muxer) Process(nowMs int64, out *frame.Segment) (*frame.Segment, error) {
	var result error = kaonicerr.New(kaonicerr.TryAgain, "netlayer.muxer.process.none_ready")
	var assembled *frame.Segment

	for _, acc := range m.queue {
		if err := acc.assemble(out); err == nil {
			acc.release()
			assembled = out
			result = nil
			break
		}
	}

	for _, acc := range m.queue {
		if acc.timeoutReached(nowMs, m.timeout) {
			acc.release()
		}
	}

	return assembled, result
}
