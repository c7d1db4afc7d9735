package netlayer

import (
	"testing"
	"time"

	"github.com/kaonic-radio/kaonic/internal/frame"
	"github.com/kaonic-radio/kaonic/internal/kaonicerr"
	"github.com/kaonic-radio/kaonic/internal/packet"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// TestNetworkRoundTripsArbitraryPayloadProperty is invariant 1: demuxing
// any payload up to the network's capacity, muxing the result, and
// processing it yields exactly the original bytes.
func TestNetworkRoundTripsArbitraryPayloadProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		net := NewNetwork(Config{
			SegmentCap:        testFrameSize,
			MaxSegments:       testMaxSegments,
			MaxSegmentPayload: testSegmentPayload,
			QueueDepth:        6,
			StaleTimeout:      500 * time.Millisecond,
		})

		maxPayload := testMaxSegments * testSegmentPayload
		payload := rapid.SliceOfN(rapid.Byte(), 0, maxPayload).Draw(rt, "payload")

		outputFrames := make([]*frame.Frame, testMaxSegments)
		for i := range outputFrames {
			outputFrames[i] = frame.New(testFrameSize)
		}

		var transmitted []*frame.Frame
		err := net.Transmit(payload, outputFrames, func(frames []*frame.Frame) error {
			for _, f := range frames {
				cp := frame.New(testFrameSize)
				_ = cp.Append(f.Bytes())
				transmitted = append(transmitted, cp)
			}
			return nil
		})
		assert.NoError(rt, err)

		for _, f := range transmitted {
			assert.NoError(rt, net.Receive(1, f))
		}

		var received []byte
		net.Process(1, func(b []byte) {
			received = append(received, b...)
		})

		assert.Equal(rt, payload, received)
	})
}

// TestDemultiplexSeqRangeProperty is invariant 3: seq covers [0, seq_count)
// exactly once, every packet shares one packet_id, and the segment
// lengths sum back to the original payload length.
func TestDemultiplexSeqRangeProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := NewDemuxer(testSegmentPayload, testMaxSegments)
		id := PacketID(rapid.Uint32().Draw(rt, "id"))
		payload := rapid.SliceOfN(rapid.Byte(), 0, testSegmentPayload*testMaxSegments).Draw(rt, "payload")

		packets := make([]*packet.Packet, testMaxSegments)
		for i := range packets {
			packets[i] = packet.New(testSegmentPayload)
		}

		segs, err := d.Demultiplex(id, payload, packets)
		assert.NoError(rt, err)

		seen := make(map[uint16]bool, len(segs))
		total := 0
		for _, p := range segs {
			assert.Equal(rt, uint32(id), p.Header.PacketID)
			assert.Less(rt, p.Header.Seq, p.Header.SeqCount)
			assert.False(rt, seen[p.Header.Seq], "duplicate seq")
			seen[p.Header.Seq] = true
			total += p.Frame.Len()
		}
		if len(payload) == 0 {
			assert.Empty(rt, segs)
		} else {
			assert.Equal(rt, int(segs[0].Header.SeqCount), len(segs))
		}
		assert.Equal(rt, len(payload), total)
	})
}

// TestAccumulatorNeverAdmitsDuplicateSeqProperty is invariant 4: an
// accumulator never admits two packets sharing a seq, however many times
// one is re-pushed.
func TestAccumulatorNeverAdmitsDuplicateSeqProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seqCount := rapid.IntRange(1, testMaxSegments).Draw(rt, "seqCount")
		acc := newAccumulator(testMaxSegments, testSegmentPayload)
		id := rapid.Uint32().Draw(rt, "id")

		repeats := rapid.IntRange(2, 5).Draw(rt, "repeats")
		seq := rapid.IntRange(0, seqCount-1).Draw(rt, "seq")

		p := packet.New(testSegmentPayload)
		p.Header.Flags = packet.FlagSegmented
		p.Header.PacketID = id
		p.Header.Seq = uint16(seq)
		p.Header.SeqCount = uint16(seqCount)
		assert.NoError(rt, p.Frame.Append([]byte("x")))
		p.Build()

		admitted := 0
		for i := 0; i < repeats; i++ {
			if acc.push(int64(i), p) {
				admitted++
			}
		}

		assert.Equal(rt, 1, admitted)
		assert.Equal(rt, 1, acc.count)
	})
}

// TestMuxerMultiplexRequiresSegmentedFlag exercises the error path
// Multiplex takes for an unsegmented packet.
func TestMuxerMultiplexRequiresSegmentedFlag(t *testing.T) {
	m := NewMuxer(testSegmentPayload, testMaxSegments, 2, time.Second)
	p := packet.New(testSegmentPayload)
	p.Header.SeqCount = 1
	assert.NoError(t, p.Frame.Append([]byte("x")))
	p.Build()

	err := m.Multiplex(1, p)
	assert.ErrorIs(t, err, kaonicerr.ErrNotSupported)
}
