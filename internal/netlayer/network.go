// Package netlayer implements the packet network layer: fragmentation of
// arbitrary payloads into LDPC-protected segments, tagging by random
// packet ID, and reassembly through a bounded ring of accumulators
// subject to a staleness timeout.
package netlayer

import (
	"time"

	"github.com/kaonic-radio/kaonic/internal/frame"
	"github.com/kaonic-radio/kaonic/internal/kaonicerr"
	"github.com/kaonic-radio/kaonic/internal/packet"
)

// Config sizes a Network's demuxer/muxer capacity.
type Config struct {
	// SegmentCap is the hardware frame size (S).
	SegmentCap int
	// MaxSegments is the largest number of segments one payload may
	// fragment into (R).
	MaxSegments int
	// MaxSegmentPayload is the largest payload chunk one segment may
	// carry (P), i.e. SegmentCap minus header-codeword overhead.
	MaxSegmentPayload int
	// QueueDepth is the number of concurrent in-flight packet IDs the
	// muxer tracks (Q).
	QueueDepth int
	// StaleTimeout drops an accumulator that hasn't progressed this long.
	StaleTimeout time.Duration
}

// Network glues the packet codec, demuxer and muxer: RX frames are
// decoded then multiplexed into an accumulator; completed accumulators
// are handed to a receive callback; TX payloads are demultiplexed into
// segments, each LDPC-encoded, then handed to a transmit callback.
type Network struct {
	demuxer *Demuxer
	muxer   *Muxer
	coder   *packet.Coder

	packets       []*packet.Packet // scratch, reused across calls
	decodeScratch *packet.Packet
	inputFrame    *frame.Segment
}

// NewNetwork builds a Network sized per cfg.
func NewNetwork(cfg Config) *Network {
	packets := make([]*packet.Packet, cfg.MaxSegments)
	for i := range packets {
		packets[i] = packet.New(cfg.MaxSegmentPayload)
	}

	return &Network{
		demuxer:       NewDemuxer(cfg.MaxSegmentPayload, cfg.MaxSegments),
		muxer:         NewMuxer(cfg.MaxSegmentPayload, cfg.MaxSegments, cfg.QueueDepth, cfg.StaleTimeout),
		coder:         packet.NewCoder(),
		packets:       packets,
		decodeScratch: packet.New(cfg.MaxSegmentPayload),
		inputFrame:    frame.NewSegment(cfg.SegmentCap, cfg.MaxSegments),
	}
}

// Receive decodes a raw on-air frame and multiplexes it into an
// accumulator. Decode or multiplex failures (corrupt frame, unsegmented
// packet, no free accumulator slot) are swallowed: malformed or
// transient-full input is dropped silently, matching the best-effort
// contract of this layer.
func (n *Network) Receive(nowMs int64, f *frame.Frame) error {
	if err := n.coder.Decode(f, n.decodeScratch); err != nil {
		return nil
	}
	_ = n.muxer.Multiplex(nowMs, n.decodeScratch)
	return nil
}

// Process hands the next fully-assembled payload, if any, to receiveFunc.
func (n *Network) Process(nowMs int64, receiveFunc func([]byte)) {
	if assembled, err := n.muxer.Process(nowMs, n.inputFrame); err == nil {
		receiveFunc(assembled.Bytes())
	}
}

// Transmit fragments data under a fresh random packet ID, LDPC-encodes
// each segment into outputFrames, and hands the populated prefix to
// transmitFunc.
func (n *Network) Transmit(data []byte, outputFrames []*frame.Frame, transmitFunc func([]*frame.Frame) error) error {
	id, err := GeneratePacketID()
	if err != nil {
		return err
	}

	segments, err := n.demuxer.Demultiplex(id, data, n.packets)
	if err != nil {
		return err
	}

	if len(outputFrames) < len(segments) {
		return kaonicerr.New(kaonicerr.OutOfMemory, "netlayer.network.transmit.too_few_output_frames")
	}

	for i, seg := range segments {
		if err := n.coder.Encode(seg, outputFrames[i]); err != nil {
			return err
		}
	}

	return transmitFunc(outputFrames[:len(segments)])
}
