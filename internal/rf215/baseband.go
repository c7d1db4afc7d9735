package rf215

import (
	"github.com/kaonic-radio/kaonic/internal/bus"
	"github.com/kaonic-radio/kaonic/internal/frame"
	"github.com/kaonic-radio/kaonic/internal/kaonicerr"
)

// bbenBit is bit 2 of BBCn_PC, the baseband-enable bit.
const bbenBit uint8 = 0b0000_0100

// Baseband drives one band's BBCn_ register block: frame FIFO load/unload,
// length registers, and the baseband-enable bit. FCS filtering is
// disabled throughout this stack — packet integrity is the payload's own
// CRC32, not the chip's frame-check-sequence engine.
type Baseband struct {
	band Band
	bus  bus.Bus
}

// NewBaseband returns a Baseband bound to band over bus.
func NewBaseband(band Band, b bus.Bus) *Baseband {
	return &Baseband{band: band, bus: b}
}

func (bb *Baseband) abs(offset uint16) uint16 { return bb.band.BasebandAddress + offset }

// LoadRx reads RXFLL (the length the chip just wrote for the received
// frame) then unloads the RX FIFO into f, bound-checked against
// FrameSize.
func (bb *Baseband) LoadRx(f *frame.Frame) error {
	length, err := bb.bus.ReadRegU16(bb.abs(regBBCxRXFLL))
	if err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "baseband.load_rx.length", err)
	}
	if int(length) > FrameSize {
		return kaonicerr.New(kaonicerr.InvalidState, "baseband.load_rx")
	}
	if err := bb.bus.ReadRegs(bb.band.FifoRxAddress, f.RawSlice()[:length]); err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "baseband.load_rx.fifo", err)
	}
	return f.Resize(int(length))
}

// LoadTx writes f's contents to the TX FIFO.
func (bb *Baseband) LoadTx(f *frame.Frame) error {
	return bb.LoadTxData(f.Bytes())
}

// LoadTxData writes TXFLL=len(data) then the data bytes to the TX FIFO.
func (bb *Baseband) LoadTxData(data []byte) error {
	if len(data) > FrameSize {
		return kaonicerr.New(kaonicerr.InvalidState, "baseband.load_tx")
	}
	if err := bb.bus.WriteRegU16(bb.abs(regBBCxTXFLL), uint16(len(data))); err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "baseband.load_tx.length", err)
	}
	if err := bb.bus.WriteRegs(bb.band.FifoTxAddress, data); err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "baseband.load_tx.fifo", err)
	}
	return nil
}

// SetEnabled toggles BBEN (bit 2 of BBCn_PC).
func (bb *Baseband) SetEnabled(enabled bool) error {
	value, err := bb.bus.ReadRegU8(bb.abs(regBBCxPC))
	if err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "baseband.set_enabled.read", err)
	}
	if enabled {
		value |= bbenBit
	} else {
		value &^= bbenBit
	}
	return kaonicerr.Wrap(kaonicerr.HardwareError, "baseband.set_enabled.write",
		bb.bus.WriteRegU8(bb.abs(regBBCxPC), value))
}
