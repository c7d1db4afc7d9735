// Package bus implements register-level transport to one RF215 chip: SPI
// read/write transactions address-encoded per the datasheet, GPIO interrupt
// wait, GPIO reset pulse, and a monotonic clock source.
package bus

import (
	"sync"
	"time"

	"github.com/kaonic-radio/kaonic/internal/kaonicerr"
)

// opWrite and opRead are the MSB-set/clear bits of the 16-bit address word
// that select a write or read SPI transaction.
const (
	opWrite uint16 = 0x8000
	opRead  uint16 = 0x0000
)

// ResetPulse is how long RST is held active during hardware_reset.
const ResetPulse = 25 * time.Millisecond

// Bus is type-erased register I/O to one RF215 chip, shared by both
// transceivers. Implementations must encode addr as a 16-bit big-endian
// word with the write bit set/clear, followed by the data bytes.
type Bus interface {
	// WriteRegs writes values starting at addr.
	WriteRegs(addr uint16, values []byte) error
	// ReadRegs reads len(values) bytes starting at addr into values.
	ReadRegs(addr uint16, values []byte) error

	// WriteRegU8 writes a single register byte.
	WriteRegU8(addr uint16, value byte) error
	// WriteRegU16 writes a little-endian 16-bit register value.
	WriteRegU16(addr uint16, value uint16) error
	// ReadRegU8 reads a single register byte.
	ReadRegU8(addr uint16) (byte, error)
	// ReadRegU16 reads a little-endian 16-bit register value.
	ReadRegU16(addr uint16) (uint16, error)

	// WaitInterrupt blocks up to timeout for the interrupt line to edge;
	// it returns true iff the edge fired before the deadline.
	WaitInterrupt(timeout time.Duration) bool
	// Delay blocks the calling goroutine for duration.
	Delay(duration time.Duration)
	// CurrentTimeMs returns a monotonic millisecond timestamp.
	CurrentTimeMs() uint64
	// HardwareReset drives RST active for ResetPulse then releases it.
	HardwareReset() error
}

// Transport is the raw SPI half of a Bus implementation: one Tx per
// register transaction, with the address-word encoding applied by the
// caller (writeRegsRaw/readRegsRaw below).
type Transport interface {
	// Tx writes w and reads len(r) bytes in one SPI transaction.
	Tx(w, r []byte) error
}

// encodeAddr returns the 16-bit big-endian address word for op (write or
// read) at addr.
func encodeAddr(addr uint16, op uint16) [2]byte {
	word := addr | op
	return [2]byte{byte(word >> 8), byte(word)}
}

// writeRegsRaw performs one SPI write transaction: address word followed
// by values, over transport t.
func writeRegsRaw(t Transport, addr uint16, values []byte) error {
	hdr := encodeAddr(addr, opWrite)
	w := make([]byte, 2+len(values))
	copy(w, hdr[:])
	copy(w[2:], values)
	if err := t.Tx(w, make([]byte, len(w))); err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "bus.write_regs", err)
	}
	return nil
}

// readRegsRaw performs one SPI read transaction: address word write,
// followed by reading len(values) bytes into values.
func readRegsRaw(t Transport, addr uint16, values []byte) error {
	hdr := encodeAddr(addr, opRead)
	w := make([]byte, 2+len(values))
	copy(w, hdr[:])
	r := make([]byte, len(w))
	if err := t.Tx(w, r); err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "bus.read_regs", err)
	}
	copy(values, r[2:])
	return nil
}

// SharedBus wraps a Bus in a mutual-exclusion lock so both transceivers of
// one chip serialize register traffic; no compound operation (e.g. the
// four-register frequency write) may interleave with another caller's.
type SharedBus struct {
	mu   sync.Mutex
	bus  Bus
}

// NewSharedBus wraps bus in a lock.
func NewSharedBus(bus Bus) *SharedBus {
	return &SharedBus{bus: bus}
}

func (s *SharedBus) WriteRegs(addr uint16, values []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bus.WriteRegs(addr, values)
}

func (s *SharedBus) ReadRegs(addr uint16, values []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bus.ReadRegs(addr, values)
}

func (s *SharedBus) WriteRegU8(addr uint16, value byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bus.WriteRegU8(addr, value)
}

func (s *SharedBus) WriteRegU16(addr uint16, value uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bus.WriteRegU16(addr, value)
}

func (s *SharedBus) ReadRegU8(addr uint16) (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bus.ReadRegU8(addr)
}

func (s *SharedBus) ReadRegU16(addr uint16) (uint16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bus.ReadRegU16(addr)
}

func (s *SharedBus) WaitInterrupt(timeout time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bus.WaitInterrupt(timeout)
}

func (s *SharedBus) Delay(duration time.Duration) {
	// Delay does not touch shared hardware state; no lock needed, and
	// holding it here would block the other transceiver for no reason.
	s.bus.Delay(duration)
}

func (s *SharedBus) CurrentTimeMs() uint64 {
	return s.bus.CurrentTimeMs()
}

func (s *SharedBus) HardwareReset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bus.HardwareReset()
}

// WriteRegsTo is a package-level helper used by Bus implementations built
// directly on a Transport (see linux.go), wiring the shared address
// encoding into WriteRegs.
func WriteRegsTo(t Transport, addr uint16, values []byte) error { return writeRegsRaw(t, addr, values) }

// ReadRegsTo mirrors WriteRegsTo for reads.
func ReadRegsTo(t Transport, addr uint16, values []byte) error { return readRegsRaw(t, addr, values) }
