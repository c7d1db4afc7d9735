// Package kaonicerr defines the single error taxonomy propagated across the
// radio-to-network datapath: hardware access, configuration validation,
// frame/segment capacity, codec and muxer logic.
package kaonicerr

import "fmt"

// Kind identifies which of the datapath's eight error categories an error
// belongs to. Callers branch on Kind with errors.Is against the sentinel
// values below, not by inspecting error strings.
type Kind int

const (
	// HardwareError is any SPI/GPIO/IRQ fault. Never retried at this layer.
	HardwareError Kind = iota
	// IncorrectSettings is an invalid frequency/channel/modulation/config.
	IncorrectSettings
	// Timeout is an expected radio receive timeout; callers loop.
	Timeout
	// OutOfMemory is a frame/segment append past capacity.
	OutOfMemory
	// NotSupported is an unsegmented packet or unsupported modulation variant.
	NotSupported
	// DataCorruption is an LDPC decode that failed to converge, or a CRC
	// mismatch. The offending frame is dropped silently by callers.
	DataCorruption
	// TryAgain means the muxer has nothing ready to assemble yet.
	TryAgain
	// InvalidState is a logic-level invariant violation (e.g. a muxer
	// accumulator missing a seq). The offending accumulator is dropped.
	InvalidState
)

func (k Kind) String() string {
	switch k {
	case HardwareError:
		return "HardwareError"
	case IncorrectSettings:
		return "IncorrectSettings"
	case Timeout:
		return "Timeout"
	case OutOfMemory:
		return "OutOfMemory"
	case NotSupported:
		return "NotSupported"
	case DataCorruption:
		return "DataCorruption"
	case TryAgain:
		return "TryAgain"
	case InvalidState:
		return "InvalidState"
	default:
		return "Unknown"
	}
}

// RPCName returns the external-facing status name a future RPC transport
// should map this Kind to, per spec §7's propagation rule. The datapath
// itself never imports an RPC library; this is just a documented mapping.
func (k Kind) RPCName() string {
	switch k {
	case HardwareError:
		return "Internal"
	case IncorrectSettings:
		return "InvalidArgument"
	case OutOfMemory:
		return "ResourceExhausted"
	case NotSupported:
		return "Unimplemented"
	default:
		return "Internal"
	}
}

// Error is a Kind-tagged error that wraps an optional underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Op != "" {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is supports errors.Is(err, kaonicerr.ErrTimeout) style comparisons against
// the bare Kind sentinels declared in sentinels.go.
func (e *Error) Is(target error) bool {
	s, ok := target.(sentinel)
	if !ok {
		return false
	}
	return e.Kind == s.kind
}

// New builds a bare Error of the given kind with an operation label and no
// wrapped cause, e.g. for validation failures with no underlying error.
func New(kind Kind, op string) error {
	return &Error{Kind: kind, Op: op}
}

// Wrap tags err with kind, preserving it as the Unwrap() cause.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}
