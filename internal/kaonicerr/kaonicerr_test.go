package kaonicerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesKindAndCause(t *testing.T) {
	cause := errors.New("spi transaction failed")
	err := Wrap(HardwareError, "bus.write_regs", cause)

	assert.True(t, errors.Is(err, ErrHardwareError))
	assert.False(t, errors.Is(err, ErrTimeout))
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestNewHasNoCause(t *testing.T) {
	err := New(IncorrectSettings, "radio.set_frequency")
	assert.True(t, errors.Is(err, ErrIncorrectSettings))
	assert.Nil(t, errors.Unwrap(err))
}

func TestWrapNilIsNil(t *testing.T) {
	assert.Nil(t, Wrap(Timeout, "op", nil))
}

func TestRPCNameMapping(t *testing.T) {
	assert.Equal(t, "Internal", HardwareError.RPCName())
	assert.Equal(t, "InvalidArgument", IncorrectSettings.RPCName())
	assert.Equal(t, "ResourceExhausted", OutOfMemory.RPCName())
	assert.Equal(t, "Unimplemented", NotSupported.RPCName())
}

func TestSentinelReturnedDirectly(t *testing.T) {
	var err error = ErrTryAgain
	assert.True(t, errors.Is(err, ErrTryAgain))
}
