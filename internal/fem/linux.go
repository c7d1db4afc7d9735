//go:build !tinygo

package fem

import (
	"fmt"

	"github.com/kaonic-radio/kaonic/internal/kaonicerr"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// LinuxPin adapts a periph.io gpio.PinIO as an OutputPin.
type LinuxPin struct {
	pin gpio.PinIO
}

// OpenLinuxPin resolves the GPIO consumer line identified by chip device
// path and offset (e.g. "/dev/gpiochip8", 10) and configures it as an
// output, initially low.
func OpenLinuxPin(chip string, offset int) (*LinuxPin, error) {
	name := fmt.Sprintf("%s:%d", chip, offset)
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, kaonicerr.New(kaonicerr.HardwareError, "fem.open_linux_pin")
	}
	if err := pin.Out(gpio.Low); err != nil {
		return nil, kaonicerr.Wrap(kaonicerr.HardwareError, "fem.open_linux_pin.out", err)
	}
	return &LinuxPin{pin: pin}, nil
}

func (p *LinuxPin) SetHigh() error {
	return kaonicerr.Wrap(kaonicerr.HardwareError, "fem.linux_pin.set_high", p.pin.Out(gpio.High))
}

func (p *LinuxPin) SetLow() error {
	return kaonicerr.Wrap(kaonicerr.HardwareError, "fem.linux_pin.set_low", p.pin.Out(gpio.Low))
}

var _ OutputPin = (*LinuxPin)(nil)
