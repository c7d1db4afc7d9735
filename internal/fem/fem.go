// Package fem selects the analog front-end module's filter bank via two
// GPIO output pins, based on the tuned frequency and requested bandwidth
// class.
package fem

import (
	"github.com/kaonic-radio/kaonic/internal/kaonicerr"
)

// BandwidthFilter is the requested filter class.
type BandwidthFilter int

const (
	Narrow BandwidthFilter = iota
	Wide
)

// OutputPin is the two-state GPIO line the Adjuster drives.
type OutputPin interface {
	SetHigh() error
	SetLow() error
}

// Adjuster drives the two filter-bank-select pins (v1, v2) and the
// always-low flt24 pin, per spec.md §4.5's table.
type Adjuster struct {
	V1    OutputPin
	V2    OutputPin
	Flt24 OutputPin
}

// NewAdjuster returns an Adjuster driving the given pins.
func NewAdjuster(v1, v2, flt24 OutputPin) *Adjuster {
	return &Adjuster{V1: v1, V2: v2, Flt24: flt24}
}

// Adjust selects the filter bank for filter at freqMHz, then drives
// flt24 low.
func (a *Adjuster) Adjust(filter BandwidthFilter, freqMHz uint32) error {
	if err := a.setFilter(filter, freqMHz); err != nil {
		return err
	}
	// flt24 is always held low on this platform.
	return kaonicerr.Wrap(kaonicerr.HardwareError, "fem.adjust.flt24", a.Flt24.SetLow())
}

func (a *Adjuster) setFilter(filter BandwidthFilter, freqMHz uint32) error {
	switch filter {
	case Narrow:
		switch {
		case freqMHz >= 902 && freqMHz <= 928:
			return a.setPins(true, false)
		case freqMHz >= 862 && freqMHz <= 876:
			return a.setPins(false, true)
		default:
			// Narrowband unsupported below 862MHz; fall back to wideband.
			return a.setPins(true, false)
		}
	case Wide:
		return a.setPins(true, false)
	default:
		return kaonicerr.New(kaonicerr.IncorrectSettings, "fem.set_filter")
	}
}

func (a *Adjuster) setPins(v1High, v2High bool) error {
	if err := setPin(a.V1, v1High); err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "fem.set_filter.v1", err)
	}
	if err := setPin(a.V2, v2High); err != nil {
		return kaonicerr.Wrap(kaonicerr.HardwareError, "fem.set_filter.v2", err)
	}
	return nil
}

func setPin(p OutputPin, high bool) error {
	if high {
		return p.SetHigh()
	}
	return p.SetLow()
}
