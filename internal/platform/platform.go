// Package platform selects the GPIO/SPI pin mapping for the radio
// modules present on one appliance board revision, identified by an
// optional machine-identifier file.
package platform

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultMachineIDPath is read when no override path is configured.
const DefaultMachineIDPath = "/etc/kaonic/machine-id"

// GpioLine identifies a GPIO line by its Linux gpiochip device and
// offset, for pins addressed that way rather than by periph.io name.
type GpioLine struct {
	Chip   string
	Offset int
}

// ModuleConfig describes the bus and FEM resources for one radio module.
type ModuleConfig struct {
	Name          string
	ResetLine     string // periph.io GPIO line name, e.g. "PD8"
	InterruptLine string
	SpiPath       string
	SpiClockHz    int
	FemV1         GpioLine
	FemV2         GpioLine
	Flt24         GpioLine
}

// Revision identifies a hardware board revision.
type Revision string

const (
	RevA Revision = "stm32mp1-kaonic-protoa"
	RevB Revision = "stm32mp1-kaonic-protob"
	RevC Revision = "stm32mp1-kaonic-protoc"
)

// Table returns the module configuration for rev, falling back to RevA
// for any unrecognized revision.
func Table(rev Revision) []ModuleConfig {
	switch rev {
	case RevB:
		return revBTable
	case RevC:
		return revCTable // identical wiring to RevB on this board family
	default:
		return revATable
	}
}

// ReadRevision reads the machine-identifier file at path (or
// DefaultMachineIDPath if empty) and maps its trimmed content to a
// Revision. Falls back to RevA, logging why, if the file is missing,
// unreadable, or names an unrecognized machine.
func ReadRevision(path string, logger *log.Logger) Revision {
	if path == "" {
		path = DefaultMachineIDPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if logger != nil {
			logger.Warn("machine-identifier file unavailable, using default revision", "path", path, "revision", RevA, "error", err)
		}
		return RevA
	}

	id := strings.TrimSpace(string(data))
	switch Revision(id) {
	case RevA, RevB, RevC:
		return Revision(id)
	default:
		if logger != nil {
			logger.Warn("unknown machine identifier, using default revision", "id", id, "revision", RevA)
		}
		return RevA
	}
}

var revATable = []ModuleConfig{
	{
		Name:          "rfa",
		ResetLine:     "PD8",
		InterruptLine: "PD9",
		SpiPath:       "/dev/spidev6.0",
		SpiClockHz:    5_000_000,
		FemV1:         GpioLine{Chip: "/dev/gpiochip8", Offset: 10},
		FemV2:         GpioLine{Chip: "/dev/gpiochip8", Offset: 11},
		Flt24:         GpioLine{Chip: "/dev/gpiochip8", Offset: 12},
	},
	{
		Name:          "rfb",
		ResetLine:     "PE13",
		InterruptLine: "PE15",
		SpiPath:       "/dev/spidev3.0",
		SpiClockHz:    5_000_000,
		FemV1:         GpioLine{Chip: "/dev/gpiochip8", Offset: 0},
		FemV2:         GpioLine{Chip: "/dev/gpiochip8", Offset: 1},
		Flt24:         GpioLine{Chip: "/dev/gpiochip8", Offset: 2},
	},
}

var revBTable = []ModuleConfig{
	{
		Name:          "rfa",
		ResetLine:     "PD8",
		InterruptLine: "PD9",
		SpiPath:       "/dev/spidev6.0",
		SpiClockHz:    5_000_000,
		FemV1:         GpioLine{Chip: "/dev/gpiochip9", Offset: 10},
		FemV2:         GpioLine{Chip: "/dev/gpiochip9", Offset: 11},
		Flt24:         GpioLine{Chip: "/dev/gpiochip9", Offset: 12},
	},
	{
		Name:          "rfb",
		ResetLine:     "PE13",
		InterruptLine: "PE15",
		SpiPath:       "/dev/spidev3.0",
		SpiClockHz:    5_000_000,
		FemV1:         GpioLine{Chip: "/dev/gpiochip9", Offset: 0},
		FemV2:         GpioLine{Chip: "/dev/gpiochip9", Offset: 1},
		Flt24:         GpioLine{Chip: "/dev/gpiochip9", Offset: 2},
	},
}

// revCTable matches revBTable on this board family.
var revCTable = revBTable
