//go:build !tinygo

package platform

import (
	"github.com/kaonic-radio/kaonic/internal/bus"
	"github.com/kaonic-radio/kaonic/internal/fem"
	"github.com/kaonic-radio/kaonic/internal/kaonicerr"
	"github.com/kaonic-radio/kaonic/internal/rf215"
)

// Module bundles the hardware resources wired up for one radio module:
// its RF215 chip over SPI/GPIO, and the FEM filter-bank adjuster that
// shares its board revision's wiring.
type Module struct {
	Name string
	Chip *rf215.Chip
	Fem  *fem.Adjuster
	Bus  *bus.LinuxBus
}

// OpenModules opens the SPI bus, GPIO lines, and RF215 chip for every
// module in rev's table, in table order. On any failure it closes the
// buses it already opened before returning the error.
func OpenModules(rev Revision) ([]Module, error) {
	return OpenModulesFromTable(Table(rev))
}

// OpenModulesFromTable is OpenModules against an explicit table, letting
// a caller apply config overrides (e.g. internal/config's
// ApplyModuleOverrides) to the board's default wiring before opening
// anything.
func OpenModulesFromTable(table []ModuleConfig) ([]Module, error) {
	modules := make([]Module, 0, len(table))

	for _, cfg := range table {
		m, err := openModule(cfg)
		if err != nil {
			for _, opened := range modules {
				opened.Bus.Close()
			}
			return nil, err
		}
		modules = append(modules, m)
	}

	return modules, nil
}

func openModule(cfg ModuleConfig) (Module, error) {
	linuxBus, err := bus.NewLinuxBus(bus.LinuxConfig{
		SpiBusPath:   cfg.SpiPath,
		SpiClockHz:   cfg.SpiClockHz,
		ResetPin:     cfg.ResetLine,
		InterruptPin: cfg.InterruptLine,
	})
	if err != nil {
		return Module{}, kaonicerr.Wrap(kaonicerr.HardwareError, "platform.open_module.bus", err)
	}

	chip, err := rf215.Probe(linuxBus, cfg.Name)
	if err != nil {
		linuxBus.Close()
		return Module{}, err
	}

	v1, err := fem.OpenLinuxPin(cfg.FemV1.Chip, cfg.FemV1.Offset)
	if err != nil {
		linuxBus.Close()
		return Module{}, err
	}
	v2, err := fem.OpenLinuxPin(cfg.FemV2.Chip, cfg.FemV2.Offset)
	if err != nil {
		linuxBus.Close()
		return Module{}, err
	}
	flt24, err := fem.OpenLinuxPin(cfg.Flt24.Chip, cfg.Flt24.Offset)
	if err != nil {
		linuxBus.Close()
		return Module{}, err
	}

	return Module{
		Name: cfg.Name,
		Chip: chip,
		Fem:  fem.NewAdjuster(v1, v2, flt24),
		Bus:  linuxBus,
	}, nil
}
