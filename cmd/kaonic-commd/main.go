// Command kaonic-commd opens the radio modules for the running board
// revision, starts the packet network layer and QoS manager on top of
// them, and serves until a shutdown signal arrives.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/kaonic-radio/kaonic/internal/config"
	"github.com/kaonic-radio/kaonic/internal/controller"
	"github.com/kaonic-radio/kaonic/internal/platform"
	"github.com/kaonic-radio/kaonic/internal/qos"
	"github.com/kaonic-radio/kaonic/internal/worker"
)

func main() {
	var (
		configPath   = pflag.StringP("config", "c", "/etc/kaonic/kaonic-commd.yaml", "Path to the daemon's YAML config file.")
		logLevel     = pflag.StringP("log-level", "l", "info", "Log level: debug, info, warn, error.")
		listen       = pflag.StringP("listen", "L", "", "Reserved for a future status/control transport; currently only logged.")
		machineIDArg = pflag.String("machine-id-path", "", "Override the board machine-identifier file path.")
		help         = pflag.BoolP("help", "h", false, "Display help text.")
	)
	pflag.Parse()

	if *help {
		pflag.Usage()
		return
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if lvl, err := log.ParseLevel(*logLevel); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.Warn("unrecognized log level, defaulting to info", "level", *logLevel)
	}

	runID := uuid.New().String()
	logger = logger.With("run_id", runID)

	if err := run(*configPath, *machineIDArg, *listen, logger); err != nil {
		logger.Error("kaonic-commd exited with error", "error", err)
		os.Exit(1)
	}
}

func run(configPath, machineIDOverride, listen string, logger *log.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	machineIDPath := cfg.MachineIDPath
	if machineIDOverride != "" {
		machineIDPath = machineIDOverride
	}

	rev := platform.ReadRevision(machineIDPath, logger)
	logger.Info("selected board revision", "revision", rev)

	table := cfg.ApplyModuleOverrides(platform.Table(rev))
	modules, err := platform.OpenModulesFromTable(table)
	if err != nil {
		return fmt.Errorf("open modules: %w", err)
	}
	defer func() {
		for _, m := range modules {
			m.Bus.Close()
		}
	}()

	radios := make([]worker.Radio, len(modules))
	for i, m := range modules {
		radios[i] = m.Chip
		logger.Info("opened radio module", "module", i, "name", m.Name)
	}

	qosManager := qos.NewManager(logger).WithCCAThreshold(cfg.QoS.CCAThresholdDBm)
	_ = qosManager // nothing in this daemon feeds it EDV samples

	if listen != "" {
		logger.Info("status/control listener requested but not implemented; ignoring", "listen", listen)
	}

	ctrl := controller.New(controller.Config{
		Radios:  radios,
		Network: cfg.NetlayerConfig(),
		Logger:  logger,
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received shutdown signal", "signal", sig)

	if err := ctrl.Shutdown(); err != nil {
		logger.Warn("controller shutdown reported errors", "error", err)
	}
	return nil
}
