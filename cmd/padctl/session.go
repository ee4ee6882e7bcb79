package main

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/padctl/internal/adapters/driven/config/file"
	"github.com/custodia-labs/padctl/internal/adapters/driven/controller"
	"github.com/custodia-labs/padctl/internal/adapters/driven/transport"
	"github.com/custodia-labs/padctl/internal/adapters/driving/cli"
	"github.com/custodia-labs/padctl/internal/core/domain"
	"github.com/custodia-labs/padctl/internal/core/ports/driven"
	"github.com/custodia-labs/padctl/internal/logger"
)

// openConfigStore opens the TOML configuration store in dir.
func openConfigStore(dir string) (driven.ConfigStore, error) {
	store, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	return store, nil
}

// openSession builds the driven side of a session from the config file.
func openSession(opts cli.SessionOptions) (*cli.Session, error) {
	store, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	cfg, err := store.Session()
	if err != nil {
		return nil, err
	}

	output := cfg.TransportOutput
	if opts.StdoutReserved && strings.EqualFold(strings.TrimSpace(output), transport.OutputStdout) {
		logger.Info("transport: stdout is in use, writing reports to stderr")
		output = transport.OutputStderr
	}
	sink, err := transport.Open(output, cfg.MaxReportsPerSecond)
	if err != nil {
		return nil, err
	}

	pad, err := controller.New(cfg.Controller, sink, cfg.PressDuration)
	if err != nil {
		_ = sink.Close()
		return nil, err
	}

	return &cli.Session{
		Config:     cfg,
		ConfigPath: store.Path(),
		Controller: pad,
		Transport:  sink,
		Watch:      store.Watch,
		Apply: func(next domain.SessionConfig) {
			if next.Controller != cfg.Controller {
				logger.Warn("config: controller kind changes apply to the next session")
			}
			pad.SetPressDuration(next.PressDuration)
		},
	}, nil
}
