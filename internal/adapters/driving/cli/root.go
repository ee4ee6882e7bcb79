// Package cli provides the cobra commands of the padctl binary.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/padctl/internal/core/domain"
	"github.com/custodia-labs/padctl/internal/core/ports/driven"
	"github.com/custodia-labs/padctl/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flag values.
var (
	verbose   bool
	configDir string
)

// Session holds the driven dependencies of one controller session.
type Session struct {
	// Config is the validated session configuration.
	Config domain.SessionConfig

	// ConfigPath is the file Config was read from.
	ConfigPath string

	// Controller is the emulated controller.
	Controller driven.Controller

	// Transport carries the controller's reports. Closed when the session ends.
	Transport driven.Transport

	// Watch reports configuration file changes until ctx is done. Optional.
	Watch func(ctx context.Context, onChange func(domain.SessionConfig, error)) error

	// Apply updates the running session after a configuration change. Optional.
	Apply func(domain.SessionConfig)
}

// SessionOptions tells a SessionFactory how to open a session.
type SessionOptions struct {
	// ConfigDir is the configuration directory. Empty selects the default.
	ConfigDir string

	// StdoutReserved reports that stdout carries a protocol, so reports
	// configured for stdout must go elsewhere.
	StdoutReserved bool
}

// SessionFactory opens a controller session.
type SessionFactory func(opts SessionOptions) (*Session, error)

// sessionFactory is injected by the binary's main package.
var sessionFactory SessionFactory

// errNoSessionFactory is returned when commands run before SetSessionFactory.
var errNoSessionFactory = errors.New("session factory not configured")

// SetSessionFactory sets how commands open a controller session.
func SetSessionFactory(f SessionFactory) {
	sessionFactory = f
}

// ConfigStoreFactory opens the configuration store in dir.
// An empty dir selects the default directory.
type ConfigStoreFactory func(dir string) (driven.ConfigStore, error)

// configStoreFactory is injected by the binary's main package.
var configStoreFactory ConfigStoreFactory

// errNoConfigStore is returned when config commands run before SetConfigStoreFactory.
var errNoConfigStore = errors.New("config store not configured")

// SetConfigStoreFactory sets how the config command opens the store.
func SetConfigStoreFactory(f ConfigStoreFactory) {
	configStoreFactory = f
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "padctl",
	Short: "Drive a virtual game controller from the command line",
	Long: `padctl emulates a game controller and lets you press its buttons,
move its sticks and run repeat loops from an interactive shell.

Start a session with "padctl shell" and type "help" for the command list.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print diagnostic logs to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "",
		"configuration directory (default $PADCTL_CONFIG_DIR or ~/.padctl)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// openSession opens a session with the configured factory.
func openSession(opts SessionOptions) (*Session, error) {
	if sessionFactory == nil {
		return nil, errNoSessionFactory
	}
	opts.ConfigDir = configDir
	session, err := sessionFactory(opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("session: %s controller, config %s", session.Config.Controller, session.ConfigPath)
	return session, nil
}

// openConfigStore opens the store with the configured factory.
func openConfigStore() (driven.ConfigStore, error) {
	if configStoreFactory == nil {
		return nil, errNoConfigStore
	}
	return configStoreFactory(configDir)
}

// closeSession releases the session transport.
func closeSession(session *Session) {
	if session.Transport == nil {
		return
	}
	if err := session.Transport.Close(); err != nil {
		logger.Warn("close transport: %v", err)
	}
}
