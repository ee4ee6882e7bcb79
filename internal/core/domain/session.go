package domain

import (
	"fmt"
	"time"
)

// Default session settings.
const (
	DefaultPrompt              = "cmd >> "
	DefaultPressDuration       = 100 * time.Millisecond
	DefaultTransportOutput     = "stdout"
	DefaultMaxReportsPerSecond = 60
)

// Configuration keys mapped onto SessionConfig fields.
const (
	KeyControllerKind      = "controller.kind"
	KeyPressDurationMillis = "controller.press_duration_ms"
	KeyTransportOutput     = "transport.output"
	KeyMaxReportsPerSecond = "transport.max_reports_per_second"
	KeyPrompt              = "shell.prompt"
	KeyColor               = "shell.color"
	KeyDefaultPeriodMillis = "shell.default_period_ms"
)

// ConfigKeys returns every configuration key in display order.
func ConfigKeys() []string {
	return []string{
		KeyControllerKind,
		KeyPressDurationMillis,
		KeyTransportOutput,
		KeyMaxReportsPerSecond,
		KeyPrompt,
		KeyColor,
		KeyDefaultPeriodMillis,
	}
}

// SessionConfig holds the settings for one interactive session.
type SessionConfig struct {
	// Controller is the emulated controller kind.
	Controller ControllerKind

	// PressDuration is how long a pushed button stays pressed.
	PressDuration time.Duration

	// TransportOutput names where reports are written: stdout, stderr, discard or a file path.
	TransportOutput string

	// MaxReportsPerSecond throttles the transport. Zero disables throttling.
	MaxReportsPerSecond int

	// Prompt is printed before each input line.
	Prompt string

	// Color enables styled console output.
	Color bool

	// DefaultLoopPeriod is used by repeat when no interval is given.
	DefaultLoopPeriod time.Duration
}

// DefaultSessionConfig returns sensible defaults for a session.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Controller:          ControllerPro,
		PressDuration:       DefaultPressDuration,
		TransportOutput:     DefaultTransportOutput,
		MaxReportsPerSecond: DefaultMaxReportsPerSecond,
		Prompt:              DefaultPrompt,
		Color:               true,
		DefaultLoopPeriod:   DefaultLoopPeriod,
	}
}

// Validate checks the configuration is usable.
func (c SessionConfig) Validate() error {
	if !c.Controller.IsValid() {
		return fmt.Errorf("%w: unknown controller kind %q", ErrInvalidInput, c.Controller)
	}
	if c.PressDuration < 0 {
		return fmt.Errorf("%w: press duration must not be negative", ErrInvalidInput)
	}
	if c.MaxReportsPerSecond < 0 {
		return fmt.Errorf("%w: max reports per second must not be negative", ErrInvalidInput)
	}
	if c.TransportOutput == "" {
		return fmt.Errorf("%w: transport output is required", ErrInvalidInput)
	}
	if c.DefaultLoopPeriod < MinLoopPeriod {
		return fmt.Errorf("%w: default loop period must be at least %s", ErrInvalidInput, MinLoopPeriod)
	}
	return nil
}

// Values returns the configuration as stored under each key.
// Durations are whole milliseconds.
func (c SessionConfig) Values() map[string]any {
	return map[string]any{
		KeyControllerKind:      string(c.Controller),
		KeyPressDurationMillis: c.PressDuration.Milliseconds(),
		KeyTransportOutput:     c.TransportOutput,
		KeyMaxReportsPerSecond: int64(c.MaxReportsPerSecond),
		KeyPrompt:              c.Prompt,
		KeyColor:               c.Color,
		KeyDefaultPeriodMillis: c.DefaultLoopPeriod.Milliseconds(),
	}
}
