package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/padctl/internal/adapters/driven/console"
	"github.com/custodia-labs/padctl/internal/adapters/driven/transport"
	"github.com/custodia-labs/padctl/internal/core/domain"
	"github.com/custodia-labs/padctl/internal/core/ports/driven"
	"github.com/custodia-labs/padctl/internal/core/services"
	"github.com/custodia-labs/padctl/internal/logger"
)

// loopShutdownTimeout bounds how long the shell waits for repeat loops to exit.
const loopShutdownTimeout = 5 * time.Second

// shellCmd represents the shell command.
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive controller session",
	Long: `Start an interactive session driving the virtual controller.

Type button names to press them; chain several with "&&" to press them
together. "repeat <button> <interval_ms>" presses a button in the
background until "repeat_stop <button>".

The session ends on "exit", end of input (Ctrl-D), Ctrl-C or when the
controller loses its connection. Every repeat loop is stopped first.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	shellCmd.Flags().Bool("watch-config", false, "apply configuration file changes while running")
	rootCmd.AddCommand(shellCmd)
}

// sessionRuntime is the interpreter stack built around one session.
type sessionRuntime struct {
	console     driven.Console
	loops       *services.LoopManager
	interpreter *services.Interpreter
}

// newSessionRuntime wires the loop manager and interpreter for session.
func newSessionRuntime(session *Session, con driven.Console) (*sessionRuntime, error) {
	loops := services.NewLoopManager(session.Controller, con)
	interp := services.NewInterpreter(session.Controller, loops, con,
		services.WithDefaultLoopPeriod(session.Config.DefaultLoopPeriod))

	for _, c := range services.SessionCommands(session.Controller) {
		if err := interp.Register(c); err != nil {
			return nil, fmt.Errorf("register %s: %w", c.Name, err)
		}
	}

	return &sessionRuntime{console: con, loops: loops, interpreter: interp}, nil
}

// shutdown stops every loop and waits for the goroutines to exit.
func (r *sessionRuntime) shutdown() {
	r.loops.StopAll()

	ctx, cancel := context.WithTimeout(context.Background(), loopShutdownTimeout)
	defer cancel()
	if err := r.loops.Wait(ctx); err != nil {
		logger.Warn("repeat loops still running after %s", loopShutdownTimeout)
	}
}

func runShell(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in shell: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	watch, err := cmd.Flags().GetBool("watch-config")
	if err != nil {
		return fmt.Errorf("getting watch-config flag: %w", err)
	}

	session, err := openSession(SessionOptions{})
	if err != nil {
		return err
	}
	defer closeSession(session)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reader, con, termOut, restore, err := openTerminal(cmd, session.Config)
	if err != nil {
		return err
	}
	defer restore()
	if termOut != nil {
		routeReports(session, termOut)
	}

	rt, err := newSessionRuntime(session, con)
	if err != nil {
		return err
	}
	defer rt.shutdown()

	if watch && session.Watch != nil {
		go watchConfig(ctx, session, reader, con)
	}

	outcome, err := rt.interpreter.Run(ctx, reader)
	if errors.Is(err, context.Canceled) {
		// Ctrl-C ends the session normally.
		return nil
	}
	if outcome == domain.OutcomeDisconnected {
		logger.Info("shell: session ended after connectivity loss")
	}
	return err
}

// openTerminal picks a raw-mode line editor when both ends are a terminal
// and a plain line scanner otherwise. termOut is the line editor's writer,
// nil without a terminal.
func openTerminal(cmd *cobra.Command, cfg domain.SessionConfig) (
	reader driven.LineReader, con *console.Console, termOut io.Writer, restore func(), err error,
) {
	in, out := cmd.InOrStdin(), cmd.OutOrStdout()

	inFile, inOK := in.(*os.File)
	outFile, outOK := out.(*os.File)
	if !inOK || !outOK || !console.IsTerminal(int(inFile.Fd())) || !console.IsTerminal(int(outFile.Fd())) {
		scanner := console.NewScannerReader(in, out, cfg.Prompt)
		return scanner, console.New(out, cfg.Color), nil, func() {}, nil
	}

	tr, err := console.NewTerminalReader(int(inFile.Fd()), struct {
		io.Reader
		io.Writer
	}{inFile, outFile}, cfg.Prompt)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	// Styles are detected on the real terminal; writes go through the line
	// editor so output does not clobber the prompt.
	styles := console.NewStyles(lipgloss.NewRenderer(outFile), nil)
	con = console.New(tr.Writer(), cfg.Color, console.WithStyles(styles))
	restore = func() {
		if err := tr.Close(); err != nil {
			logger.Warn("restore terminal: %v", err)
		}
	}
	return tr, con, tr.Writer(), restore, nil
}

// transportSetter is implemented by controllers whose transport can change.
type transportSetter interface {
	SetTransport(t driven.Transport)
}

// routeReports sends reports configured for stdout or stderr through w.
// Raw mode disables output post-processing, so reports written straight to
// the terminal would not return the cursor or keep the prompt intact.
func routeReports(session *Session, w io.Writer) {
	switch strings.ToLower(strings.TrimSpace(session.Config.TransportOutput)) {
	case "", transport.OutputStdout, transport.OutputStderr:
	default:
		return
	}
	setter, ok := session.Controller.(transportSetter)
	if !ok {
		return
	}

	sink := transport.NewSink(w, session.Config.MaxReportsPerSecond)
	setter.SetTransport(sink)
	closeSession(session)
	session.Transport = sink
	logger.Debug("transport: reports routed through the terminal")
}

// promptSetter is implemented by readers whose prompt can change.
type promptSetter interface {
	SetPrompt(prompt string)
}

// watchConfig applies configuration changes until ctx is done.
func watchConfig(ctx context.Context, session *Session, reader driven.LineReader, con driven.Console) {
	err := session.Watch(ctx, func(cfg domain.SessionConfig, err error) {
		if err != nil {
			con.Error(fmt.Sprintf("config reload failed: %v", err))
			return
		}
		if session.Apply != nil {
			session.Apply(cfg)
		}
		if p, ok := reader.(promptSetter); ok {
			p.SetPrompt(cfg.Prompt)
		}
		con.Notice("Configuration reloaded.")
	})
	if err != nil {
		logger.Warn("config watch stopped: %v", err)
	}
}
