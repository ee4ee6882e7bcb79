package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/kballard/go-shellquote"

	"github.com/custodia-labs/padctl/internal/core/domain"
	"github.com/custodia-labs/padctl/internal/core/ports/driven"
	"github.com/custodia-labs/padctl/internal/core/ports/driving"
	"github.com/custodia-labs/padctl/internal/logger"
)

// Ensure Interpreter implements the interface.
var _ driving.Interpreter = (*Interpreter)(nil)

// builtinFunc is a command provided by the interpreter itself.
// Unlike registered commands it may print several lines to out.
type builtinFunc func(ctx context.Context, out driven.Console, args []string) (string, error)

type builtin struct {
	doc string
	run builtinFunc
}

// maxSuggestionDistance bounds the edit distance of "did you mean" suggestions.
const maxSuggestionDistance = 2

// Interpreter parses chained input lines and dispatches them to built-in
// commands, registered commands or the controller.
type Interpreter struct {
	controller driven.Controller
	loops      driving.LoopManager
	console    driven.Console
	registry   *CommandRegistry
	builtins   map[string]builtin

	defaultPeriod time.Duration

	// mu serialises line dispatch between the REPL and remote callers.
	mu sync.Mutex
}

// InterpreterOption configures an Interpreter.
type InterpreterOption func(*Interpreter)

// WithRegistry uses an existing command registry.
func WithRegistry(r *CommandRegistry) InterpreterOption {
	return func(i *Interpreter) {
		if r != nil {
			i.registry = r
		}
	}
}

// WithDefaultLoopPeriod sets the period used by repeat when none is given.
func WithDefaultLoopPeriod(d time.Duration) InterpreterOption {
	return func(i *Interpreter) {
		if d >= domain.MinLoopPeriod {
			i.defaultPeriod = d
		}
	}
}

// NewInterpreter creates an interpreter driving controller.
func NewInterpreter(
	controller driven.Controller,
	loops driving.LoopManager,
	console driven.Console,
	opts ...InterpreterOption,
) *Interpreter {
	i := &Interpreter{
		controller:    controller,
		loops:         loops,
		console:       console,
		registry:      NewCommandRegistry(),
		defaultPeriod: domain.DefaultLoopPeriod,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.builtins = i.builtinTable()
	return i
}

// Register adds a command to the session.
// Names of built-in commands are reserved.
func (i *Interpreter) Register(cmd domain.Command) error {
	if _, exists := i.builtins[cmd.Name]; exists {
		return fmt.Errorf("command %s is built in: %w", cmd.Name, domain.ErrDuplicateCommand)
	}
	return i.registry.Register(cmd)
}

// Run reads and dispatches lines until exit, end of input, connectivity
// loss or ctx cancellation. Every active loop is stopped before it returns.
func (i *Interpreter) Run(ctx context.Context, in driven.LineReader) (domain.Outcome, error) {
	type readResult struct {
		line string
		err  error
	}

	// Lines are read on demand so the prompt never runs ahead of output.
	requests := make(chan struct{})
	results := make(chan readResult, 1)
	defer close(requests)
	go func() {
		for range requests {
			line, err := in.ReadLine()
			results <- readResult{line: line, err: err}
		}
	}()

	for {
		select {
		case requests <- struct{}{}:
		case <-ctx.Done():
			i.loops.StopAll()
			return domain.OutcomeExit, ctx.Err()
		}

		var r readResult
		select {
		case r = <-results:
		case <-ctx.Done():
			i.loops.StopAll()
			return domain.OutcomeExit, ctx.Err()
		}

		if r.err != nil {
			i.loops.StopAll()
			if errors.Is(r.err, io.EOF) {
				return domain.OutcomeExit, nil
			}
			return domain.OutcomeExit, fmt.Errorf("read input: %w", r.err)
		}

		if outcome := i.Exec(ctx, r.line, i.console); outcome.Ends() {
			return outcome, nil
		}
	}
}

// Exec dispatches one input line.
//
// Sub-commands separated by "&&" run left to right. Buttons among them are
// collected and pushed together once the line is done; if the line named no
// buttons the current state is flushed instead.
func (i *Interpreter) Exec(ctx context.Context, line string, out driven.Console) domain.Outcome {
	i.mu.Lock()
	defer i.mu.Unlock()

	if strings.TrimSpace(line) == "" {
		return domain.OutcomeContinue
	}

	var batch []string
	for _, segment := range strings.Split(line, domain.ChainDelimiter) {
		words, err := shellquote.Split(segment)
		if err != nil {
			out.Error(fmt.Sprintf("%v: %v", domain.ErrInvalidArgument, err))
			continue
		}
		if len(words) == 0 {
			continue
		}
		head, args := words[0], words[1:]

		if head == domain.ExitCommand {
			i.loops.StopAll()
			return domain.OutcomeExit
		}

		if b, ok := i.builtins[head]; ok {
			i.invoke(out, head, func() (string, error) { return b.run(ctx, out, args) })
			continue
		}
		if cmd, ok := i.registry.Resolve(head); ok {
			i.invoke(out, head, func() (string, error) { return cmd.Handler(ctx, args) })
			continue
		}
		if i.controller.IsButton(head) {
			batch = append(batch, head)
			continue
		}
		out.Error(i.notFoundMessage(head))
	}

	// An interrupted line sends nothing; Run ends the session next.
	if ctx.Err() != nil {
		return domain.OutcomeContinue
	}

	var err error
	if len(batch) > 0 {
		err = i.controller.Push(ctx, batch...)
	} else {
		err = i.controller.Flush(ctx)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotConnected) {
			out.Notice("Connection was lost.")
			logger.Info("Connection was lost, stopping %d repeat loops", len(i.loops.List()))
			i.loops.StopAll()
			return domain.OutcomeDisconnected
		}
		out.Error(err.Error())
	}
	return domain.OutcomeContinue
}

// invoke runs one handler, printing its result or error.
func (i *Interpreter) invoke(out driven.Console, name string, run func() (string, error)) {
	result, err := safeCall(name, run)
	if err != nil {
		out.Error(err.Error())
		return
	}
	if result != "" {
		out.Print(result)
	}
}

// safeCall converts a handler panic into an error.
func safeCall(name string, run func() (string, error)) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("command %s panicked: %v", name, r)
			err = fmt.Errorf("%s failed: %v", name, r)
		}
	}()
	return run()
}

func (i *Interpreter) notFoundMessage(name string) string {
	msg := fmt.Sprintf("command %s not found, call help for help.", name)
	if suggestion := i.suggest(name); suggestion != "" {
		msg += fmt.Sprintf(` Did you mean "%s"?`, suggestion)
	}
	return msg
}

// suggest returns the closest known command or button name, or "".
func (i *Interpreter) suggest(name string) string {
	candidates := make([]string, 0, len(i.builtins))
	for builtinName := range i.builtins {
		candidates = append(candidates, builtinName)
	}
	candidates = append(candidates, i.registry.Names()...)
	candidates = append(candidates, i.controller.Buttons()...)
	sort.Strings(candidates)

	best, bestDist := "", maxSuggestionDistance+1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(name, c)
		if d < bestDist && d < len([]rune(name)) {
			best, bestDist = c, d
		}
	}
	return best
}
