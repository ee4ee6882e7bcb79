package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/padctl/internal/core/domain"
)

// CommandRegistry maps command names to commands.
// Registration happens during setup, before the interpreter loop starts,
// so the registry is not guarded for concurrent mutation.
type CommandRegistry struct {
	commands map[string]domain.Command
	order    []string
}

// NewCommandRegistry creates an empty registry.
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		commands: make(map[string]domain.Command),
	}
}

// Register adds a command.
// Returns domain.ErrDuplicateCommand if the name is already registered.
func (r *CommandRegistry) Register(cmd domain.Command) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("register command %q: %w", cmd.Name, err)
	}
	if _, exists := r.commands[cmd.Name]; exists {
		return fmt.Errorf("command %s already registered: %w", cmd.Name, domain.ErrDuplicateCommand)
	}
	r.commands[cmd.Name] = cmd
	r.order = append(r.order, cmd.Name)
	return nil
}

// Resolve returns the command and whether it exists.
func (r *CommandRegistry) Resolve(name string) (domain.Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Lookup returns the named command.
// Returns domain.ErrCommandNotFound if no command has that name.
func (r *CommandRegistry) Lookup(name string) (domain.Command, error) {
	cmd, ok := r.commands[name]
	if !ok {
		return domain.Command{}, fmt.Errorf("%w: %s", domain.ErrCommandNotFound, name)
	}
	return cmd, nil
}

// Has returns true if a command with the given name is registered.
func (r *CommandRegistry) Has(name string) bool {
	_, ok := r.commands[name]
	return ok
}

// Commands returns registered commands in registration order.
func (r *CommandRegistry) Commands() []domain.Command {
	cmds := make([]domain.Command, 0, len(r.order))
	for _, name := range r.order {
		cmds = append(cmds, r.commands[name])
	}
	return cmds
}

// Names returns registered command names in registration order.
func (r *CommandRegistry) Names() []string {
	return append([]string(nil), r.order...)
}

// Deprecated returns a handler that only reports message.
// It keeps retired command names answering with a pointer to their replacement.
func Deprecated(message string) domain.HandlerFunc {
	return func(context.Context, []string) (string, error) {
		return message, nil
	}
}
