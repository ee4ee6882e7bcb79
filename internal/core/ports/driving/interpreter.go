package driving

import (
	"context"

	"github.com/custodia-labs/padctl/internal/core/domain"
	"github.com/custodia-labs/padctl/internal/core/ports/driven"
)

// Interpreter runs the interactive command session.
type Interpreter interface {
	// Register adds a command to the session.
	// Returns domain.ErrDuplicateCommand if the name is taken.
	Register(cmd domain.Command) error

	// Exec dispatches one input line, writing output to out.
	// Lines are processed one at a time; concurrent callers wait their turn.
	Exec(ctx context.Context, line string, out driven.Console) domain.Outcome

	// Run reads and dispatches lines until exit, end of input,
	// connectivity loss or ctx cancellation.
	Run(ctx context.Context, in driven.LineReader) (domain.Outcome, error)
}
