package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/padctl/internal/core/domain"
	"github.com/custodia-labs/padctl/internal/core/ports/driven"
)

// SessionCommands returns the commands registered in every shell session.
func SessionCommands(controller driven.Controller) []domain.Command {
	return []domain.Command{
		{
			Name: "hold",
			Doc: `
			hold <button>...
			Presses the buttons and keeps them pressed until released.`,
			Handler: func(ctx context.Context, args []string) (string, error) {
				if err := requireButtons(controller, "hold", args); err != nil {
					return "", err
				}
				return "", controller.Hold(ctx, args...)
			},
		},
		{
			Name: "release",
			Doc: `
			release <button>...
			Releases held buttons.`,
			Handler: func(ctx context.Context, args []string) (string, error) {
				if err := requireButtons(controller, "release", args); err != nil {
					return "", err
				}
				return "", controller.Release(ctx, args...)
			},
		},
		{
			Name: "wait",
			Doc: `
			wait <ms>
			Pauses the chain for <ms> milliseconds.`,
			Handler: cmdWait,
		},
		{
			Name: "state",
			Doc: `
			state
			Prints the current buttons and stick positions.`,
			Handler: func(context.Context, []string) (string, error) {
				return controller.Snapshot().String(), nil
			},
		},
		{
			Name:    "mash",
			Handler: Deprecated(`"mash" was replaced by "repeat <button> <interval_ms>".`),
		},
	}
}

func requireButtons(controller driven.Controller, name string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: usage: %s <button>...", domain.ErrInvalidArgument, name)
	}
	for _, button := range args {
		if !controller.IsButton(button) {
			return fmt.Errorf(`%w: "%s"`, domain.ErrUnknownButton, button)
		}
	}
	return nil
}

func cmdWait(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: usage: wait <ms>", domain.ErrInvalidArgument)
	}
	millis, err := strconv.Atoi(args[0])
	if err != nil || millis < 0 {
		return "", fmt.Errorf("%w: ms must be a non-negative integer", domain.ErrInvalidArgument)
	}

	timer := time.NewTimer(time.Duration(millis) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		return "", nil
	}
}
