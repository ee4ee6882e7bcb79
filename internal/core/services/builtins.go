package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/custodia-labs/padctl/internal/core/domain"
	"github.com/custodia-labs/padctl/internal/core/ports/driven"
)

// builtinTable returns the commands provided by the interpreter itself.
func (i *Interpreter) builtinTable() map[string]builtin {
	return map[string]builtin{
		"help": {
			doc: `
			help - Show this list of commands.
			  help <command> shows the documentation of one command.`,
			run: i.cmdHelp,
		},
		"stick": {
			doc: `
			stick - Command to set stick positions.
			  stick <side> <direction> [value]
			    side:      'l', 'left' for left control stick; 'r', 'right' for right control stick
			    direction: 'center', 'up', 'down', 'left', 'right';
			               'h', 'horizontal' or 'v', 'vertical' to set the value directly to the "value" argument
			    value:     horizontal or vertical value`,
			run: i.cmdStick,
		},
		"repeat": {
			doc: `
			repeat <button> [interval_ms]
			Starts an endless loop pressing <button> every <interval_ms> ms.`,
			run: i.cmdRepeat,
		},
		"repeat_stop": {
			doc: `
			repeat_stop <button>
			Stops the repeat loop of <button>.`,
			run: i.cmdRepeatStop,
		},
		"repeat_list": {
			doc: `
			repeat_list
			Lists active repeat loops.`,
			run: i.cmdRepeatList,
		},
		"repeat_status": {
			doc: `
			repeat_status
			Shows period, run id and press count of each active repeat loop.`,
			run: i.cmdRepeatStatus,
		},
	}
}

func (i *Interpreter) cmdHelp(_ context.Context, out driven.Console, args []string) (string, error) {
	switch len(args) {
	case 0:
	case 1:
		return "", i.helpFor(out, args[0])
	default:
		return "", fmt.Errorf("%w: usage: help [command]", domain.ErrInvalidArgument)
	}

	out.Print("Button commands:")
	out.Print(strings.Join(i.controller.Buttons(), ", "))
	out.Print("")
	out.Print("repeat <button> <interval_ms>  - starts a loop pressing <button> every <interval_ms> ms")
	out.Print("repeat_stop <button>           - stops the loop of <button>")
	out.Print("repeat_list                    - lists active loops")
	out.Print("")

	out.Print("Commands:")
	names := make([]string, 0, len(i.builtins))
	for name := range i.builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		printDoc(out, i.builtins[name].doc)
	}
	for _, cmd := range i.registry.Commands() {
		printDoc(out, cmd.Doc)
	}

	out.Print(`Commands can be chained using "&&"`)
	out.Print(`Type "exit" to close.`)
	return "", nil
}

// helpFor prints the documentation of one built-in or registered command.
func (i *Interpreter) helpFor(out driven.Console, name string) error {
	if b, ok := i.builtins[name]; ok {
		printDoc(out, b.doc)
		return nil
	}
	cmd, err := i.registry.Lookup(name)
	if err != nil {
		return err
	}
	if strings.TrimSpace(cmd.Doc) == "" {
		out.Print(fmt.Sprintf("%s has no documentation.", name))
		return nil
	}
	printDoc(out, cmd.Doc)
	return nil
}

func printDoc(out driven.Console, doc string) {
	if strings.TrimSpace(doc) == "" {
		return
	}
	for _, line := range dedentLines(doc) {
		out.Print(line)
	}
}

// dedentLines splits doc into lines and strips the leading whitespace common
// to all non-blank lines. Blank lines are returned unchanged.
func dedentLines(doc string) []string {
	lines := strings.Split(doc, "\n")

	prefix := 0
	for idx, first := range lines {
		if strings.TrimSpace(first) == "" {
			continue
		}
		runes := []rune(first)
		for prefix = 0; prefix < len(runes); prefix++ {
			c := runes[prefix]
			if !unicode.IsSpace(c) || mismatchAt(lines[idx+1:], prefix, c) {
				break
			}
		}
		break
	}

	result := make([]string, len(lines))
	for idx, line := range lines {
		if strings.TrimSpace(line) == "" {
			result[idx] = line
			continue
		}
		result[idx] = string([]rune(line)[prefix:])
	}
	return result
}

// mismatchAt reports whether any non-blank line lacks c at position pos.
func mismatchAt(lines []string, pos int, c rune) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		runes := []rune(line)
		if pos >= len(runes) || runes[pos] != c {
			return true
		}
	}
	return false
}

func (i *Interpreter) cmdStick(_ context.Context, _ driven.Console, args []string) (string, error) {
	if len(args) < 2 || len(args) > 3 {
		return "", fmt.Errorf("%w: usage: stick <side> <direction> [value]", domain.ErrInvalidArgument)
	}

	side, err := domain.ParseStickSide(args[0])
	if err != nil {
		return "", err
	}
	stick, err := i.controller.Stick(side)
	if err != nil {
		return "", err
	}

	var value *string
	if len(args) == 3 {
		value = &args[2]
	}
	if err := setStick(stick, args[1], value); err != nil {
		return "", err
	}

	pos := stick.Position()
	return fmt.Sprintf("%s stick was set to (%d, %d).", side, pos.H, pos.V), nil
}

func setStick(stick driven.Stick, direction string, value *string) error {
	switch direction {
	case "center":
		stick.SetCenter()
	case "up":
		stick.SetUp()
	case "down":
		stick.SetDown()
	case "left":
		stick.SetLeft()
	case "right":
		stick.SetRight()
	case "h", "horizontal":
		v, err := parseStickValue(value)
		if err != nil {
			return err
		}
		return stick.SetH(v)
	case "v", "vertical":
		v, err := parseStickValue(value)
		if err != nil {
			return err
		}
		return stick.SetV(v)
	default:
		return fmt.Errorf(`%w: unexpected argument "%s"`, domain.ErrInvalidArgument, direction)
	}
	return nil
}

func parseStickValue(value *string) (int, error) {
	if value == nil {
		return 0, fmt.Errorf("%w: missing value", domain.ErrInvalidArgument)
	}
	v, err := strconv.Atoi(*value)
	if err != nil {
		return 0, fmt.Errorf(`%w: unexpected stick value "%s"`, domain.ErrInvalidArgument, *value)
	}
	return v, nil
}

func (i *Interpreter) cmdRepeat(ctx context.Context, _ driven.Console, args []string) (string, error) {
	switch len(args) {
	case 1:
		return i.loops.Start(ctx, args[0], strconv.FormatInt(i.defaultPeriod.Milliseconds(), 10))
	case 2:
		return i.loops.Start(ctx, args[0], args[1])
	default:
		return "", fmt.Errorf("%w: usage: repeat <button> [interval_ms]", domain.ErrInvalidArgument)
	}
}

func (i *Interpreter) cmdRepeatStop(_ context.Context, _ driven.Console, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: usage: repeat_stop <button>", domain.ErrInvalidArgument)
	}
	return i.loops.Stop(args[0]), nil
}

func (i *Interpreter) cmdRepeatList(_ context.Context, _ driven.Console, _ []string) (string, error) {
	keys := i.loops.List()
	if len(keys) == 0 {
		return "No active repeat loops.", nil
	}
	return "Active repeat loops: " + strings.Join(keys, ", "), nil
}

func (i *Interpreter) cmdRepeatStatus(_ context.Context, out driven.Console, _ []string) (string, error) {
	tasks := i.loops.Status()
	if len(tasks) == 0 {
		return "No active repeat loops.", nil
	}
	for _, task := range tasks {
		out.Print(fmt.Sprintf("%-10s every %5d ms  presses=%-6d run=%s",
			task.Key, task.Period.Milliseconds(), task.Presses, task.RunID))
	}
	return "", nil
}
