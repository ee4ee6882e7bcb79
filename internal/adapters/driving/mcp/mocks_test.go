package mcp

import (
	"context"

	"github.com/custodia-labs/padctl/internal/core/domain"
	"github.com/custodia-labs/padctl/internal/core/ports/driven"
	"github.com/custodia-labs/padctl/internal/core/ports/driving"
)

// mockInterpreter is a mock implementation of driving.Interpreter.
type mockInterpreter struct {
	lines   []string
	prints  []string
	errs    []string
	outcome domain.Outcome
}

func (m *mockInterpreter) Register(domain.Command) error {
	return nil
}

func (m *mockInterpreter) Exec(_ context.Context, line string, out driven.Console) domain.Outcome {
	m.lines = append(m.lines, line)
	for _, p := range m.prints {
		out.Print(p)
	}
	for _, e := range m.errs {
		out.Error(e)
	}
	return m.outcome
}

func (m *mockInterpreter) Run(context.Context, driven.LineReader) (domain.Outcome, error) {
	return domain.OutcomeExit, nil
}

// mockLoopManager is a mock implementation of driving.LoopManager.
type mockLoopManager struct {
	tasks []domain.LoopTask
}

func (m *mockLoopManager) Start(context.Context, string, string) (string, error) {
	return "", nil
}

func (m *mockLoopManager) Stop(string) string {
	return ""
}

func (m *mockLoopManager) List() []string {
	keys := make([]string, 0, len(m.tasks))
	for _, task := range m.tasks {
		keys = append(keys, task.Key)
	}
	return keys
}

func (m *mockLoopManager) Status() []domain.LoopTask {
	return m.tasks
}

func (m *mockLoopManager) StopAll() {}

func (m *mockLoopManager) Wait(context.Context) error {
	return nil
}

var (
	_ driving.Interpreter = (*mockInterpreter)(nil)
	_ driving.LoopManager = (*mockLoopManager)(nil)
)
