// Package tui renders the meridian dashboard: one bordered, independently
// scrollable column per zone, driven by a 1-second tick that feeds the
// engine its reference instants.
package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oxleyk/meridian/internal/engine"
)

// Program is an alias for tea.Program, exposed so callers don't need to
// import bubbletea directly.
type Program = tea.Program

// NewProgram creates a BubbleTea program for an engine whose zones are
// already registered. The program uses the alternate screen buffer.
func NewProgram(eng *engine.Engine, reload ReloadFunc, opts ...tea.ProgramOption) *Program {
	model := NewAppModel(eng)
	model.Reload = reload

	allOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
	}
	allOpts = append(allOpts, opts...)
	return tea.NewProgram(model, allOpts...)
}

// Run creates and runs a dashboard program, blocking until it exits.
func Run(eng *engine.Engine, reload ReloadFunc) error {
	p := NewProgram(eng, reload)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}

// WithOutput returns a program option that directs TUI output to the given
// writer. Useful for testing.
func WithOutput(w io.Writer) tea.ProgramOption {
	return tea.WithOutput(w)
}
