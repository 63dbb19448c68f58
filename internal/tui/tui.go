// Package tui provides the interactive manifest wizard behind
// groundwork init.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/felixgeelhaar/groundwork/internal/templates"
)

// InitWizardResult holds the result of the init wizard.
type InitWizardResult struct {
	Data      templates.ManifestData
	Cancelled bool
}

// RunInitWizard collects starter manifest settings interactively. The
// given defaults seed each field; a blank answer keeps the default.
func RunInitWizard(ctx context.Context, defaults templates.ManifestData) (*InitWizardResult, error) {
	model := newInitWizardModel(defaults)

	p := tea.NewProgram(model, tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("init wizard failed: %w", err)
	}

	m, ok := finalModel.(initWizardModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}

	return &InitWizardResult{
		Data:      m.data(),
		Cancelled: m.cancelled,
	}, nil
}
