package app

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/felixgeelhaar/groundwork/internal/domain/run"
	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
)

// durationPrecision keeps step timings readable.
const durationPrecision = 10 * time.Millisecond

// Theme colors (Catppuccin Mocha inspired).
var (
	colorSuccess = lipgloss.AdaptiveColor{Light: "#40a02b", Dark: "#a6e3a1"} // Green
	colorPending = lipgloss.AdaptiveColor{Light: "#1e66f5", Dark: "#89b4fa"} // Blue
	colorWarning = lipgloss.AdaptiveColor{Light: "#df8e1d", Dark: "#f9e2af"} // Yellow
	colorError   = lipgloss.AdaptiveColor{Light: "#d20f39", Dark: "#f38ba8"} // Red
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6c6f85", Dark: "#6c7086"} // Overlay0
)

// Printer renders plans, run progress, and summaries for the terminal.
type Printer struct {
	out io.Writer

	header    lipgloss.Style
	satisfied lipgloss.Style
	pending   lipgloss.Style
	warning   lipgloss.Style
	failed    lipgloss.Style
	muted     lipgloss.Style
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out:       out,
		header:    lipgloss.NewStyle().Bold(true),
		satisfied: lipgloss.NewStyle().Foreground(colorSuccess),
		pending:   lipgloss.NewStyle().Foreground(colorPending),
		warning:   lipgloss.NewStyle().Foreground(colorWarning),
		failed:    lipgloss.NewStyle().Foreground(colorError).Bold(true),
		muted:     lipgloss.NewStyle().Foreground(colorMuted),
	}
}

// Plan renders a check-only preview of the sequence.
func (p *Printer) Plan(plan *run.Plan) {
	p.printf("\n%s\n\n", p.header.Render("Groundwork Plan"))

	if plan.IsEmpty() {
		p.printf("Nothing to do. The manifest compiled to zero steps.\n")
		return
	}

	explainCtx := sequence.NewExplainContext()
	for _, entry := range plan.Entries() {
		mark, style := p.planMark(entry)
		line := fmt.Sprintf("%s %-28s %s", mark, entry.Step().ID().String(),
			entry.Step().Explain(explainCtx).Summary())
		if entry.Reason() != "" {
			line += p.muted.Render(fmt.Sprintf(" (%s)", entry.Reason()))
		}
		p.printf("  %s\n", style.Render(line))
	}

	summary := plan.Summary()
	p.printf("\n%d steps: %d to apply, %d satisfied, %d skipped\n",
		summary.Total, summary.NeedsApply+summary.Unknown, summary.Satisfied, summary.Skipped)

	if plan.HasChanges() {
		p.printf("Run %s to apply these changes.\n", p.header.Render("groundwork up"))
	} else {
		p.printf("The host already matches the manifest.\n")
	}
}

// planMark picks the mark and style for a plan entry.
func (p *Printer) planMark(entry run.PlanEntry) (string, lipgloss.Style) {
	switch entry.Status() {
	case sequence.StatusSatisfied:
		return "✓", p.satisfied
	case sequence.StatusNeedsApply:
		return "+", p.pending
	case sequence.StatusSkipped:
		return "-", p.muted
	case sequence.StatusUnknown:
		return "?", p.muted
	case sequence.StatusFailed:
		return "✗", p.failed
	default:
		return "?", p.muted
	}
}

// RunHeader announces the run before the first step executes.
func (p *Printer) RunHeader(total int, dryRun bool) {
	title := "Groundwork Up"
	if dryRun {
		title += " (dry run)"
	}
	p.printf("\n%s\n\n", p.header.Render(title))
	if total == 0 {
		p.printf("Nothing to do. The manifest compiled to zero steps.\n")
	}
}

// StepResult renders one finished step. It matches run.ProgressFunc so
// the executor can report steps as they complete.
func (p *Printer) StepResult(index, total int, step sequence.Step, res run.StepResult) {
	position := p.muted.Render(fmt.Sprintf("[%d/%d]", index, total))

	var line string
	switch {
	case res.Failed() && res.IsWarning():
		line = p.warning.Render(fmt.Sprintf("! %s: %v", step.ID().String(), res.Error()))
	case res.Failed():
		line = p.failed.Render(fmt.Sprintf("✗ %s: %v", step.ID().String(), res.Error()))
	case res.Skipped():
		line = p.muted.Render(fmt.Sprintf("- %s (skipped: %s)", step.ID().String(), res.Reason()))
	case res.Applied():
		line = p.pending.Render(fmt.Sprintf("+ %s (applied in %s)", step.ID().String(),
			res.Duration().Round(durationPrecision)))
	case res.Status() == sequence.StatusNeedsApply || res.Status() == sequence.StatusUnknown:
		line = p.pending.Render(fmt.Sprintf("+ %s (would apply)", step.ID().String()))
	default:
		line = p.satisfied.Render(fmt.Sprintf("✓ %s", step.ID().String()))
	}

	p.printf("  %s %s\n", position, line)
}

// RunSummary renders the final tally once every step has been visited.
func (p *Printer) RunSummary(result *run.Result, dryRun bool) {
	summary := result.Summary()

	caser := cases.Title(language.English)
	heading := caser.String(strings.ReplaceAll(result.Outcome().String(), "-", " "))

	var style lipgloss.Style
	switch result.Outcome() {
	case run.OutcomeCompleted:
		style = p.satisfied
	case run.OutcomeCompletedWithWarnings:
		style = p.warning
	default:
		style = p.failed
	}

	parts := make([]string, 0, 5)
	if summary.Satisfied > 0 {
		parts = append(parts, fmt.Sprintf("%d satisfied", summary.Satisfied))
	}
	if summary.Applied > 0 {
		parts = append(parts, fmt.Sprintf("%d applied", summary.Applied))
	}
	if dryRun && summary.WouldApply > 0 {
		parts = append(parts, fmt.Sprintf("%d would apply", summary.WouldApply))
	}
	if summary.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", summary.Failed))
	}
	if summary.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", summary.Skipped))
	}
	if len(parts) == 0 {
		parts = append(parts, "nothing to do")
	}

	p.printf("\n%s: %s\n", style.Render(heading), strings.Join(parts, ", "))

	if summary.Warnings > 0 {
		p.printf("%s\n", p.warning.Render(fmt.Sprintf("%d warning(s); review the output above.", summary.Warnings)))
	}
	if fatal := result.FatalError(); fatal != nil {
		p.printf("\n%s\n", fatal.Format())
	}
}

// Doctor renders a host readiness report.
func (p *Printer) Doctor(report *DoctorReport) {
	p.printf("\n%s\n\n", p.header.Render("Groundwork Doctor"))

	for _, check := range report.Checks {
		var line string
		switch check.Status {
		case CheckOK:
			line = p.satisfied.Render(fmt.Sprintf("✓ %s", check.Name))
		case CheckWarning:
			line = p.warning.Render(fmt.Sprintf("! %s", check.Name))
		case CheckMissing:
			line = p.failed.Render(fmt.Sprintf("✗ %s", check.Name))
		}
		if check.Detail != "" {
			line += p.muted.Render(" " + check.Detail)
		}
		p.printf("  %s\n", line)
	}

	p.printf("\n")
	if report.Ready() {
		p.printf("%s\n", p.satisfied.Render("This host is ready for groundwork up."))
	} else {
		p.printf("%s\n", p.failed.Render("This host is missing required tools; see above."))
	}
}

// printf writes to the output writer, ignoring errors.
func (p *Printer) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}
