package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"

	"github.com/elemflux/elemflux/pkg/kshortest"
	"github.com/elemflux/elemflux/pkg/linsys"
)

// Color palette.
var (
	colorCyan  = lipgloss.Color("36")  // primary
	colorGreen = lipgloss.Color("35")  // success
	colorRed   = lipgloss.Color("167") // errors
	colorWhite = lipgloss.Color("255") // values
	colorGray  = lipgloss.Color("245") // secondary text
	colorDim   = lipgloss.Color("240") // muted text
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
	styleSpin    = lipgloss.NewStyle().Foreground(colorCyan)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
)

func printSuccess(format string, args ...any) {
	fmt.Println(styleSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

// supportString renders a solution's active reactions as names.
func supportString(s *kshortest.Solution, name func(int) string) string {
	parts := make([]string, 0, s.Size())
	for _, rx := range s.ActiveReactions() {
		parts = append(parts, name(rx))
	}
	return strings.Join(parts, ", ")
}

// printSolutions renders the enumerated solutions as a table.
func printSolutions(title string, sols []*kshortest.Solution, name func(int) string) {
	fmt.Println()
	fmt.Println(styleTitle.Render(title))

	rows := make([][]string, 0, len(sols))
	for i, s := range sols {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(s.Size()),
			supportString(s, name),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Size", "Reactions").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
			}
			if col == 2 {
				return styleValue.Padding(0, 1)
			}
			return styleNumber.Padding(0, 1)
		})
	fmt.Println(t.Render())
}

// enumerateWithSpinner runs the algorithm with a progress spinner when
// the logger is quiet enough not to fight over stderr.
func enumerateWithSpinner(ctx context.Context, logger *log.Logger, alg *kshortest.Algorithm, sys linsys.System, kind string) ([]*kshortest.Solution, error) {
	p := newProgress(logger)

	var spin *spinner
	if logger.GetLevel() > log.DebugLevel {
		spin = newSpinner(ctx, fmt.Sprintf("Enumerating %s...", kind))
		spin.start()
	}

	sols, err := alg.Enumerate(ctx, sys)

	if spin != nil {
		spin.stop()
	}
	switch {
	case err != nil:
		printError("Enumeration failed: %v", err)
	case len(sols) == 0:
		printSuccess("No %s found", kind)
	default:
		printSuccess("Found %d %s", len(sols), kind)
	}
	p.done(fmt.Sprintf("Enumerated %d %s", len(sols), kind))
	return sols, err
}
