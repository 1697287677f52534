package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/elemflux/elemflux/pkg/kshortest"
)

var (
	browseSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	browseNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
)

// solutionBrowser is the bubbletea model for scrolling through
// enumerated solutions.
type solutionBrowser struct {
	kind   string
	sols   []*kshortest.Solution
	name   func(int) string
	cursor int
	height int
	offset int
}

func newSolutionBrowser(kind string, sols []*kshortest.Solution, name func(int) string) solutionBrowser {
	return solutionBrowser{
		kind:   kind,
		sols:   sols,
		name:   name,
		height: 15,
	}
}

func (m solutionBrowser) Init() tea.Cmd {
	return nil
}

func (m solutionBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.sols)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m solutionBrowser) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render(fmt.Sprintf("Browse %s", m.kind)))
	b.WriteString("\n")
	b.WriteString(styleDim.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.sols) {
		end = len(m.sols)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			strconv.Itoa(i + 1),
			strconv.Itoa(m.sols[i].Size()),
			supportString(m.sols[i], m.name),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Size", "Reactions").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
			}
			if row+m.offset == m.cursor {
				return browseSelectedStyle.Padding(0, 1)
			}
			return browseNormalStyle.Padding(0, 1)
		})
	b.WriteString(t.Render())
	b.WriteString("\n")

	b.WriteString(styleDim.Render(fmt.Sprintf("%d of %d", m.cursor+1, len(m.sols))))
	return b.String()
}

// browseSolutions runs the interactive browser over the enumerated
// solutions.
func browseSolutions(kind string, sols []*kshortest.Solution, name func(int) string) error {
	p := tea.NewProgram(newSolutionBrowser(kind, sols, name))
	_, err := p.Run()
	return err
}
