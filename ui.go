package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#42c767")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff6b6b")).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7571f9")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

func ok(format string, args ...any) string {
	return okStyle.Render("✓ " + fmt.Sprintf(format, args...))
}

func fail(format string, args ...any) string {
	return failStyle.Render("✗ " + fmt.Sprintf(format, args...))
}

// summaryTable renders two-column key/value rows.
func summaryTable(title string, rows [][2]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#7571f9"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("METRIC", "VALUE")
	for _, r := range rows {
		t.Row(r[0], r[1])
	}
	return headerStyle.Render(title) + "\n" + t.String()
}
