package view

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/vault/internal/ledger"
)

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// refreshedMsg reports the end of a ledger reload.
type refreshedMsg struct {
	err error
}

func refreshCmd(l *ledger.Ledger) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return refreshedMsg{err: l.Refresh(ctx)}
	}
}

// writeDoneMsg reports the end of a single ledger write.
type writeDoneMsg struct {
	status string
	err    error
}

// writeCmd runs one write against the ledger. A write that succeeded but
// could not reload the snapshot is reported as saved with a warning.
func writeCmd(done string, write func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		err := write(ctx)

		switch {
		case err == nil:
			return writeDoneMsg{status: done}
		case errors.Is(err, ledger.ErrStale):
			return writeDoneMsg{status: fmt.Sprintf("%s (data may be outdated, press r to reload)", done)}
		}

		return writeDoneMsg{err: err}
	}
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func errorText(err error) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", err))
}

func faint(s string) string {
	return lipgloss.NewStyle().Faint(true).Render(s)
}

func panel(title, body string) string {
	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(48).
		Render(title + "\n\n" + body)
}

func boxed(s string) string {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(s)
}
