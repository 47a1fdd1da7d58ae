package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vault/internal/aggregate"
	"github.com/MrJamesThe3rd/vault/internal/budget"
	"github.com/MrJamesThe3rd/vault/internal/ledger"
)

const barWidth = 20

var budgetColors = map[budget.State]lipgloss.Color{
	budget.StateOK:        lipgloss.Color("42"),
	budget.StateNearLimit: lipgloss.Color("214"),
	budget.StateOverLimit: lipgloss.Color("196"),
}

type DashboardModel struct {
	CommonModel
	ledger *ledger.Ledger

	loading bool
	err     error
}

func NewDashboardModel(l *ledger.Ledger) DashboardModel {
	return DashboardModel{ledger: l, loading: true}
}

func (m DashboardModel) Title() string     { return "Dashboard" }
func (m DashboardModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m DashboardModel) Init() tea.Cmd {
	return refreshCmd(m.ledger)
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshedMsg:
		m.loading = false
		m.err = msg.err

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		switch msg.String() {
		case "esc", "q":
			return m, Back
		case "r":
			m.loading = true
			return m, refreshCmd(m.ledger)
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading dashboard...")
	}

	snap := m.ledger.Snapshot()

	summary, err := snap.Summary()
	if err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorText(err))
	}

	goals, err := aggregate.Project(snap.Goals, snap.AsOf)
	if err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorText(err))
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		boxed(totalsView(summary.Totals)),
		"",
		boxed(breakdownView(summary.Breakdown.SortedByAmount())),
	)

	right := lipgloss.JoinVertical(lipgloss.Left,
		boxed(goalsView(goals)),
		"",
		boxed(budgetsView(snap.Budgets)),
	)

	content := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)

	if m.err != nil {
		content = errorText(m.err) + "\n\n" + content
	}

	footer := faint(fmt.Sprintf("As of %s | %s", FormatDate(snap.AsOf), m.ShortHelp()))

	return lipgloss.NewStyle().Padding(1).Render(content + "\n\n" + footer)
}

func totalsView(t aggregate.Totals) string {
	rows := []struct {
		label  string
		amount decimal.Decimal
	}{
		{"Income", t.Income},
		{"Expenses", t.Expense},
		{"Invested", t.Invested},
		{"Available", t.Balance},
	}

	var b strings.Builder

	b.WriteString(activeStyle("Totals") + "\n\n")

	for _, r := range rows {
		fmt.Fprintf(&b, "%-10s %16s\n", r.label, FormatAmount(r.amount))
	}

	return strings.TrimRight(b.String(), "\n")
}

func breakdownView(b aggregate.Breakdown) string {
	var sb strings.Builder

	sb.WriteString(activeStyle("Expenses by category") + "\n\n")

	if len(b) == 0 {
		sb.WriteString(faint("No expenses yet."))
		return sb.String()
	}

	top := b[0].Amount

	for _, c := range b {
		fmt.Fprintf(&sb, "%-14s %s %s\n", truncate(c.Category, 14), bar(c.Amount, top), FormatAmount(c.Amount))
	}

	return strings.TrimRight(sb.String(), "\n")
}

func goalsView(goals []aggregate.GoalView) string {
	var b strings.Builder

	b.WriteString(activeStyle("Goals") + "\n\n")

	if len(goals) == 0 {
		b.WriteString(faint("No goals yet."))
		return b.String()
	}

	for _, g := range goals {
		fmt.Fprintf(&b, "%-18s %3d%% %s\n", truncate(g.Goal.Title, 18), g.Progress,
			bar(decimal.NewFromInt(int64(g.Progress)), decimal.NewFromInt(100)))
		fmt.Fprintf(&b, "  %s of %s, projected %s by %s\n",
			FormatAmount(g.Goal.CurrentAmount), FormatAmount(g.Goal.TargetAmount),
			FormatAmount(g.Projected), FormatDate(g.Goal.Deadline))
	}

	return strings.TrimRight(b.String(), "\n")
}

func budgetsView(statuses []budget.Status) string {
	var b strings.Builder

	b.WriteString(activeStyle("Budgets this month") + "\n\n")

	if len(statuses) == 0 {
		b.WriteString(faint("No budgets set."))
		return b.String()
	}

	for _, s := range statuses {
		pct := lipgloss.NewStyle().Foreground(budgetColors[s.State]).Render(s.Percentage.Truncate(0).String() + "%")
		fmt.Fprintf(&b, "%-14s %s of %s %s\n", truncate(s.Budget.Category, 14),
			FormatAmount(s.Spent), FormatAmount(s.Budget.LimitAmount), pct)
	}

	return strings.TrimRight(b.String(), "\n")
}

// bar draws value relative to full, capped at the full width.
func bar(value, full decimal.Decimal) string {
	n := 0
	if full.IsPositive() {
		n = int(value.Div(full).Mul(decimal.NewFromInt(barWidth)).IntPart())
	}

	n = min(max(n, 0), barWidth)

	return strings.Repeat("█", n) + strings.Repeat("░", barWidth-n)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}
