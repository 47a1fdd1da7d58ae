package view

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vault/internal/advisor"
	"github.com/MrJamesThe3rd/vault/internal/aggregate"
	"github.com/MrJamesThe3rd/vault/internal/goal"
	"github.com/MrJamesThe3rd/vault/internal/ledger"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

type goalsState int

const (
	goalsStateBrowse goalsState = iota
	goalsStateForm
)

type goalAction int

const (
	goalActionDeposit goalAction = iota
	goalActionWithdraw
	goalActionCreate
	goalActionDelete
)

// goalFormValues is shared by pointer so huh bindings survive model copies.
type goalFormValues struct {
	amount   string
	method   transaction.Method
	title    string
	target   string
	rate     string
	deadline string
	category goal.Category
	confirm  bool
}

type GoalsModel struct {
	CommonModel
	ledger  *ledger.Ledger
	advisor *advisor.Client

	state  goalsState
	action goalAction
	table  table.Model
	goals  []*goal.Goal
	form   *huh.Form
	values *goalFormValues
	target *goal.Goal

	busy            bool
	insightLoading  bool
	insight         *advisor.Insight
	insightGoal     string
	insightReceived bool
	status          string
	err             error
}

func NewGoalsModel(l *ledger.Ledger, a *advisor.Client) GoalsModel {
	t := newTable([]table.Column{
		{Title: "Goal", Width: 24},
		{Title: "Saved", Width: 16},
		{Title: "Target", Width: 16},
		{Title: "Progress", Width: 9},
		{Title: "Deadline", Width: 12},
		{Title: "Rate", Width: 7},
	})

	m := GoalsModel{ledger: l, advisor: a, table: t, values: &goalFormValues{}}
	m.refreshTable()

	return m
}

func (m GoalsModel) Title() string { return "Goals" }

func (m GoalsModel) ShortHelp() string {
	if m.state == goalsStateForm {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | d: deposit | w: withdraw | n: new | x: delete | i: AI insight | r: refresh"
}

func (m GoalsModel) Init() tea.Cmd {
	return refreshCmd(m.ledger)
}

func (m GoalsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshedMsg:
		m.busy = false
		m.err = msg.err
		m.refreshTable()

		return m, nil

	case writeDoneMsg:
		m.busy = false
		m.err = msg.err
		m.status = msg.status
		m.refreshTable()

		return m, nil

	case insightMsg:
		m.insightLoading = false
		m.insightReceived = true
		m.insight = msg.insight
		m.insightGoal = msg.title

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-14, 5))

		return m, nil
	}

	if m.busy {
		return m, nil
	}

	switch m.state {
	case goalsStateBrowse:
		return m.updateBrowse(msg)
	case goalsStateForm:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m GoalsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "q":
			return m, Back
		case "r":
			m.busy = true
			return m, refreshCmd(m.ledger)
		case "n":
			return m.openForm(goalActionCreate, nil)
		case "d":
			if g := m.selected(); g != nil {
				return m.openForm(goalActionDeposit, g)
			}
		case "w":
			if g := m.selected(); g != nil {
				return m.openForm(goalActionWithdraw, g)
			}
		case "x":
			if g := m.selected(); g != nil {
				return m.openForm(goalActionDelete, g)
			}
		case "i":
			if g := m.selected(); g != nil && !m.insightLoading {
				m.insightLoading = true
				m.insight = nil
				m.insightGoal = g.Title

				return m, m.insightCmd(g)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m GoalsModel) selected() *goal.Goal {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.goals) {
		return nil
	}

	return m.goals[idx]
}

func (m GoalsModel) openForm(action goalAction, g *goal.Goal) (tea.Model, tea.Cmd) {
	m.values = &goalFormValues{method: transaction.MethodPix, category: goal.CategoryTravel}
	m.action = action
	m.target = g

	switch action {
	case goalActionDeposit, goalActionWithdraw:
		m.form = huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Amount").
				Placeholder("150,00").
				Value(&m.values.amount).
				Validate(validateAmount),
			huh.NewSelect[transaction.Method]().
				Title("Method").
				Options(
					huh.NewOption("Pix", transaction.MethodPix),
					huh.NewOption("Transfer", transaction.MethodTransfer),
					huh.NewOption("Manual", transaction.MethodManual),
				).
				Value(&m.values.method),
		))
	case goalActionCreate:
		m.form = huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&m.values.title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Target amount").
				Placeholder("10000,00").
				Value(&m.values.target).
				Validate(validateAmount),
			huh.NewInput().
				Title("Annual interest rate (%)").
				Placeholder("10,5").
				Value(&m.values.rate).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}

					d, err := ParseAmount(s)
					if err != nil {
						return err
					}

					if d.IsNegative() {
						return errors.New("rate cannot be negative")
					}

					return nil
				}),
			huh.NewInput().
				Title("Deadline").
				Placeholder("YYYY-MM-DD").
				Value(&m.values.deadline).
				Validate(validateDate),
			huh.NewSelect[goal.Category]().
				Title("Category").
				Options(
					huh.NewOption("Travel", goal.CategoryTravel),
					huh.NewOption("Car", goal.CategoryCar),
					huh.NewOption("Home", goal.CategoryHome),
					huh.NewOption("Education", goal.CategoryEducation),
					huh.NewOption("Emergency fund", goal.CategoryEmergency),
					huh.NewOption("Leisure", goal.CategoryLeisure),
				).
				Value(&m.values.category),
		))
	case goalActionDelete:
		m.form = huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q? Its plans will stop running.", g.Title)).
				Affirmative("Delete").
				Negative("Keep").
				Value(&m.values.confirm),
		))
	}

	m.form = m.form.WithWidth(45).WithShowHelp(false)
	m.state = goalsStateForm
	m.status = ""
	m.table.Blur()

	return m, m.form.Init()
}

func (m GoalsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.closeForm(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	save := m.saveCmd()
	m = m.closeForm()

	if save == nil {
		return m, nil
	}

	m.busy = true

	return m, save
}

func (m GoalsModel) closeForm() GoalsModel {
	m.state = goalsStateBrowse
	m.form = nil
	m.table.Focus()

	return m
}

func (m GoalsModel) saveCmd() tea.Cmd {
	l := m.ledger
	v := *m.values
	g := m.target

	switch m.action {
	case goalActionDeposit, goalActionWithdraw:
		amount, _ := ParseAmount(v.amount)
		params := goal.MoveParams{GoalID: g.ID, Amount: amount, Method: v.method}

		if m.action == goalActionWithdraw {
			return writeCmd("Withdrawal saved.", func(ctx context.Context) error {
				_, err := l.Withdraw(ctx, params)
				return err
			})
		}

		return writeCmd("Deposit saved.", func(ctx context.Context) error {
			_, err := l.Deposit(ctx, params)
			return err
		})

	case goalActionCreate:
		target, _ := ParseAmount(v.target)

		rate := decimal.Zero
		if strings.TrimSpace(v.rate) != "" {
			rate, _ = ParseAmount(v.rate)
		}

		params := goal.CreateParams{
			Title:        v.title,
			TargetAmount: target,
			InterestRate: rate,
			Deadline:     parseDate(v.deadline),
			Category:     v.category,
		}

		return writeCmd("Goal created.", func(ctx context.Context) error {
			_, err := l.CreateGoal(ctx, params)
			return err
		})

	case goalActionDelete:
		if !v.confirm {
			return nil
		}

		return writeCmd("Goal deleted.", func(ctx context.Context) error {
			return l.DeleteGoal(ctx, g.ID)
		})
	}

	return nil
}

type insightMsg struct {
	title   string
	insight *advisor.Insight
}

func (m GoalsModel) insightCmd(g *goal.Goal) tea.Cmd {
	client := m.advisor
	balance := m.ledger.Snapshot().Balance()

	return func() tea.Msg {
		ctx, cancel := AdvisorCtx()
		defer cancel()

		return insightMsg{title: g.Title, insight: client.FinancialInsight(ctx, g, balance)}
	}
}

func (m *GoalsModel) refreshTable() {
	m.goals = aggregate.SortByDeadline(m.ledger.Snapshot().Goals)

	rows := make([]table.Row, 0, len(m.goals))
	for _, g := range m.goals {
		progress := "-"
		if p, err := aggregate.ProgressPercent(g); err == nil {
			progress = fmt.Sprintf("%d%%", p)
		}

		rows = append(rows, table.Row{
			g.Title,
			FormatAmount(g.CurrentAmount),
			FormatAmount(g.TargetAmount),
			progress,
			FormatDate(g.Deadline),
			g.InterestRate.StringFixed(1) + "%",
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m GoalsModel) View() string {
	content := boxed(m.table.View())

	if len(m.goals) == 0 {
		content = boxed(faint("No goals yet. Press n to create one."))
	}

	if m.state == goalsStateForm && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel(m.formTitle(), m.form.View()))
	} else if side := m.insightView(); side != "" {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, side)
	}

	var header []string

	switch {
	case m.busy:
		header = append(header, faint("Saving..."))
	case m.err != nil:
		header = append(header, errorText(m.err))
	case m.status != "":
		header = append(header, faint(m.status))
	}

	header = append(header, fmt.Sprintf("Available balance: %s", activeStyle(FormatAmount(m.ledger.Snapshot().Balance()))))

	return lipgloss.NewStyle().Padding(1).Render(
		strings.Join(header, "\n") + "\n\n" + content + "\n\n" + faint(m.ShortHelp()),
	)
}

func (m GoalsModel) formTitle() string {
	switch m.action {
	case goalActionDeposit:
		return "Deposit into " + m.target.Title
	case goalActionWithdraw:
		return fmt.Sprintf("Withdraw from %s (%s saved)", m.target.Title, FormatAmount(m.target.CurrentAmount))
	case goalActionDelete:
		return "Delete goal"
	}

	return "New goal"
}

func (m GoalsModel) insightView() string {
	switch {
	case m.insightLoading:
		return panel("AI insight: "+m.insightGoal, faint("Thinking..."))
	case !m.insightReceived:
		return ""
	case m.insight == nil:
		return panel("AI insight: "+m.insightGoal, faint("The advisor is unavailable right now. Try again later."))
	}

	var b strings.Builder

	b.WriteString(m.insight.Analysis + "\n\n")
	fmt.Fprintf(&b, "Suggested monthly deposit: %s\n\n", activeStyle(FormatAmount(m.insight.MonthlySuggestion)))

	for i, step := range m.insight.ActionSteps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}

	return panel("AI insight: "+m.insightGoal, strings.TrimRight(b.String(), "\n"))
}
