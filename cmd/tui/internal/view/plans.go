package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/vault/internal/ledger"
	"github.com/MrJamesThe3rd/vault/internal/plan"
)

type plansState int

const (
	plansStateBrowse plansState = iota
	plansStateCreate
	plansStateDelete
)

type planFormValues struct {
	planID    uuid.UUID
	goalID    uuid.UUID
	amount    string
	frequency plan.Frequency
	confirm   bool
}

type PlansModel struct {
	CommonModel
	ledger *ledger.Ledger

	state  plansState
	table  table.Model
	plans  []*plan.Plan
	form   *huh.Form
	values *planFormValues

	busy   bool
	status string
	err    error
}

func NewPlansModel(l *ledger.Ledger) PlansModel {
	t := newTable([]table.Column{
		{Title: "Goal", Width: 24},
		{Title: "Amount", Width: 16},
		{Title: "Every", Width: 9},
		{Title: "Next run", Width: 12},
		{Title: "Status", Width: 14},
	})

	m := PlansModel{ledger: l, table: t, values: &planFormValues{}}
	m.refreshTable()

	return m
}

func (m PlansModel) Title() string { return "Automatic plans" }

func (m PlansModel) ShortHelp() string {
	if m.state != plansStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | space: pause/resume | n: new | x: delete | r: refresh"
}

func (m PlansModel) Init() tea.Cmd {
	return refreshCmd(m.ledger)
}

func (m PlansModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-12, 5))

		return m, nil
	}

	if m.busy {
		return m, nil
	}

	if m.state != plansStateBrowse {
		return m.updateForm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "q":
			return m, Back
		case "r":
			m.busy = true
			return m, refreshCmd(m.ledger)
		case " ", "t":
			if p := m.selected(); p != nil {
				return m.toggle(p)
			}
		case "n":
			return m.openCreate()
		case "x":
			if p := m.selected(); p != nil {
				return m.openDelete(p)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m PlansModel) selected() *plan.Plan {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.plans) {
		return nil
	}

	return m.plans[idx]
}

func (m PlansModel) toggle(p *plan.Plan) (tea.Model, tea.Cmd) {
	if p.Orphaned {
		m.status = "This plan's goal was deleted. Delete the plan instead."
		return m, nil
	}

	l := m.ledger
	active := !p.Active

	done := "Plan paused."
	if active {
		done = "Plan resumed."
	}

	m.busy = true
	m.status = ""

	return m, writeCmd(done, func(ctx context.Context) error {
		return l.TogglePlan(ctx, p.ID, active)
	})
}

func (m PlansModel) openCreate() (tea.Model, tea.Cmd) {
	goals := m.ledger.Snapshot().Goals
	if len(goals) == 0 {
		m.status = "Create a goal first."
		return m, nil
	}

	options := make([]huh.Option[uuid.UUID], 0, len(goals))
	for _, g := range goals {
		options = append(options, huh.NewOption(g.Title, g.ID))
	}

	m.values = &planFormValues{goalID: goals[0].ID, frequency: plan.FrequencyMonthly}
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewSelect[uuid.UUID]().
			Title("Goal").
			Options(options...).
			Value(&m.values.goalID),
		huh.NewInput().
			Title("Amount").
			Placeholder("200,00").
			Value(&m.values.amount).
			Validate(validateAmount),
		huh.NewSelect[plan.Frequency]().
			Title("Frequency").
			Options(
				huh.NewOption("Daily", plan.FrequencyDaily),
				huh.NewOption("Weekly", plan.FrequencyWeekly),
				huh.NewOption("Monthly (every 30 days)", plan.FrequencyMonthly),
			).
			Value(&m.values.frequency),
	)).WithWidth(45).WithShowHelp(false)

	m.state = plansStateCreate
	m.status = ""
	m.table.Blur()

	return m, m.form.Init()
}

func (m PlansModel) openDelete(p *plan.Plan) (tea.Model, tea.Cmd) {
	m.values = &planFormValues{planID: p.ID}
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Delete this plan?").
			Affirmative("Delete").
			Negative("Keep").
			Value(&m.values.confirm),
	)).WithWidth(45).WithShowHelp(false)

	m.state = plansStateDelete
	m.status = ""
	m.table.Blur()

	return m, m.form.Init()
}

func (m PlansModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
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

	l := m.ledger
	v := *m.values
	state := m.state
	m = m.closeForm()

	switch state {
	case plansStateCreate:
		amount, _ := ParseAmount(v.amount)
		params := plan.CreateParams{GoalID: v.goalID, Amount: amount, Frequency: v.frequency}
		m.busy = true

		return m, writeCmd("Plan created.", func(ctx context.Context) error {
			_, err := l.CreatePlan(ctx, params)
			return err
		})

	case plansStateDelete:
		if !v.confirm {
			return m, nil
		}

		m.busy = true

		return m, writeCmd("Plan deleted.", func(ctx context.Context) error {
			return l.DeletePlan(ctx, v.planID)
		})
	}

	return m, nil
}

func (m PlansModel) closeForm() PlansModel {
	m.state = plansStateBrowse
	m.form = nil
	m.table.Focus()

	return m
}

func (m *PlansModel) refreshTable() {
	snap := m.ledger.Snapshot()
	m.plans = snap.Plans

	rows := make([]table.Row, 0, len(m.plans))
	for _, p := range m.plans {
		title := "(deleted goal)"
		if g := snap.Goal(p.GoalID); g != nil {
			title = g.Title
		}

		rows = append(rows, table.Row{
			title,
			FormatAmount(p.Amount),
			string(p.Frequency),
			FormatDate(p.NextExecution),
			planStatus(p),
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func planStatus(p *plan.Plan) string {
	switch {
	case p.Orphaned:
		return "orphaned"
	case p.Active:
		return "active"
	}

	return "paused"
}

func (m PlansModel) View() string {
	content := boxed(m.table.View())

	if len(m.plans) == 0 {
		content = boxed(faint("No plans yet. Press n to schedule a recurring deposit."))
	}

	if m.form != nil {
		title := "New plan"
		if m.state == plansStateDelete {
			title = "Delete plan"
		}

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel(title, m.form.View()))
	}

	var header string

	switch {
	case m.busy:
		header = faint("Saving...")
	case m.err != nil:
		header = errorText(m.err)
	case m.status != "":
		header = faint(m.status)
	}

	var b strings.Builder
	if header != "" {
		b.WriteString(header + "\n\n")
	}

	b.WriteString(content)
	fmt.Fprintf(&b, "\n\n%s", faint(m.ShortHelp()))

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}
