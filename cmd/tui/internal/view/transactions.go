package view

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/vault/internal/advisor"
	"github.com/MrJamesThe3rd/vault/internal/category"
	"github.com/MrJamesThe3rd/vault/internal/goal"
	"github.com/MrJamesThe3rd/vault/internal/ledger"
	"github.com/MrJamesThe3rd/vault/internal/matching"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

type txState int

const (
	txStateTimeframe txState = iota
	txStateList
	txStateDescribe
	txStateSuggesting
	txStateDetails
	txStateDelete
)

var (
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	movedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
)

// txItem wraps a transaction to implement list.Item.
type txItem struct {
	tx *transaction.Transaction
}

func (i txItem) Title() string {
	amount := FormatAmount(i.tx.Amount)

	switch {
	case i.tx.Type == transaction.TypeIncome:
		amount = incomeStyle.Render("+" + amount)
	case i.tx.Type == transaction.TypeExpense:
		amount = expenseStyle.Render("-" + amount)
	default:
		amount = movedStyle.Render(amount)
	}

	return fmt.Sprintf("%s  %s  %s", FormatDate(i.tx.Date), amount, i.label())
}

func (i txItem) Description() string {
	return fmt.Sprintf("%s · %s · %s", i.tx.Type, i.tx.Category, i.tx.Method)
}

func (i txItem) FilterValue() string {
	return i.label() + " " + i.tx.Category
}

func (i txItem) label() string {
	if i.tx.Description != "" {
		return i.tx.Description
	}

	return i.tx.RawDescription
}

// txFormValues is shared by pointer so huh bindings survive model copies.
type txFormValues struct {
	typ         transaction.Type
	description string
	method      transaction.Method
	amount      string
	category    string
	date        string
	confirm     bool
}

type TransactionsModel struct {
	CommonModel
	ledger     *ledger.Ledger
	advisor    *advisor.Client
	categories *category.Service
	matching   *matching.Service

	state           txState
	timeframePicker TimeframePicker
	dateRange       DateRange
	list            list.Model
	form            *huh.Form
	values          *txFormValues
	selectedTx      *transaction.Transaction
	suggestion      suggestionMsg

	busy   bool
	status string
	err    error
}

func NewTransactionsModel(l *ledger.Ledger, a *advisor.Client, categories *category.Service, matchSvc *matching.Service) TransactionsModel {
	lst := list.New([]list.Item{}, txItemDelegate{}, 0, 0)
	lst.Title = "Transactions"
	lst.SetShowStatusBar(true)
	lst.SetFilteringEnabled(true)
	lst.SetShowHelp(false)

	return TransactionsModel{
		ledger:          l,
		advisor:         a,
		categories:      categories,
		matching:        matchSvc,
		timeframePicker: NewTimeframePicker(goal.Today),
		list:            lst,
		values:          &txFormValues{},
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStateTimeframe:
		return "Esc: back | Enter: select"
	case txStateList:
		return "Esc: back | n: new | x: delete | t: timeframe | /: filter"
	case txStateSuggesting:
		return "Looking up a category..."
	}

	return "Esc: cancel | Enter/Tab: navigate form"
}

func (m TransactionsModel) Init() tea.Cmd {
	return refreshCmd(m.ledger)
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.dateRange = msg.Range
		m.state = txStateList
		m.refreshListItems()

		return m, nil

	case refreshedMsg:
		m.busy = false
		m.err = msg.err
		m.refreshListItems()

		return m, nil

	case writeDoneMsg:
		m.busy = false
		m.err = msg.err
		m.status = msg.status
		m.refreshListItems()

		return m, nil

	case suggestionMsg:
		if m.state != txStateSuggesting {
			return m, nil
		}

		m.suggestion = msg

		return m.openDetails()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)

		return m, nil
	}

	if m.busy {
		return m, nil
	}

	switch m.state {
	case txStateTimeframe:
		return m.updateTimeframe(msg)
	case txStateList:
		return m.updateList(msg)
	case txStateSuggesting:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			m.state = txStateList
		}

		return m, nil
	case txStateDescribe, txStateDetails, txStateDelete:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m TransactionsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "t":
			m.timeframePicker.Reset()
			m.state = txStateTimeframe

			return m, nil
		case "n":
			return m.openDescribe()
		case "x":
			return m.openDelete()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TransactionsModel) openDescribe() (tea.Model, tea.Cmd) {
	m.values = &txFormValues{
		typ:    transaction.TypeExpense,
		method: transaction.MethodPix,
		date:   FormatDate(goal.Today()),
	}

	m.form = huh.NewForm(huh.NewGroup(
		huh.NewSelect[transaction.Type]().
			Title("Type").
			Options(
				huh.NewOption("Expense", transaction.TypeExpense),
				huh.NewOption("Income", transaction.TypeIncome),
			).
			Value(&m.values.typ),
		huh.NewInput().
			Title("Description").
			Placeholder("Supermercado").
			Value(&m.values.description).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("description cannot be empty")
				}
				return nil
			}),
		huh.NewSelect[transaction.Method]().
			Title("Method").
			Options(
				huh.NewOption("Pix", transaction.MethodPix),
				huh.NewOption("Card", transaction.MethodCard),
				huh.NewOption("Transfer", transaction.MethodTransfer),
				huh.NewOption("Manual", transaction.MethodManual),
			).
			Value(&m.values.method),
	)).WithWidth(50).WithShowHelp(false)

	m.state = txStateDescribe
	m.status = ""

	return m, m.form.Init()
}

func (m TransactionsModel) openDetails() (tea.Model, tea.Cmd) {
	names := m.suggestion.names
	if len(names) == 0 {
		names = category.Defaults(category.Kind(m.values.typ))
	}

	m.values.category = names[0]
	if m.suggestion.category != "" && slices.Contains(names, m.suggestion.category) {
		m.values.category = m.suggestion.category
	}

	options := make([]huh.Option[string], 0, len(names))
	for _, n := range names {
		options = append(options, huh.NewOption(n, n))
	}

	m.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Amount").
			Placeholder("89,90").
			Value(&m.values.amount).
			Validate(validateAmount),
		huh.NewSelect[string]().
			Title("Category").
			Options(options...).
			Value(&m.values.category),
		huh.NewInput().
			Title("Date").
			Placeholder("YYYY-MM-DD").
			Value(&m.values.date).
			Validate(validateDate),
	)).WithWidth(50).WithShowHelp(false)

	m.state = txStateDetails

	return m, m.form.Init()
}

func (m TransactionsModel) openDelete() (tea.Model, tea.Cmd) {
	selected, ok := m.list.SelectedItem().(txItem)
	if !ok {
		return m, nil
	}

	if selected.tx.Type.IsGoalMovement() {
		m.status = "Goal movements are managed from the Goals screen."
		return m, nil
	}

	m.selectedTx = selected.tx
	m.values = &txFormValues{}
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q?", selected.label())).
			Affirmative("Delete").
			Negative("Keep").
			Value(&m.values.confirm),
	)).WithWidth(50).WithShowHelp(false)

	m.state = txStateDelete
	m.status = ""

	return m, m.form.Init()
}

func (m TransactionsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = txStateList
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	state := m.state
	m.form = nil
	m.state = txStateList

	switch state {
	case txStateDescribe:
		m.state = txStateSuggesting
		m.suggestion = suggestionMsg{}

		return m, m.suggestCmd()

	case txStateDetails:
		m.busy = true
		return m, m.saveTxCmd()

	case txStateDelete:
		if !m.values.confirm {
			return m, nil
		}

		l := m.ledger
		id := m.selectedTx.ID
		m.busy = true

		return m, writeCmd("Transaction deleted.", func(ctx context.Context) error {
			return l.DeleteTransaction(ctx, id)
		})
	}

	return m, nil
}

func (m TransactionsModel) View() string {
	switch m.state {
	case txStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case txStateSuggesting:
		return lipgloss.NewStyle().Padding(1).Render(
			panel("New transaction", fmt.Sprintf("%s\n\n%s", m.values.description, faint("Suggesting a category..."))),
		)

	case txStateDescribe, txStateDetails, txStateDelete:
		if m.form == nil {
			return ""
		}

		title := "New transaction"
		if m.state == txStateDelete {
			title = "Delete transaction"
		}

		body := m.form.View()
		if m.state == txStateDetails {
			body = m.suggestionView() + "\n\n" + body
		}

		return lipgloss.NewStyle().Padding(1).Render(panel(title, body))
	}

	var header string

	switch {
	case m.busy:
		header = faint("Saving...")
	case m.err != nil:
		header = errorText(m.err)
	case m.status != "":
		header = faint(m.status)
	default:
		header = "Timeframe: " + activeStyle(m.dateRange.String())
	}

	return lipgloss.NewStyle().Padding(1).Render(header + "\n" + m.list.View() + "\n" + faint(m.ShortHelp()))
}

func (m TransactionsModel) suggestionView() string {
	s := m.values.description

	switch m.suggestion.source {
	case sourceRule:
		s += "\n" + faint("Category from a learned rule: "+m.suggestion.category)
	case sourceAdvisor:
		s += "\n" + faint("Category suggested by the advisor: "+m.suggestion.category)
	}

	return s
}

func (m *TransactionsModel) refreshListItems() {
	txs := m.ledger.Snapshot().Transactions

	items := make([]list.Item, 0, len(txs))
	for _, tx := range txs {
		if m.dateRange.Contains(tx.Date) {
			items = append(items, txItem{tx: tx})
		}
	}

	m.list.SetItems(items)
}

// Messages

type suggestionSource int

const (
	sourceNone suggestionSource = iota
	sourceRule
	sourceAdvisor
)

type suggestionMsg struct {
	names    []string
	category string
	source   suggestionSource
}

// suggestCmd loads the allowed categories and picks a default: a learned
// rule wins over the advisor.
func (m TransactionsModel) suggestCmd() tea.Cmd {
	userID := m.ledger.UserID()
	typ := m.values.typ
	description := m.values.description
	categories := m.categories
	matchSvc := m.matching
	client := m.advisor

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var out suggestionMsg

		if all, err := categories.List(ctx, userID); err == nil {
			for _, c := range all {
				if string(c.Kind) == string(typ) {
					out.names = append(out.names, c.Name)
				}
			}
		}

		if match, err := matchSvc.Suggest(ctx, userID, description); err == nil && match != nil && match.Category != "" {
			out.category = match.Category
			out.source = sourceRule

			return out
		}

		actx, acancel := AdvisorCtx()
		defer acancel()

		if s := client.CategorizeTransaction(actx, description, typ); s.Category != "" {
			out.category = s.Category
			out.source = sourceAdvisor
		}

		return out
	}
}

func (m TransactionsModel) saveTxCmd() tea.Cmd {
	l := m.ledger
	v := *m.values
	amount, _ := ParseAmount(v.amount)

	params := transaction.CreateParams{
		Amount:      amount,
		Type:        v.typ,
		Category:    v.category,
		Description: strings.TrimSpace(v.description),
		Method:      v.method,
		Date:        parseDate(v.date),
	}

	return writeCmd("Transaction saved.", func(ctx context.Context) error {
		_, err := l.CreateTransaction(ctx, params)
		return err
	})
}

// txItemDelegate renders items in the list.
type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 2 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> ") + title
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", faint(i.Description()))
}
