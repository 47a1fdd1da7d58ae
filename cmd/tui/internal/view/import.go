package view

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/vault/internal/importer"
	"github.com/MrJamesThe3rd/vault/internal/importer/statement"
	"github.com/MrJamesThe3rd/vault/internal/ledger"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateConflicts
	importStateResult
)

// ImportModel loads a bank statement file. Rows that look like transactions
// already recorded are listed so the user can pick which to keep anyway.
type ImportModel struct {
	CommonModel
	ledger        *ledger.Ledger
	txService     *transaction.Service
	importService *importer.Service

	state      importState
	filePicker filepicker.Model

	newParams    []transaction.CreateParams
	conflicts    []transaction.Conflict
	conflictList list.Model
	selected     map[int]bool

	status string
	err    error
}

func NewImportModel(l *ledger.Ledger, txSvc *transaction.Service, impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		ledger:        l,
		txService:     txSvc,
		importService: impSvc,
		filePicker:    fp,
		selected:      make(map[int]bool),
	}
}

func (m ImportModel) Title() string { return "Import Statement" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStateConflicts:
		return "space: toggle • a: all • n: none • enter: confirm • esc: cancel"
	case importStateResult:
		return "esc: import another file"
	}

	return "esc: back • enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		switch m.state {
		case importStateImporting:
			return m, nil
		case importStateConflicts:
			return m.updateConflicts(msg)
		case importStateResult:
			return m, nil
		}
	case importResultMsg:
		return m.handleImportResult(msg)
	case confirmResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d transactions.", msg.count)

		return m, refreshCmd(m.ledger)
	case refreshedMsg:
		if msg.err != nil {
			m.status += " (data may be outdated, press r in the dashboard to reload)"
		}

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleImportResult(msg importResultMsg) (tea.Model, tea.Cmd) {
	m.state = importStateResult

	switch {
	case errors.Is(msg.err, statement.ErrUnknownFormat):
		m.err = errors.New("unrecognized statement, export it as CSV from your bank and try again")
		return m, nil
	case msg.err != nil:
		m.err = msg.err
		return m, nil
	}

	if len(msg.result.Conflicts) == 0 {
		m.status = fmt.Sprintf("Imported %d transactions.", len(msg.result.Imported))
		return m, refreshCmd(m.ledger)
	}

	m.newParams = msg.result.New
	m.conflicts = msg.result.Conflicts
	m.selected = make(map[int]bool)
	m.state = importStateConflicts

	items := make([]list.Item, len(m.conflicts))
	for i, c := range m.conflicts {
		items[i] = conflictItem{conflict: c, index: i}
	}

	m.conflictList = list.New(items, conflictDelegate{selected: m.selected}, 80, 20)
	m.conflictList.Title = fmt.Sprintf("Possible duplicates (%d new rows will be imported)", len(m.newParams))
	m.conflictList.SetShowStatusBar(false)
	m.conflictList.SetFilteringEnabled(false)
	m.conflictList.SetShowHelp(false)

	return m, nil
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateResult, importStateConflicts:
		m.state = importStateFilePick
		m.conflicts = nil
		m.newParams = nil
		m.selected = make(map[int]bool)
		m.err = nil
		m.status = ""

		return m, m.filePicker.Init()
	case importStateImporting:
		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateConflicts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		idx := m.conflictList.Index()
		m.selected[idx] = !m.selected[idx]

		return m, nil
	case "a":
		for i := range m.conflicts {
			m.selected[i] = true
		}

		return m, nil
	case "n":
		clear(m.selected)
		return m, nil
	case "enter":
		m.state = importStateImporting
		m.status = "Saving..."

		return m, m.confirmCmd()
	}

	var cmd tea.Cmd
	m.conflictList, cmd = m.conflictList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Select a statement to import (fatura, extrato or digital CSV):\n\n" +
				m.filePicker.View() + "\n" + faint(m.ShortHelp()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateConflicts:
		return lipgloss.NewStyle().Padding(1).Render(
			m.conflictList.View() + "\n" + faint(m.ShortHelp()),
		)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	status := activeStyle(m.status)
	if m.err != nil {
		status = errorText(m.err)
	}

	return lipgloss.NewStyle().Padding(2).Render(status + "\n\n" + faint(m.ShortHelp()))
}

type importResultMsg struct {
	result *transaction.ImportResult
	err    error
}

type confirmResultMsg struct {
	count int
	err   error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	userID := m.ledger.UserID()

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		params, err := m.importService.Import(ctx, userID, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		result, err := m.txService.ImportBatch(ctx, userID, params)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{result: result}
	}
}

// confirmCmd writes the non-conflicting rows plus the conflicts the user kept.
func (m ImportModel) confirmCmd() tea.Cmd {
	userID := m.ledger.UserID()
	params := keptParams(m.newParams, m.conflicts, m.selected)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		txs, err := m.txService.CreateBatch(ctx, userID, params)
		if err != nil {
			return confirmResultMsg{err: err}
		}

		return confirmResultMsg{count: len(txs)}
	}
}

func keptParams(newParams []transaction.CreateParams, conflicts []transaction.Conflict, selected map[int]bool) []transaction.CreateParams {
	out := make([]transaction.CreateParams, 0, len(newParams)+len(selected))
	out = append(out, newParams...)

	for i, c := range conflicts {
		if selected[i] {
			out = append(out, c.Incoming)
		}
	}

	return out
}

type conflictItem struct {
	conflict transaction.Conflict
	index    int
}

func (i conflictItem) FilterValue() string { return i.conflict.Incoming.RawDescription }

type conflictDelegate struct {
	selected map[int]bool
}

func (d conflictDelegate) Height() int                             { return 3 }
func (d conflictDelegate) Spacing() int                            { return 0 }
func (d conflictDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d conflictDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(conflictItem)
	if !ok {
		return
	}

	checkbox := "[ ]"
	if d.selected[item.index] {
		checkbox = "[x]"
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	incoming := item.conflict.Incoming
	existing := item.conflict.Existing

	fmt.Fprintf(w, "%s%s %s  %s  %s\n      Recorded: %s  %s  %s [%s]\n",
		cursor, checkbox,
		FormatDate(incoming.Date),
		FormatAmount(incoming.Amount),
		incoming.RawDescription,
		FormatDate(existing.Date),
		FormatAmount(existing.Amount),
		existing.Description,
		existing.Category,
	)
}
