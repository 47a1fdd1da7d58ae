package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/vault/internal/advisor"
	"github.com/MrJamesThe3rd/vault/internal/ledger"
)

const maxExchanges = 6

var riskColors = map[advisor.RiskLevel]lipgloss.Color{
	advisor.RiskLow:    lipgloss.Color("42"),
	advisor.RiskMedium: lipgloss.Color("214"),
	advisor.RiskHigh:   lipgloss.Color("196"),
}

type exchange struct {
	question string
	answer   string
}

type AdvisorModel struct {
	CommonModel
	ledger *ledger.Ledger
	client *advisor.Client

	input   textinput.Model
	history []exchange

	chatBusy     bool
	overviewBusy bool
	overview     *advisor.Overview
}

func NewAdvisorModel(l *ledger.Ledger, c *advisor.Client) AdvisorModel {
	ti := textinput.New()
	ti.Placeholder = "Ask about your savings..."
	ti.CharLimit = 500
	ti.Width = 60
	ti.Prompt = "> "
	ti.Focus()

	return AdvisorModel{ledger: l, client: c, input: ti}
}

func (m AdvisorModel) Title() string     { return "Advisor" }
func (m AdvisorModel) ShortHelp() string { return "Enter: send | ctrl+o: overview | Esc: back" }

func (m AdvisorModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m AdvisorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case chatReplyMsg:
		m.chatBusy = false
		m.history = append(m.history, exchange{question: msg.question, answer: msg.answer})

		if len(m.history) > maxExchanges {
			m.history = m.history[len(m.history)-maxExchanges:]
		}

		return m, nil

	case overviewMsg:
		m.overviewBusy = false
		m.overview = &msg.overview

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.input.Width = max(msg.Width/2-6, 20)

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "ctrl+o":
			if m.overviewBusy {
				return m, nil
			}

			m.overviewBusy = true

			return m, m.overviewCmd()
		case "enter":
			question := strings.TrimSpace(m.input.Value())
			if question == "" || m.chatBusy {
				return m, nil
			}

			m.chatBusy = true
			m.input.SetValue("")

			return m, m.chatCmd(question)
		}
	}

	if m.chatBusy {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m AdvisorModel) View() string {
	var chat strings.Builder

	chat.WriteString(activeStyle("Chat") + "\n\n")

	if len(m.history) == 0 && !m.chatBusy {
		chat.WriteString(faint("Ask anything about your goals, spending or investments.") + "\n")
	}

	for _, e := range m.history {
		fmt.Fprintf(&chat, "%s %s\n\n%s\n\n", activeStyle("You:"), e.question, e.answer)
	}

	if m.chatBusy {
		chat.WriteString(faint("Advisor is typing...") + "\n\n")
	}

	chat.WriteString(m.input.View())

	left := lipgloss.NewStyle().Width(max(m.Width/2, 50)).Render(chat.String())

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", m.overviewView()) + "\n\n" + faint(m.ShortHelp()),
	)
}

func (m AdvisorModel) overviewView() string {
	switch {
	case m.overviewBusy:
		return panel("Overview", faint("Gathering recommendations, cash flow and subscriptions..."))
	case m.overview == nil:
		return panel("Overview", faint("Press ctrl+o to analyse your finances."))
	}

	var b strings.Builder

	b.WriteString(activeStyle("Where to invest") + "\n")

	if len(m.overview.Recommendations) == 0 {
		b.WriteString(faint("No recommendations available.") + "\n")
	}

	for _, r := range m.overview.Recommendations {
		fmt.Fprintf(&b, "• %s (%s, %s)\n  %s\n", r.Product, r.Yield, r.Liquidity, r.Reasoning)
	}

	b.WriteString("\n" + activeStyle("End of month") + "\n")

	if cf := m.overview.CashFlow; cf != nil {
		risk := lipgloss.NewStyle().Foreground(riskColors[cf.RiskLevel]).Render(string(cf.RiskLevel))
		fmt.Fprintf(&b, "Predicted balance %s, risk %s\n", FormatAmount(cf.PredictedBalance), risk)

		if cf.Alert != "" {
			b.WriteString(cf.Alert + "\n")
		}
	} else {
		b.WriteString(faint("Not enough transactions for a forecast.") + "\n")
	}

	b.WriteString("\n" + activeStyle("Subscriptions") + "\n")

	if len(m.overview.Subscriptions) == 0 {
		b.WriteString(faint("None detected.") + "\n")
	}

	for _, s := range m.overview.Subscriptions {
		fmt.Fprintf(&b, "• %s %s/%s\n", s.Name, FormatAmount(s.Amount), s.Frequency)

		if s.Tip != "" {
			b.WriteString("  " + faint(s.Tip) + "\n")
		}
	}

	return panel("Overview", strings.TrimRight(b.String(), "\n"))
}

// Messages

type chatReplyMsg struct {
	question string
	answer   string
}

func (m AdvisorModel) chatCmd(question string) tea.Cmd {
	client := m.client
	chatCtx := chatContext(m.ledger.Snapshot())

	return func() tea.Msg {
		ctx, cancel := AdvisorCtx()
		defer cancel()

		return chatReplyMsg{question: question, answer: client.Chat(ctx, question, chatCtx)}
	}
}

// chatContext summarises the snapshot sent along with every chat message.
func chatContext(snap *ledger.Snapshot) advisor.ChatContext {
	out := advisor.ChatContext{Balance: snap.Balance()}

	if summary, err := snap.Summary(); err == nil {
		out.Income = summary.Totals.Income
		out.Expense = summary.Totals.Expense
	}

	for _, g := range snap.Goals {
		out.Goals = append(out.Goals, advisor.NewGoalContext(g))
	}

	return out
}

type overviewMsg struct {
	overview advisor.Overview
}

func (m AdvisorModel) overviewCmd() tea.Cmd {
	client := m.client
	snap := m.ledger.Snapshot()

	return func() tea.Msg {
		ctx, cancel := AdvisorCtx()
		defer cancel()

		return overviewMsg{overview: client.Overview(ctx, snap.Goals, snap.Transactions, snap.Balance())}
	}
}
