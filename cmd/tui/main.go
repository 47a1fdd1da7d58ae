package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/vault/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/vault/internal/advisor"
	"github.com/MrJamesThe3rd/vault/internal/auth"
	"github.com/MrJamesThe3rd/vault/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/vault/internal/budget/store"
	"github.com/MrJamesThe3rd/vault/internal/category"
	categoryStore "github.com/MrJamesThe3rd/vault/internal/category/store"
	"github.com/MrJamesThe3rd/vault/internal/config"
	"github.com/MrJamesThe3rd/vault/internal/database"
	"github.com/MrJamesThe3rd/vault/internal/goal"
	goalStore "github.com/MrJamesThe3rd/vault/internal/goal/store"
	"github.com/MrJamesThe3rd/vault/internal/importer"
	"github.com/MrJamesThe3rd/vault/internal/ledger"
	"github.com/MrJamesThe3rd/vault/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/vault/internal/matching/store"
	"github.com/MrJamesThe3rd/vault/internal/plan"
	planStore "github.com/MrJamesThe3rd/vault/internal/plan/store"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
	txStore "github.com/MrJamesThe3rd/vault/internal/transaction/store"
)

var errNoUser = errors.New("set VAULT_USER_ID or VAULT_TOKEN")

type model struct {
	ledger     *ledger.Ledger
	advisor    *advisor.Client
	categories *category.Service
	matching   *matching.Service
	txService  *transaction.Service
	importer   *importer.Service

	currentView View
	width       int
	height      int

	dashboardView    view.DashboardModel
	goalsView        view.GoalsModel
	plansView        view.PlansModel
	transactionsView view.TransactionsModel
	advisorView      view.AdvisorModel
	importView       view.ImportModel
}

type View int

const (
	ViewMenu         View = 0
	ViewDashboard    View = 1
	ViewGoals        View = 2
	ViewPlans        View = 3
	ViewTransactions View = 4
	ViewAdvisor      View = 5
	ViewImport       View = 6
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	userID, token, err := session(cfg)
	if err != nil {
		slog.Error("failed to resolve user", "error", err)
		os.Exit(1)
	}

	var (
		categorySvc = category.NewService(categoryStore.New(db))
		txSvc       = transaction.NewService(txStore.New(db), categorySvc)
		goalSvc     = goal.NewService(goalStore.New(db), nil)
		planSvc     = plan.NewService(planStore.New(db), goalSvc)
		budgetSvc   = budget.NewService(budgetStore.New(db), categorySvc, txSvc)
		matchSvc    = matching.NewService(matchingStore.New(db))
	)

	l := ledger.New(userID, goalSvc, txSvc, planSvc, budgetSvc)
	client := advisor.NewClient(
		advisor.NewHTTPTransport(cfg.Client.APIURL+"/advisor", cfg.AI.Timeout),
		advisor.StaticSession(token),
	)

	return model{
		ledger:      l,
		advisor:     client,
		categories:  categorySvc,
		matching:    matchSvc,
		txService:   txSvc,
		importer:    importer.NewService(nil, matchSvc),
		currentView: ViewMenu,
	}
}

// session resolves the user the TUI acts for and the token sent to the advisor.
// Without VAULT_TOKEN a token is issued locally from the shared JWT secret.
func session(cfg *config.Config) (uuid.UUID, string, error) {
	tokens := auth.NewTokens(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	if cfg.Client.Token != "" && cfg.Auth.Secret != "" {
		claims, err := tokens.Parse(cfg.Client.Token)
		if err != nil {
			return uuid.Nil, "", fmt.Errorf("parsing VAULT_TOKEN: %w", err)
		}

		id, err := claims.UserID()
		if err != nil {
			return uuid.Nil, "", err
		}

		return id, cfg.Client.Token, nil
	}

	if cfg.Client.UserID == "" {
		return uuid.Nil, "", errNoUser
	}

	id, err := uuid.Parse(cfg.Client.UserID)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("parsing VAULT_USER_ID: %w", err)
	}

	if cfg.Client.Token != "" || cfg.Auth.Secret == "" {
		return id, cfg.Client.Token, nil
	}

	token, err := tokens.Issue(auth.Identity{UserID: id})
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("issuing token: %w", err)
	}

	return id, token, nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.ledger)

				return m, tea.Batch(m.dashboardView.Init(), m.resize())
			case "2":
				m.currentView = ViewGoals
				m.goalsView = view.NewGoalsModel(m.ledger, m.advisor)

				return m, tea.Batch(m.goalsView.Init(), m.resize())
			case "3":
				m.currentView = ViewPlans
				m.plansView = view.NewPlansModel(m.ledger)

				return m, tea.Batch(m.plansView.Init(), m.resize())
			case "4":
				m.currentView = ViewTransactions
				m.transactionsView = view.NewTransactionsModel(m.ledger, m.advisor, m.categories, m.matching)

				return m, tea.Batch(m.transactionsView.Init(), m.resize())
			case "5":
				m.currentView = ViewAdvisor
				m.advisorView = view.NewAdvisorModel(m.ledger, m.advisor)

				return m, tea.Batch(m.advisorView.Init(), m.resize())
			case "6":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.ledger, m.txService, m.importer)

				return m, tea.Batch(m.importView.Init(), m.resize())
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewGoals:
		var newModel tea.Model
		newModel, cmd = m.goalsView.Update(msg)
		m.goalsView = newModel.(view.GoalsModel)
	case ViewPlans:
		var newModel tea.Model
		newModel, cmd = m.plansView.Update(msg)
		m.plansView = newModel.(view.PlansModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	case ViewAdvisor:
		var newModel tea.Model
		newModel, cmd = m.advisorView.Update(msg)
		m.advisorView = newModel.(view.AdvisorModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	}

	return m, cmd
}

// resize replays the last known window size to a freshly opened view.
func (m model) resize() tea.Cmd {
	if m.width == 0 {
		return nil
	}

	size := tea.WindowSizeMsg{Width: m.width, Height: m.height}

	return func() tea.Msg { return size }
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Vault\n\n" +
				"1. Dashboard\n" +
				"2. Goals\n" +
				"3. Automatic Plans\n" +
				"4. Transactions\n" +
				"5. Advisor\n" +
				"6. Import Statement\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewGoals:
		return m.goalsView.View()
	case ViewPlans:
		return m.plansView.View()
	case ViewTransactions:
		return m.transactionsView.View()
	case ViewAdvisor:
		return m.advisorView.View()
	case ViewImport:
		return m.importView.View()
	}

	return "Unknown View"
}

func main() {
	m := initialModel()

	f, err := tea.LogToFile("vault-tui.log", "vault")
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	slog.SetDefault(slog.New(slog.NewTextHandler(f, nil)))

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
