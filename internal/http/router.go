package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/vault/internal/auth"
	"github.com/MrJamesThe3rd/vault/internal/http/advisor"
	"github.com/MrJamesThe3rd/vault/internal/http/budget"
	"github.com/MrJamesThe3rd/vault/internal/http/category"
	"github.com/MrJamesThe3rd/vault/internal/http/dashboard"
	"github.com/MrJamesThe3rd/vault/internal/http/export"
	"github.com/MrJamesThe3rd/vault/internal/http/goal"
	"github.com/MrJamesThe3rd/vault/internal/http/importcsv"
	"github.com/MrJamesThe3rd/vault/internal/http/matching"
	"github.com/MrJamesThe3rd/vault/internal/http/plan"
	"github.com/MrJamesThe3rd/vault/internal/http/profile"
	"github.com/MrJamesThe3rd/vault/internal/http/transaction"
)

type Handlers struct {
	Profile      *profile.Handler
	Goals        *goal.Handler
	Transactions *transaction.Handler
	Import       *importcsv.Handler
	Categories   *category.Handler
	Matching     *matching.Handler
	Plans        *plan.Handler
	Budgets      *budget.Handler
	Dashboard    *dashboard.Handler
	Export       *export.Handler
	Advisor      *advisor.Handler
}

func New(tokens *auth.Tokens, allowedOrigins []string, v1 Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(tokens))

		r.Route("/me", v1.Profile.Routes)

		r.Route("/goals", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			v1.Goals.Routes(r)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			v1.Transactions.Routes(r)
		})

		r.Route("/import", v1.Import.Routes)

		r.Route("/categories", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			v1.Categories.Routes(r)
		})

		r.Route("/matching", v1.Matching.Routes)

		r.Route("/plans", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			v1.Plans.Routes(r)
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			v1.Budgets.Routes(r)
		})

		r.Route("/dashboard", v1.Dashboard.Routes)

		r.Route("/export", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			v1.Export.Routes(r)
		})

		r.Route("/advisor", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			v1.Advisor.Routes(r)
		})
	})

	return router
}
