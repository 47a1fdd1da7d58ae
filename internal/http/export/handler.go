package export

import (
	"archive/zip"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/vault/internal/auth"
	"github.com/MrJamesThe3rd/vault/internal/export"
	"github.com/MrJamesThe3rd/vault/internal/http/respond"
	txhttp "github.com/MrJamesThe3rd/vault/internal/http/transaction"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
}

type exportRequest struct {
	StartDate *respond.Date `json:"start_date,omitempty"`
	EndDate   *respond.Date `json:"end_date,omitempty"`
}

func (req exportRequest) filter() transaction.ListFilter {
	var f transaction.ListFilter

	if req.StartDate != nil && !req.StartDate.IsZero() {
		f.StartDate = &req.StartDate.Time
	}

	if req.EndDate != nil && !req.EndDate.IsZero() {
		f.EndDate = &req.EndDate.Time
	}

	return f
}

type itemResponse struct {
	txhttp.Response
	GoalTitle string `json:"goal_title,omitempty"`
}

type exportMetadataResponse struct {
	Transactions []itemResponse `json:"transactions"`
	Summary      string         `json:"summary"`
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) ([]export.Item, string, bool) {
	var req exportRequest
	if !respond.Decode(w, r, &req) {
		return nil, "", false
	}

	f := req.filter()
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		http.Error(w, "end_date is before start_date", http.StatusBadRequest)
		return nil, "", false
	}

	items, err := h.svc.Export(r.Context(), auth.UserID(r.Context()), f)
	if err != nil {
		respond.Internal(w, r, err)
		return nil, "", false
	}

	summary, err := export.Summary(items)
	if err != nil {
		respond.Internal(w, r, err)
		return nil, "", false
	}

	return items, summary, true
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	items, summary, ok := h.export(w, r)
	if !ok {
		return
	}

	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, itemResponse{Response: txhttp.NewResponse(item.Transaction), GoalTitle: item.GoalTitle})
	}

	respond.JSON(w, http.StatusOK, exportMetadataResponse{Transactions: out, Summary: summary})
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	items, summary, ok := h.export(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"extrato_%s.zip\"", time.Now().Format("20060102")))

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	csvFile, err := zipWriter.Create("extrato.csv")
	if err == nil {
		err = export.WriteCSV(csvFile, items)
	}

	if err != nil {
		slog.Error("failed to create zip", "error", err)
		return
	}

	summaryFile, err := zipWriter.Create("resumo.txt")
	if err == nil {
		_, err = summaryFile.Write([]byte(summary))
	}

	if err != nil {
		slog.Error("failed to create zip", "error", err)
	}
}
