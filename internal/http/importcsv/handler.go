package importcsv

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vault/internal/auth"
	"github.com/MrJamesThe3rd/vault/internal/http/respond"
	txhttp "github.com/MrJamesThe3rd/vault/internal/http/transaction"
	"github.com/MrJamesThe3rd/vault/internal/importer"
	"github.com/MrJamesThe3rd/vault/internal/importer/statement"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

const maxUploadBytes = 10 << 20

type Handler struct {
	importSvc *importer.Service
	txSvc     *transaction.Service
}

func NewHandler(importSvc *importer.Service, txSvc *transaction.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		txSvc:     txSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type importSuccessResponse struct {
	Imported     int               `json:"imported"`
	Transactions []txhttp.Response `json:"transactions"`
}

type createParamsDTO struct {
	Amount         decimal.Decimal    `json:"amount" validate:"gt=0"`
	Type           transaction.Type   `json:"type" validate:"required,oneof=income expense"`
	Category       string             `json:"category"`
	Description    string             `json:"description"`
	RawDescription string             `json:"raw_description"`
	Method         transaction.Method `json:"method"`
	Date           respond.Date       `json:"date" validate:"required"`
}

type conflictDTO struct {
	Incoming createParamsDTO `json:"incoming"`
	Existing txhttp.Response `json:"existing"`
}

type importConflictResponse struct {
	New       []createParamsDTO `json:"new"`
	Conflicts []conflictDTO     `json:"conflicts"`
}

type confirmRequest struct {
	Params []createParamsDTO `json:"params" validate:"required,min=1,dive"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	userID := auth.UserID(r.Context())

	params, err := h.importSvc.Import(r.Context(), userID, file)
	if err != nil {
		if errors.Is(err, statement.ErrUnknownFormat) {
			http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
			return
		}

		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	result, err := h.txSvc.ImportBatch(r.Context(), userID, params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]createParamsDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, p := range result.New {
			resp.New = append(resp.New, toParamsDTO(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toParamsDTO(c.Incoming),
				Existing: txhttp.NewResponse(c.Existing),
			})
		}

		respond.JSON(w, http.StatusConflict, resp)

		return
	}

	respond.JSON(w, http.StatusCreated, toSuccessResponse(result.Imported))
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	params := make([]transaction.CreateParams, 0, len(req.Params))
	for _, p := range req.Params {
		params = append(params, transaction.CreateParams{
			Amount:         p.Amount,
			Type:           p.Type,
			Category:       p.Category,
			Description:    p.Description,
			RawDescription: p.RawDescription,
			Method:         p.Method,
			Date:           p.Date.Time,
		})
	}

	txs, err := h.txSvc.CreateBatch(r.Context(), auth.UserID(r.Context()), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toSuccessResponse(txs))
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, transaction.ErrInvalidAmount),
		errors.Is(err, transaction.ErrInvalidType),
		errors.Is(err, transaction.ErrInvalidMethod),
		errors.Is(err, transaction.ErrInvalidDate),
		errors.Is(err, transaction.ErrGoalMovement):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		respond.Internal(w, r, err)
	}
}

func toSuccessResponse(txs []*transaction.Transaction) importSuccessResponse {
	return importSuccessResponse{
		Imported:     len(txs),
		Transactions: txhttp.NewResponseList(txs),
	}
}

func toParamsDTO(p transaction.CreateParams) createParamsDTO {
	return createParamsDTO{
		Amount:         p.Amount,
		Type:           p.Type,
		Category:       p.Category,
		Description:    p.Description,
		RawDescription: p.RawDescription,
		Method:         p.Method,
		Date:           respond.Date{Time: p.Date},
	}
}
