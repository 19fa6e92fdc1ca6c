package importcsv

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendwise/internal/expense"
	"github.com/MrJamesThe3rd/spendwise/internal/export"
)

// MaxImportSize bounds the uploaded CSV.
const MaxImportSize = 10 << 20

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type importSuccessResponse struct {
	Imported int         `json:"imported"`
	IDs      []uuid.UUID `json:"ids"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxImportSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	es, err := h.svc.Import(r.Context(), file)
	if err != nil {
		if errors.Is(err, expense.ErrValidation) || errors.Is(err, expense.ErrInvalidAmount) ||
			errors.Is(err, export.ErrNoHeader) || isParseError(err) {
			http.Error(w, "invalid csv: "+err.Error(), http.StatusBadRequest)
			return
		}

		slog.Error("failed to import expenses", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := importSuccessResponse{Imported: len(es), IDs: make([]uuid.UUID, len(es))}
	for i, e := range es {
		resp.IDs[i] = e.ID
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func isParseError(err error) bool {
	var parseErr *export.ParseError
	return errors.As(err, &parseErr)
}
