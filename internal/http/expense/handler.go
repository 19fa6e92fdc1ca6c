package expense

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendwise/internal/attachment"
	"github.com/MrJamesThe3rd/spendwise/internal/expense"
	"github.com/MrJamesThe3rd/spendwise/internal/listing"
	"github.com/MrJamesThe3rd/spendwise/internal/money"
)

// MaxUploadSize bounds multipart bodies carrying a bill image.
const MaxUploadSize = 10 << 20

type Handler struct {
	svc         *expense.Service
	attachments *attachment.Store
	formatter   *money.Formatter
}

func NewHandler(svc *expense.Service, attachments *attachment.Store, formatter *money.Formatter) *Handler {
	return &Handler{svc: svc, attachments: attachments, formatter: formatter}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}", h.update)
}

type createExpenseRequest struct {
	Title       string      `json:"title"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	form, image, err := h.decodeForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := h.svc.Add(r.Context(), form)
	if err != nil {
		// Nothing points at the upload now.
		if image != nil {
			h.attachments.Delete(image.ID)
		}

		writeServiceError(w, err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(e, h.formatter)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// decodeForm accepts either a JSON body or a multipart form whose optional "image" part is kept as an attachment.
// Only an upload sets the image URL, so every attachment belongs to exactly one expense.
func (h *Handler) decodeForm(r *http.Request) (expense.FormData, *attachment.Attachment, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req createExpenseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return expense.FormData{}, nil, err
		}

		return expense.FormData{
			Title:       req.Title,
			Amount:      req.Amount.String(),
			Description: req.Description,
			Category:    req.Category,
		}, nil, nil
	}

	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		return expense.FormData{}, nil, errors.New("failed to parse form: " + err.Error())
	}

	form := expense.FormData{
		Title:       r.FormValue("title"),
		Amount:      r.FormValue("amount"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
	}

	file, _, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return form, nil, nil
	}

	if err != nil {
		return expense.FormData{}, nil, errors.New("failed to read image: " + err.Error())
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return expense.FormData{}, nil, errors.New("failed to read image: " + err.Error())
	}

	a, err := h.attachments.Put(data)
	if err != nil {
		return expense.FormData{}, nil, err
	}

	form.ImageURL = a.URL()

	return form, a, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := listing.DefaultQuery()
	params := r.URL.Query()

	q.Search = params.Get("q")

	if c := params.Get("category"); c != "" {
		q.Category = c
	}

	var err error

	if q.SortBy, err = listing.ParseSortKey(params.Get("sort")); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if q.Order, err = listing.ParseOrder(params.Get("order")); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	all, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	filtered := listing.Apply(all, q)

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(listResponse{
		Expenses: toResponseList(filtered, h.formatter),
		Count:    len(filtered),
		Total:    len(all),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(e, h.formatter)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var imageURL string
	if e, err := h.svc.Get(r.Context(), id); err == nil {
		imageURL = e.ImageURL
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	// The bill image goes with its expense.
	if a, err := h.attachments.Resolve(imageURL); err == nil {
		h.attachments.Delete(a.ID)
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateExpenseRequest struct {
	Title       *string      `json:"title,omitempty"`
	Amount      *json.Number `json:"amount,omitempty"`
	Description *string      `json:"description,omitempty"`
	Category    *string      `json:"category,omitempty"`
	Date        *time.Time   `json:"date,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u := expense.Update{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
	}

	if req.Amount != nil {
		amount, err := money.Parse(req.Amount.String())
		if err != nil {
			http.Error(w, "invalid amount: "+err.Error(), http.StatusBadRequest)
			return
		}

		u.Amount = &amount
	}

	if req.Category != nil {
		u.Category = new(expense.ParseCategory(*req.Category))
	}

	if _, err := h.svc.Get(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.svc.Update(r.Context(), id, u); err != nil {
		writeServiceError(w, err)
		return
	}

	// It may have been deleted while the update was pending.
	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(e, h.formatter)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, expense.ErrNotFound):
		http.Error(w, "expense not found", http.StatusNotFound)
	case errors.Is(err, expense.ErrValidation), errors.Is(err, expense.ErrInvalidAmount):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, attachment.ErrNotImage):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("expense request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
