package extract

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/spendwise/internal/bill"
	"github.com/MrJamesThe3rd/spendwise/internal/extraction"
)

// MaxImageSize bounds the uploaded bill image.
const MaxImageSize = 10 << 20

type Handler struct {
	svc *extraction.Service
}

func NewHandler(svc *extraction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.extract)
}

func (h *Handler) extract(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxImageSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image field is required", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read image: "+err.Error(), http.StatusBadRequest)
		return
	}

	img := bill.Image{Data: data, MIMEType: header.Header.Get("Content-Type")}
	if img.MIMEType == "application/octet-stream" {
		img.MIMEType = ""
	}

	fields, err := h.svc.Extract(r.Context(), img)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(fields); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, bill.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, bill.ErrUnsupportedImage):
		return http.StatusBadRequest
	case errors.Is(err, bill.ErrMalformedResponse):
		return http.StatusUnprocessableEntity
	case errors.Is(err, bill.ErrProvider), errors.Is(err, bill.ErrEmptyResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
