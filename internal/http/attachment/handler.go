package attachment

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendwise/internal/attachment"
)

type Handler struct {
	store *attachment.Store
}

func NewHandler(store *attachment.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{id}", h.get)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	a, err := h.store.Get(id)
	if err != nil {
		http.Error(w, "attachment not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", a.MIMEType)
	w.Header().Set("Cache-Control", "private, max-age=3600")

	http.ServeContent(w, r, id.String()+a.Extension(), a.CreatedAt, bytes.NewReader(a.Data))
}
