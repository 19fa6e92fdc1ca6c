// Package meta serves the category vocabulary and process status.
package meta

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/spendwise/internal/expense"
)

type Handler struct {
	expenses *expense.Service
	provider string
}

func NewHandler(expenses *expense.Service, provider string) *Handler {
	return &Handler{expenses: expenses, provider: provider}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/categories", h.categories)
	r.Get("/status", h.status)
}

type categoryResponse struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type statusResponse struct {
	Busy     bool   `json:"busy"`
	Provider string `json:"provider"`
}

func (h *Handler) categories(w http.ResponseWriter, _ *http.Request) {
	resp := make([]categoryResponse, len(expense.Categories))
	for i, c := range expense.Categories {
		resp[i] = categoryResponse{Name: string(c), Icon: c.Icon()}
	}

	writeJSON(w, resp)
}

func (h *Handler) status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, statusResponse{Busy: h.expenses.Busy(), Provider: h.provider})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
