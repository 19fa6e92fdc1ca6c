package analytics

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/expense"
	"github.com/MrJamesThe3rd/spendwise/internal/money"
)

type Handler struct {
	svc       *expense.Service
	formatter *money.Formatter
	now       func() time.Time
}

func NewHandler(svc *expense.Service, formatter *money.Formatter, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}

	return &Handler{svc: svc, formatter: formatter, now: now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.snapshot)
}

type amountDTO struct {
	Amount    string `json:"amount"`
	Formatted string `json:"formatted"`
}

type categoryDTO struct {
	amountDTO
	Category string `json:"category"`
	Icon     string `json:"icon"`
	Count    int    `json:"count"`
}

type pointDTO struct {
	amountDTO
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	Count int       `json:"count"`
}

type recentDTO struct {
	amountDTO
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Category string    `json:"category"`
	Icon     string    `json:"icon"`
	Date     time.Time `json:"date"`
}

type snapshotResponse struct {
	Total         amountDTO     `json:"total"`
	Weekly        amountDTO     `json:"weekly"`
	Monthly       amountDTO     `json:"monthly"`
	Average       amountDTO     `json:"average"`
	Count         int           `json:"count"`
	ByCategory    []categoryDTO `json:"by_category"`
	TopCategories []categoryDTO `json:"top_categories"`
	Daily         []pointDTO    `json:"daily"`
	MonthlySeries []pointDTO    `json:"monthly_series"`
	Recent        []recentDTO   `json:"recent"`
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.svc.List(r.Context())
	if err != nil {
		slog.Error("failed to list expenses", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	s := analytics.Compute(expenses, h.now())

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toResponse(s)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) amount(d decimal.Decimal) amountDTO {
	return amountDTO{Amount: money.Fixed(d), Formatted: h.formatter.Format(d)}
}

func (h *Handler) toResponse(s analytics.Snapshot) snapshotResponse {
	resp := snapshotResponse{
		Total:         h.amount(s.Total),
		Weekly:        h.amount(s.Weekly),
		Monthly:       h.amount(s.Monthly),
		Average:       h.amount(s.Average),
		Count:         s.Count,
		ByCategory:    h.categories(s.ByCategory),
		TopCategories: h.categories(s.TopCategories),
		Daily:         h.points(s.Daily),
		MonthlySeries: h.points(s.MonthlySeries),
		Recent:        make([]recentDTO, len(s.Recent)),
	}

	for i, e := range s.Recent {
		resp.Recent[i] = recentDTO{
			amountDTO: h.amount(e.Amount),
			ID:        e.ID.String(),
			Title:     e.Title,
			Category:  string(e.Category),
			Icon:      e.Icon,
			Date:      e.Date,
		}
	}

	return resp
}

func (h *Handler) categories(cts []analytics.CategoryTotal) []categoryDTO {
	out := make([]categoryDTO, len(cts))
	for i, ct := range cts {
		out[i] = categoryDTO{amountDTO: h.amount(ct.Amount), Category: string(ct.Category), Icon: ct.Icon, Count: ct.Count}
	}

	return out
}

func (h *Handler) points(ps []analytics.Point) []pointDTO {
	out := make([]pointDTO, len(ps))
	for i, p := range ps {
		out[i] = pointDTO{amountDTO: h.amount(p.Amount), Label: p.Label, Start: p.Start, Count: p.Count}
	}

	return out
}
