package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/spendwise/internal/http/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/http/attachment"
	"github.com/MrJamesThe3rd/spendwise/internal/http/expense"
	"github.com/MrJamesThe3rd/spendwise/internal/http/export"
	"github.com/MrJamesThe3rd/spendwise/internal/http/extract"
	"github.com/MrJamesThe3rd/spendwise/internal/http/importcsv"
	"github.com/MrJamesThe3rd/spendwise/internal/http/meta"
)

type Handlers struct {
	Expenses    *expense.Handler
	Export      *export.Handler
	Import      *importcsv.Handler
	Analytics   *analytics.Handler
	Extract     *extract.Handler
	Attachments *attachment.Handler
	Meta        *meta.Handler
}

func New(h Handlers, allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Group(h.Meta.Routes)

		r.Route("/expenses", func(r chi.Router) {
			r.Route("/export", h.Export.Routes)
			r.Route("/import", h.Import.Routes)
			h.Expenses.Routes(r)
		})

		r.Route("/analytics", h.Analytics.Routes)
		r.Route("/extract", h.Extract.Routes)
		r.Route("/attachments", h.Attachments.Routes)
	})

	return router
}
