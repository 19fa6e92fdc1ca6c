package export

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/spendwise/internal/export"
)

type Handler struct {
	svc *export.Service
	now func() time.Time
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.csv)
	r.Get("/summary", h.summary)
	r.Get("/archive", h.archive)
}

type summaryResponse struct {
	Count   int    `json:"count"`
	Summary string `json:"summary"`
}

// export runs the export into a fresh temp dir. The caller removes it.
func (h *Handler) export(w http.ResponseWriter, r *http.Request) (string, []export.Item, bool) {
	tmpDir, err := os.MkdirTemp("", "spendwise-export-*")
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return "", nil, false
	}

	items, err := h.svc.Export(r.Context(), tmpDir)
	if err != nil {
		_ = os.RemoveAll(tmpDir)

		slog.Error("failed to export expenses", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return "", nil, false
	}

	return tmpDir, items, true
}

func (h *Handler) csv(w http.ResponseWriter, r *http.Request) {
	tmpDir, _, ok := h.export(w, r)
	if !ok {
		return
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"expenses_%s.csv\"", h.now().Format("20060102")))

	http.ServeFile(w, r, filepath.Join(tmpDir, export.CSVName))
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	tmpDir, items, ok := h.export(w, r)
	if !ok {
		return
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(summaryResponse{
		Count:   len(items),
		Summary: h.svc.Summary(items),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// archive streams the CSV, every kept bill image and a summary.txt as a zip.
func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	tmpDir, items, ok := h.export(w, r)
	if !ok {
		return
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	if err := os.WriteFile(filepath.Join(tmpDir, "summary.txt"), []byte(h.svc.Summary(items)), 0o644); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"expenses_%s.zip\"", h.now().Format("20060102")))

	zipWriter := zip.NewWriter(w)
	defer func() { _ = zipWriter.Close() }()

	err := filepath.Walk(tmpDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		relPath, _ := filepath.Rel(tmpDir, path)

		zf, err := zipWriter.Create(relPath)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()

		_, err = io.Copy(zf, f)

		return err
	})
	if err != nil {
		slog.Error("failed to create zip", "error", err)
	}
}
