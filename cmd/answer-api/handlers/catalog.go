package handlers

import (
	"net/http"

	"github.com/printworks/answer-engine/internal/app"
	"github.com/printworks/answer-engine/internal/observability"
)

// CatalogHandler exposes catalog inspection endpoints.
type CatalogHandler struct {
	logger *observability.Logger
	engine *app.App
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(logger *observability.Logger, engine *app.App) *CatalogHandler {
	return &CatalogHandler{
		logger: logger,
		engine: engine,
	}
}

// CategoriesResponseDTO lists the catalog's categories.
type CategoriesResponseDTO struct {
	Categories []string `json:"categories"`
	Version    int64    `json:"version"`
}

// StatsResponseDTO reports entry counts per category.
type StatsResponseDTO struct {
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"byCategory"`
	Version    int64          `json:"version"`
}

// Categories handles GET /v1/catalog/categories.
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.Holder.Current()
	writeJSON(w, http.StatusOK, CategoriesResponseDTO{
		Categories: snap.Categories(),
		Version:    snap.Version(),
	})
}

// Stats handles GET /v1/catalog/stats.
func (h *CatalogHandler) Stats(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.Holder.Current()
	writeJSON(w, http.StatusOK, StatsResponseDTO{
		Total:      snap.Len(),
		ByCategory: snap.CountByCategory(),
		Version:    snap.Version(),
	})
}

// Reload handles POST /v1/catalog/reload. The swap is atomic; requests in
// flight keep their snapshot.
func (h *CatalogHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Reload(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("catalog reload failed")
		writeError(w, http.StatusInternalServerError, "reload failed")
		return
	}
	snap := h.engine.Holder.Current()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "reloaded",
		"entries": snap.Len(),
		"version": snap.Version(),
	})
}
