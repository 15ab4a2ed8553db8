package http

import (
	"log/slog"
	"net/http"

	"github.com/priyanshu73/theUniBay/internal/service"
	"github.com/priyanshu73/theUniBay/pkg/httputil"
)

// CatalogHandler handles HTTP requests for category and campus reference data.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{service: svc, logger: logger}
}

// ListCategories handles GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: categories})
}

// CategoryStats handles GET /api/v1/categories/stats
func (h *CatalogHandler) CategoryStats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.CategoryStats(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: counts})
}

// ListCampuses handles GET /api/v1/campuses
func (h *CatalogHandler) ListCampuses(w http.ResponseWriter, r *http.Request) {
	campuses, err := h.service.ListCampuses(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: campuses})
}
