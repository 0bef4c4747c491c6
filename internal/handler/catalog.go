package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-club/internal/model"
	"github.com/iliyamo/movie-club/internal/repository"
)

// CatalogHandler manages the shared filter labels: categories and
// streaming services. Reads are public (and cached); writes sit
// behind the MAINTAINER role.
type CatalogHandler struct {
	CategoryRepo *repository.CategoryRepo
	ServiceRepo  *repository.StreamingServiceRepo
}

// NewCatalogHandler constructs a CatalogHandler and panics if any
// dependency is nil.
func NewCatalogHandler(categories *repository.CategoryRepo, services *repository.StreamingServiceRepo) *CatalogHandler {
	if categories == nil || services == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{CategoryRepo: categories, ServiceRepo: services}
}

type nameReq struct {
	Name string `json:"name"`
}

// ListCategories handles GET /v1/categories.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	cats, err := h.CategoryRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]namePart, 0, len(cats))
	for _, ct := range cats {
		out = append(out, namePart{ID: ct.ID, Name: ct.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": out})
}

// CreateCategory handles POST /v1/categories (MAINTAINER only).
func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req nameReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": map[string]string{"name": "required"}})
	}
	cat := model.Category{Name: req.Name}
	if err := h.CategoryRepo.Create(c.Request().Context(), &cat); err != nil {
		if err == repository.ErrNameExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create category failed"})
	}
	return c.JSON(http.StatusCreated, namePart{ID: cat.ID, Name: cat.Name})
}

// DeleteCategory handles DELETE /v1/categories/:id (MAINTAINER only).
// Movies keep existing; only the label and its links go away.
func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}
	if err := h.CategoryRepo.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrCategoryNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete category failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListStreamingServices handles GET /v1/streaming-services.
func (h *CatalogHandler) ListStreamingServices(c echo.Context) error {
	svcs, err := h.ServiceRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]namePart, 0, len(svcs))
	for _, s := range svcs {
		out = append(out, namePart{ID: s.ID, Name: s.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"streaming_services": out})
}

// CreateStreamingService handles POST /v1/streaming-services
// (MAINTAINER only).
func (h *CatalogHandler) CreateStreamingService(c echo.Context) error {
	var req nameReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": map[string]string{"name": "required"}})
	}
	svc := model.StreamingService{Name: req.Name}
	if err := h.ServiceRepo.Create(c.Request().Context(), &svc); err != nil {
		if err == repository.ErrNameExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create streaming service failed"})
	}
	return c.JSON(http.StatusCreated, namePart{ID: svc.ID, Name: svc.Name})
}

// DeleteStreamingService handles DELETE /v1/streaming-services/:id
// (MAINTAINER only).
func (h *CatalogHandler) DeleteStreamingService(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid streaming service id"})
	}
	if err := h.ServiceRepo.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrStreamingServiceNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "streaming service not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete streaming service failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
