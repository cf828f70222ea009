package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"inviteflow/internal/delivery/http/helpers"
	"inviteflow/internal/domain"
)

type CatalogController struct {
	Logger  *slog.Logger
	Service domain.CatalogService
}

func NewCatalogController(logger *slog.Logger, svc domain.CatalogService) *CatalogController {
	return &CatalogController{
		Logger:  logger,
		Service: svc,
	}
}

// ListTemplates godoc
// @Summary List active invitation templates
// @Description Optionally filtered by category. An unknown category yields an empty list.
// @Tags catalog
// @Produce json
// @Param category query string false "Template category"
// @Success 200 {object} helpers.APIResponse "data contains the templates"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /templates [get]
func (c *CatalogController) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := c.Service.ListTemplates(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, templates)
}

// ListCategories godoc
// @Summary List template categories
// @Tags catalog
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the categories"
// @Router /templates/categories [get]
func (c *CatalogController) ListCategories(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, c.Service.Categories())
}

// GetTemplate godoc
// @Summary Get one active template
// @Tags catalog
// @Produce json
// @Param templateID path string true "Template ID"
// @Success 200 {object} helpers.APIResponse "data contains the template"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /templates/{templateID} [get]
func (c *CatalogController) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("templateID")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing templateID")
		return
	}
	t, err := c.Service.GetTemplate(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrTemplateNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "template not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, t)
}

// ListThemes godoc
// @Summary List active themes
// @Tags catalog
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the themes"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /themes [get]
func (c *CatalogController) ListThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := c.Service.ListThemes(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, themes)
}
