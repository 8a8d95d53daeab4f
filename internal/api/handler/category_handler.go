package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ledgerbook/finance-tracker/internal/api/metrics"
	"github.com/ledgerbook/finance-tracker/internal/core/domain"
	"github.com/ledgerbook/finance-tracker/internal/core/ports"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service ports.CategoryService
}

func NewCategoryHandler(service ports.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// List returns global categories plus the caller's own.
//
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Success      200  {object}  categoryListResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	categories, err := h.service.ListVisible(c.Request().Context(), user)
	if err != nil {
		return err
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return c.JSON(http.StatusOK, categoryListResponse{Categories: categories})
}

// Create adds a category owned by the caller.
//
// @Summary      Create category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        body  body      createCategoryRequest  true  "Category name"
// @Success      201   {object}  categoryCreatedResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), user, req.Name)
	if err != nil {
		return err
	}

	metrics.CategoriesCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, categoryCreatedResponse{OK: true, ID: created.ID, Name: created.Name})
}

// Delete removes a category the caller may modify.
//
// @Summary      Delete category
// @Tags         categories
// @Produce      json
// @Param        id   path      int  true  "Category ID"
// @Success      200  {object}  okResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id, user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okResponse{OK: true})
}
