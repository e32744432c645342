package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fiscaldesk/obligations-api/internal/api/metrics"
	"github.com/fiscaldesk/obligations-api/internal/core/ports"
)

// ObligationHandler handles HTTP requests for obligation operations. Every
// route runs behind the Auth middleware; the caller id always comes from the
// verified token, never from the payload.
type ObligationHandler struct {
	service ports.ObligationService
}

func NewObligationHandler(service ports.ObligationService) *ObligationHandler {
	return &ObligationHandler{service: service}
}

// List handles GET /obligations: the caller's obligations, due date descending.
//
// @Summary      List the caller's obligations
// @Tags         obligations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   obligationResponse
// @Failure      401  {object}  map[string]string
// @Router       /obligations [get]
func (h *ObligationHandler) List(c echo.Context) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}

	items, err := h.service.List(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toObligationListResponse(items))
}

// Get handles GET /obligations/:id.
//
// @Summary      Get one obligation
// @Tags         obligations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Obligation id"
// @Success      200  {object}  obligationResponse
// @Failure      404  {object}  map[string]string
// @Router       /obligations/{id} [get]
func (h *ObligationHandler) Get(c echo.Context) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}

	o, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toObligationResponse(o))
}

// Create handles POST /obligations.
//
// @Summary      Create an obligation
// @Tags         obligations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      obligationRequest  true  "Obligation fields"
// @Success      201   {object}  obligationResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /obligations [post]
func (h *ObligationHandler) Create(c echo.Context) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}

	var req obligationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input, err := toObligationInput(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "due_date must be a date in 2006-01-02 format")
	}

	created, err := h.service.Create(c.Request().Context(), caller, input)
	if err != nil {
		return err
	}

	metrics.ObligationsCreatedTotal.WithLabelValues(string(created.Type)).Inc()
	return c.JSON(http.StatusCreated, toObligationResponse(created))
}

// Replace handles PUT /obligations/:id (full update).
//
// @Summary      Replace an obligation
// @Tags         obligations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Obligation id"
// @Param        body  body      obligationRequest  true  "Obligation fields"
// @Success      200   {object}  obligationResponse
// @Failure      404   {object}  map[string]string
// @Router       /obligations/{id} [put]
func (h *ObligationHandler) Replace(c echo.Context) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}

	var req obligationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input, err := toObligationInput(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "due_date must be a date in 2006-01-02 format")
	}

	updated, err := h.service.Replace(c.Request().Context(), caller, c.Param("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toObligationResponse(updated))
}

// Patch handles PATCH /obligations/:id (partial update).
//
// @Summary      Partially update an obligation
// @Tags         obligations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "Obligation id"
// @Param        body  body      obligationPatchRequest  true  "Fields to change"
// @Success      200   {object}  obligationResponse
// @Failure      404   {object}  map[string]string
// @Router       /obligations/{id} [patch]
func (h *ObligationHandler) Patch(c echo.Context) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}

	var req obligationPatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patch, err := toObligationPatch(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "due_date must be a date in 2006-01-02 format")
	}

	updated, err := h.service.Patch(c.Request().Context(), caller, c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toObligationResponse(updated))
}

// Delete handles DELETE /obligations/:id.
//
// @Summary      Delete an obligation
// @Tags         obligations
// @Security     BearerAuth
// @Param        id  path  string  true  "Obligation id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /obligations/{id} [delete]
func (h *ObligationHandler) Delete(c echo.Context) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
