package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/fitinbox/internal/domain/errors"
	"github.com/polkiloo/fitinbox/internal/domain/model"
	"github.com/polkiloo/fitinbox/internal/server/http/dto"
)

// AdminHandler serves the order board and company management.
type AdminHandler struct {
	facade AdminFacade
	logger *slog.Logger
}

func NewAdminHandler(facade AdminFacade, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{facade: facade, logger: logger}
}

// Orders handles GET /api/admin/orders. The optional bucket query narrows
// the list to active, finalized or cancelled orders.
func (h *AdminHandler) Orders(c *gin.Context) {
	var bucket model.Bucket
	if raw := c.Query("bucket"); raw != "" {
		b, ok := model.ParseBucket(raw)
		if !ok {
			badRequest(c, "unknown bucket")
			return
		}
		bucket = b
	}
	c.JSON(http.StatusOK, toOrders(h.facade.AdminOrders(bucket)))
}

// Stats handles GET /api/admin/orders/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, toStats(h.facade.OrderStats()))
}

// Reload handles POST /api/admin/orders/reload.
func (h *AdminHandler) Reload(c *gin.Context) {
	if err := h.facade.ReloadOrders(c.Request.Context()); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toStats(h.facade.OrderStats()))
}

// ChangeStatus handles PATCH /api/admin/orders/:ref/status. The reference
// may be a store id or an order number.
func (h *AdminHandler) ChangeStatus(c *gin.Context) {
	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	status, ok := model.ParseOrderStatus(req.Status)
	if !ok {
		writeError(c, h.logger, domainErrors.ErrInvalidStatus)
		return
	}

	change, err := h.facade.ChangeOrderStatus(c.Request.Context(), model.ParseOrderRef(c.Param("ref")), status)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusChangeResponse{
		Order:          toOrder(change.Order),
		PreviousStatus: string(change.Previous),
		Bucket:         string(change.Bucket),
		Changed:        change.Changed,
	})
}

// DeleteOrder handles DELETE /api/admin/orders/:ref.
func (h *AdminHandler) DeleteOrder(c *gin.Context) {
	if _, err := h.facade.DeleteOrder(c.Request.Context(), model.ParseOrderRef(c.Param("ref"))); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Companies handles GET /api/admin/companies.
func (h *AdminHandler) Companies(c *gin.Context) {
	companies, err := h.facade.Companies(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response := make([]dto.Company, 0, len(companies))
	for _, company := range companies {
		response = append(response, toCompany(company))
	}
	c.JSON(http.StatusOK, response)
}

// RegisterCompany handles POST /api/admin/companies.
func (h *AdminHandler) RegisterCompany(c *gin.Context) {
	var req dto.CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
		badRequest(c, "cnpj, name and password are required")
		return
	}

	company, err := h.facade.RegisterCompany(c.Request.Context(), req.CNPJ, req.Name, req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toCompany(*company))
}

// DeleteCompany handles DELETE /api/admin/companies/:id.
func (h *AdminHandler) DeleteCompany(c *gin.Context) {
	if err := h.facade.DeleteCompany(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
