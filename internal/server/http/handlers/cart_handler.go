package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/fitinbox/internal/server/http/dto"
	"github.com/polkiloo/fitinbox/internal/usecase"
)

// CartHandler manages the cart of the authenticated company.
type CartHandler struct {
	facade CartFacade
	logger *slog.Logger
}

func NewCartHandler(facade CartFacade, logger *slog.Logger) *CartHandler {
	return &CartHandler{facade: facade, logger: logger}
}

func (h *CartHandler) respond(c *gin.Context, view *usecase.CartView, err error) {
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(view))
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(c *gin.Context) {
	view, err := h.facade.Cart(c.Request.Context(), CurrentCompanyID(c))
	h.respond(c, view, err)
}

// AddItem handles POST /api/cart/items. A missing or invalid quantity
// counts as one.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ProductID) == "" {
		badRequest(c, "productId is required")
		return
	}
	quantity := dto.CoerceQuantity(req.Quantity, 1)
	if quantity == 0 {
		quantity = 1
	}

	view, err := h.facade.AddToCart(c.Request.Context(), CurrentCompanyID(c), req.ProductID, quantity)
	h.respond(c, view, err)
}

// UpdateItem handles PUT /api/cart/items/:productId. Zero removes the line.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req dto.QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		badRequest(c, "quantity is required")
		return
	}

	view, err := h.facade.UpdateCartItem(c.Request.Context(), CurrentCompanyID(c), c.Param("productId"), dto.CoerceQuantity(req.Quantity, 0))
	h.respond(c, view, err)
}

// RemoveItem handles DELETE /api/cart/items/:productId.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	view, err := h.facade.RemoveCartItem(c.Request.Context(), CurrentCompanyID(c), c.Param("productId"))
	h.respond(c, view, err)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(c *gin.Context) {
	view, err := h.facade.ClearCart(c.Request.Context(), CurrentCompanyID(c))
	h.respond(c, view, err)
}

// SetAddress handles PUT /api/cart/address.
func (h *CartHandler) SetAddress(c *gin.Context) {
	var req dto.Address
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid address")
		return
	}

	view, err := h.facade.SetCartAddress(c.Request.Context(), CurrentCompanyID(c), fromAddress(req))
	h.respond(c, view, err)
}

// LookupAddress handles POST /api/cart/address/lookup.
func (h *CartHandler) LookupAddress(c *gin.Context) {
	var req dto.PostalCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	view, err := h.facade.LookupCartAddress(c.Request.Context(), CurrentCompanyID(c), req.PostalCode)
	h.respond(c, view, err)
}

// SetNotes handles PUT /api/cart/notes.
func (h *CartHandler) SetNotes(c *gin.Context) {
	var req dto.NotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	view, err := h.facade.SetCartNotes(c.Request.Context(), CurrentCompanyID(c), req.Notes)
	h.respond(c, view, err)
}
