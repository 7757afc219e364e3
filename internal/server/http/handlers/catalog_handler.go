package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/fitinbox/internal/server/http/dto"
)

// CatalogHandler serves products and postal code lookups.
type CatalogHandler struct {
	facade CatalogFacade
	logger *slog.Logger
}

func NewCatalogHandler(facade CatalogFacade, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{facade: facade, logger: logger}
}

// Products handles GET /api/products.
func (h *CatalogHandler) Products(c *gin.Context) {
	products, err := h.facade.Products(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response := make([]dto.Product, 0, len(products))
	for _, p := range products {
		response = append(response, dto.Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price.StringFixed(2),
		})
	}
	c.JSON(http.StatusOK, response)
}

// PostalCode handles GET /api/address/:postalCode.
func (h *CatalogHandler) PostalCode(c *gin.Context) {
	address, err := h.facade.LookupPostalCode(c.Request.Context(), c.Param("postalCode"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toAddress(address))
}
