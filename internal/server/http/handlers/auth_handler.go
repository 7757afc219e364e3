package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/fitinbox/internal/server/http/dto"
	"github.com/polkiloo/fitinbox/internal/server/http/middleware"
)

// AuthHandler processes login.
type AuthHandler struct {
	facade AuthFacade
	logger *slog.Logger
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{facade: facade, logger: logger}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	company, token, err := h.facade.Login(c.Request.Context(), req.CNPJ, req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, dto.LoginResponse{
		CompanyID: company.ID,
		Name:      company.Name,
		Role:      string(company.Role),
		Token:     token,
	})
}
