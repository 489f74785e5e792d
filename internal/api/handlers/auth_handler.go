package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/volunteerhub/internal/services"
	"github.com/yoockh/volunteerhub/internal/utils"
)

type AuthHandler struct {
	svc services.AuthService
}

func NewAuthHandler(svc services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AuthHandler.Login", "username and password are required", err))
		return
	}

	tok, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	writeOK(c, http.StatusOK, "", gin.H{"token": tok.Token, "expires_at": tok.ExpiresAt})
}
