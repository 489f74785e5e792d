package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/volunteerhub/internal/services"
)

type AuditHandler struct {
	svc services.AuditService
}

func NewAuditHandler(svc services.AuditService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

func (h *AuditHandler) History(c *gin.Context) {
	rows, err := h.svc.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, "", gin.H{"events": rows})
}

func (h *AuditHandler) Dispatches(c *gin.Context) {
	limit := 20
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	rows, err := h.svc.RecentDispatches(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	writeOK(c, http.StatusOK, "", gin.H{"dispatches": rows})
}
