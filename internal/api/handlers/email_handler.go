package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/volunteerhub/internal/services"
	"github.com/yoockh/volunteerhub/internal/utils"
)

type EmailHandler struct {
	svc services.NotificationService
}

func NewEmailHandler(svc services.NotificationService) *EmailHandler {
	return &EmailHandler{svc: svc}
}

type SendEmailRequest struct {
	VolunteerIDs []string `json:"volunteerIds"`
	Subject      string   `json:"subject"`
	Message      string   `json:"message"` // HTML body
}

func (h *EmailHandler) Send(c *gin.Context) {
	var req SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "EmailHandler.Send", "invalid request body", err))
		return
	}

	res, err := h.svc.Notify(c.Request.Context(), req.VolunteerIDs, req.Subject, req.Message, actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}

	writeOK(c, http.StatusOK, "Emails sent successfully!", gin.H{"recipients": res.Recipients})
}
