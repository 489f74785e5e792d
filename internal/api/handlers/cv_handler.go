package handlers

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CV streams the stored file back under its original name.
func (h *VolunteerHandler) CV(c *gin.Context) {
	blob, err := h.svc.GetCV(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	if blob.Filename != "" {
		c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": blob.Filename}))
	}
	c.Data(http.StatusOK, blob.ContentType, blob.Data)
}
