package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yoockh/volunteerhub/internal/api/handlers"
	"github.com/yoockh/volunteerhub/internal/api/middleware"
)

type Deps struct {
	Volunteer *handlers.VolunteerHandler
	Email     *handlers.EmailHandler
	Auth      *handlers.AuthHandler
	Audit     *handlers.AuditHandler
	WS        *handlers.WSHandler

	// JWTSecret guards staff routes; empty leaves them open.
	JWTSecret string
	// Ready reports dependency health for /healthz.
	Ready func() error
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/healthz", func(c *gin.Context) {
		if d.Ready != nil {
			if err := d.Ready(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	r.POST("/signup", d.Volunteer.Signup)
	r.GET("/cv/:id", d.Volunteer.CV)
	r.GET("/applications", d.Volunteer.Applications)
	r.GET("/volunteers", d.Volunteer.Volunteers)
	if d.Auth != nil {
		r.POST("/auth/login", d.Auth.Login)
	}

	// Staff
	staff := r.Group("/")
	if d.JWTSecret != "" {
		staff.Use(middleware.JWTAuth(d.JWTSecret), middleware.RequireStaff())
	}

	staff.GET("/application/:id/approve", d.Volunteer.Approve)
	staff.GET("/application/:id/reject", d.Volunteer.Reject)
	staff.POST("/send-email", d.Email.Send)

	if d.WS != nil {
		staff.GET("/ws/events", d.WS.Events)
	}
	if d.Audit != nil {
		staff.GET("/admin/applications/:id/history", d.Audit.History)
		staff.GET("/admin/dispatches", d.Audit.Dispatches)
	}
}
