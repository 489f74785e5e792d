package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yoockh/volunteerhub/config"
	"github.com/yoockh/volunteerhub/internal/api/handlers"
	"github.com/yoockh/volunteerhub/internal/api/middleware"
	"github.com/yoockh/volunteerhub/internal/api/routes"
	"github.com/yoockh/volunteerhub/internal/services"
	"github.com/yoockh/volunteerhub/internal/workers"
)

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	volunteerSvc := services.NewVolunteerService(services.VolunteerDeps{
		Volunteers: a.volunteers,
		Blobs:      a.blobs,
		Cache:      a.cache,
		CacheTTL:   cfg.App.CacheTTL,
		Audit:      a.audit,
		Bus:        a.bus,
		Logger:     a.log,
	})
	notifySvc := services.NewNotificationService(a.volunteers, a.mailer, a.audit, a.log)
	authSvc := services.NewAuthService(services.AuthConfig{
		Secret:       cfg.Auth.JWTSecret,
		TokenTTL:     cfg.Auth.TokenTTL,
		Username:     cfg.Auth.StaffUsername,
		PasswordHash: cfg.Auth.StaffPasswordHash,
	})

	if !cfg.AuthEnabled() {
		a.log.Warn("AUTH_JWT_SECRET not set; staff endpoints are unauthenticated")
	}

	sweeper := &workers.OrphanSweeper{
		Sweeper:  services.NewSweepService(a.volunteers, a.blobs, a.log),
		Schedule: cfg.Sweep.Schedule,
		Grace:    cfg.Sweep.Grace,
		Logger:   a.log,
	}
	if err := sweeper.Start(ctx); err != nil {
		return err
	}
	defer sweeper.Stop()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(a.log, "/ping", "/healthz", "/metrics"), middleware.Metrics())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:   []string{"Content-Disposition", "X-Request-Id"},
		MaxAge:          12 * time.Hour,
	}))
	r.MaxMultipartMemory = cfg.App.MaxUploadBytes

	routes.RegisterRoutes(r, routes.Deps{
		Volunteer: handlers.NewVolunteerHandler(volunteerSvc, cfg.App.MaxUploadBytes),
		Email:     handlers.NewEmailHandler(notifySvc),
		Auth:      handlers.NewAuthHandler(authSvc),
		Audit:     handlers.NewAuditHandler(a.audit),
		WS:        handlers.NewWSHandler(a.bus),
		JWTSecret: cfg.Auth.JWTSecret,
		Ready: func() error {
			pctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return a.ready(pctx)
		},
	})

	srv := &http.Server{
		Addr:              cfg.App.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		// no WriteTimeout: /ws/events connections set their own deadlines
		IdleTimeout: 120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.WithField("addr", srv.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
