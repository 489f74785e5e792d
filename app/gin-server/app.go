package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/yoockh/volunteerhub/config"
	"github.com/yoockh/volunteerhub/internal/cache"
	"github.com/yoockh/volunteerhub/internal/events"
	"github.com/yoockh/volunteerhub/internal/logger"
	"github.com/yoockh/volunteerhub/internal/mailer"
	"github.com/yoockh/volunteerhub/internal/repositories/memory"
	mongorepo "github.com/yoockh/volunteerhub/internal/repositories/mongo"
	pgrepo "github.com/yoockh/volunteerhub/internal/repositories/postgres"
	"github.com/yoockh/volunteerhub/internal/services"
	"github.com/yoockh/volunteerhub/internal/storage"
)

const lruCacheSize = 64

// app holds the wired backends. close releases them in reverse order.
type app struct {
	cfg *config.Config
	log *logrus.Logger

	mongo *mongo.Client
	pg    *gorm.DB
	rdb   *redis.Client

	volunteers mongorepo.VolunteerRepository
	blobs      storage.BlobStore
	cache      cache.Cache
	bus        events.Bus
	mailer     mailer.Mailer
	audit      services.AuditService

	closers []func()
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg, log: logger.New(cfg.App.LogLevel)}

	if err := a.initRecords(ctx); err != nil {
		a.close()
		return nil, err
	}
	if err := a.initBlobs(ctx); err != nil {
		a.close()
		return nil, err
	}
	a.initRedis(ctx)
	if err := a.initAudit(); err != nil {
		a.close()
		return nil, err
	}
	a.initMailer()

	return a, nil
}

func (a *app) initRecords(ctx context.Context) error {
	needMongo := a.cfg.Storage.RecordBackend == "mongo" || a.cfg.Storage.BlobBackend == "gridfs"
	if needMongo {
		client, err := config.InitMongo(ctx, a.cfg.Mongo)
		if err != nil {
			return fmt.Errorf("mongo init: %w", err)
		}
		a.mongo = client
		a.closers = append(a.closers, func() {
			cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(cctx)
		})
		a.log.WithField("db", a.cfg.Mongo.DB).Info("MongoDB connected")
	}

	switch a.cfg.Storage.RecordBackend {
	case "memory":
		a.volunteers = memory.NewVolunteerRepo()
		a.log.Warn("using in-memory record store; data is lost on restart")
	default:
		a.volunteers = mongorepo.NewVolunteerRepo(a.mongo.Database(a.cfg.Mongo.DB))
	}
	return nil
}

func (a *app) initBlobs(ctx context.Context) error {
	switch a.cfg.Storage.BlobBackend {
	case "gcs":
		s, err := storage.NewGCSStore(ctx, a.cfg.Storage.GCSBucket, a.cfg.Storage.GCSCredentialsFile)
		if err != nil {
			return fmt.Errorf("gcs init: %w", err)
		}
		a.closers = append(a.closers, func() { _ = s.Close() })
		a.blobs = s
	case "memory":
		a.blobs = storage.NewMemoryStore()
	default:
		s, err := storage.NewGridFSStore(a.mongo.Database(a.cfg.Mongo.DB), "")
		if err != nil {
			return fmt.Errorf("gridfs init: %w", err)
		}
		a.blobs = s
	}
	a.log.WithField("backend", a.cfg.Storage.BlobBackend).Info("blob store ready")
	return nil
}

// initRedis falls back to in-process cache and bus when Redis is absent
// or unreachable.
func (a *app) initRedis(ctx context.Context) {
	if a.cfg.Redis.Addr != "" {
		rdb, err := config.InitRedis(ctx, a.cfg.Redis)
		if err != nil {
			a.log.WithError(err).Warn("redis unavailable, falling back to in-process cache")
		} else {
			a.rdb = rdb
			a.closers = append(a.closers, func() { _ = rdb.Close() })
			a.cache = cache.NewRedisCache(rdb, "volunteerhub:")
			a.bus = events.NewRedisBus(rdb)
			a.log.Info("Redis connected")
			return
		}
	}
	a.cache = cache.NewLRUCache(lruCacheSize, a.cfg.App.CacheTTL)
	a.bus = events.NewMemoryBus()
}

func (a *app) initAudit() error {
	if a.cfg.Postgres.URI == "" {
		a.audit = services.NopAudit()
		a.log.Info("POSTGRES_URI not set, audit log disabled")
		return nil
	}

	db, err := config.InitPostgres(a.cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres init: %w", err)
	}
	if err := pgrepo.AutoMigrate(db); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	a.pg = db
	if sqlDB, err := db.DB(); err == nil {
		a.closers = append(a.closers, func() { _ = sqlDB.Close() })
	}
	a.audit = services.NewAuditService(pgrepo.NewScreeningEventRepo(db), pgrepo.NewEmailDispatchRepo(db), a.log)
	a.log.Info("PostgreSQL connected")
	return nil
}

func (a *app) initMailer() {
	m := a.cfg.Mail
	sender := mailer.Sender{Address: m.Sender, Name: m.SenderName}

	switch m.Provider {
	case "mailjet":
		a.mailer = mailer.NewMailjetMailer(sender, m.MailjetPublicKey, m.MailjetPrivateKey)
	default:
		a.mailer = mailer.NewSMTPMailer(sender, m.Password, m.SMTPHost, m.SMTPPort)
	}
	if !a.mailer.Configured() {
		a.log.WithField("provider", m.Provider).Warn("mail credentials not set; /send-email will fail")
	}
}

// ready pings the networked backends.
func (a *app) ready(ctx context.Context) error {
	var errs []error
	if a.mongo != nil {
		if err := a.mongo.Ping(ctx, nil); err != nil {
			errs = append(errs, fmt.Errorf("mongo: %w", err))
		}
	}
	if a.rdb != nil {
		if err := a.rdb.Ping(ctx).Err(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	if a.pg != nil {
		if sqlDB, err := a.pg.DB(); err != nil {
			errs = append(errs, fmt.Errorf("postgres: %w", err))
		} else if err := sqlDB.PingContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("postgres: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
