package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/volunteerhub/internal/cache"
	"github.com/yoockh/volunteerhub/internal/events"
	"github.com/yoockh/volunteerhub/internal/metrics"
	"github.com/yoockh/volunteerhub/internal/models"
	mongorepo "github.com/yoockh/volunteerhub/internal/repositories/mongo"
	"github.com/yoockh/volunteerhub/internal/storage"
	"github.com/yoockh/volunteerhub/internal/utils"
)

const (
	msgCVNotFound          = "CV not found."
	msgApplicationNotFound = "Application not found."
)

// SignupInput carries the sign-up form fields.
type SignupInput struct {
	Name                 string
	PhoneNumber          string
	DescriptionParagraph string
	Email                string
	Gender               string
	VolunteeringRole     string
	Availabilities       models.Availabilities
}

// Upload is an optional CV attached to a sign-up.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// VolunteerService owns the application lifecycle:
// pending -> approved, or pending -> rejected (deleted).
type VolunteerService interface {
	Submit(ctx context.Context, in SignupInput, file *Upload) (*models.VolunteerRecord, error)
	GetCV(ctx context.Context, volunteerID string) (*models.Blob, error)
	ListPending(ctx context.Context) ([]models.VolunteerRecord, error)
	ListApproved(ctx context.Context) ([]models.VolunteerRecord, error)
	Approve(ctx context.Context, volunteerID, actor string) error
	Reject(ctx context.Context, volunteerID, actor string) error
}

type VolunteerDeps struct {
	Volunteers mongorepo.VolunteerRepository
	Blobs      storage.BlobStore
	Cache      cache.Cache // optional
	CacheTTL   time.Duration
	Audit      AuditService // optional
	Bus        events.Bus   // optional
	Logger     logrus.FieldLogger
}

type volunteerService struct {
	volunteers mongorepo.VolunteerRepository
	blobs      storage.BlobStore
	cache      cache.Cache
	ttl        time.Duration
	audit      AuditService
	bus        events.Bus
	log        logrus.FieldLogger
}

func NewVolunteerService(d VolunteerDeps) VolunteerService {
	s := &volunteerService{
		volunteers: d.Volunteers,
		blobs:      d.Blobs,
		cache:      d.Cache,
		ttl:        d.CacheTTL,
		audit:      d.Audit,
		bus:        d.Bus,
		log:        d.Logger,
	}
	if s.ttl <= 0 {
		s.ttl = cache.DefaultTTL
	}
	if s.audit == nil {
		s.audit = NopAudit()
	}
	if s.log == nil {
		s.log = logrus.New()
	}
	return s
}

func (s *volunteerService) Submit(ctx context.Context, in SignupInput, file *Upload) (*models.VolunteerRecord, error) {
	const op = "VolunteerService.Submit"

	// role is checked before anything is written so a rejected sign-up
	// never leaves a blob behind
	role := models.Role(in.VolunteeringRole)
	if !role.Valid() {
		return nil, utils.E(utils.CodeInvalidRole, op,
			fmt.Sprintf("volunteering_role must be one of [%s]", strings.Join(models.AllowedRoleNames(), ", ")), nil)
	}

	availabilities := in.Availabilities
	if availabilities == nil {
		availabilities = models.Availabilities{}
	}

	rec := &models.VolunteerRecord{
		ID:                   models.NewVolunteerID(),
		Name:                 in.Name,
		PhoneNumber:          in.PhoneNumber,
		DescriptionParagraph: in.DescriptionParagraph,
		Email:                in.Email,
		Gender:               in.Gender,
		VolunteeringRole:     role,
		Availabilities:       availabilities,
		IsScreened:           false,
		CreatedAt:            time.Now().UTC(),
	}

	if file != nil && file.Body != nil {
		blobID, err := s.blobs.Put(ctx, file.Body, file.Filename, file.ContentType)
		if err != nil {
			return nil, utils.E(utils.CodeUnavailable, op, "failed to store cv", err)
		}
		rec.CV = &blobID
	}

	if err := s.volunteers.Create(ctx, rec); err != nil {
		if rec.HasCV() {
			s.deleteBlob(ctx, *rec.CV, rec.ID)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to save volunteer", err)
	}

	s.afterChange(ctx, rec, models.ActionSubmitted, events.EventSubmitted, "", map[string]any{"has_cv": rec.HasCV()})
	return rec, nil
}

func (s *volunteerService) GetCV(ctx context.Context, volunteerID string) (*models.Blob, error) {
	const op = "VolunteerService.GetCV"

	id, err := models.ParseVolunteerID(volunteerID)
	if err != nil {
		return nil, utils.E(utils.CodeNotFound, op, msgCVNotFound, err)
	}

	rec, err := s.volunteers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, msgCVNotFound, err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load volunteer", err)
	}
	if !rec.HasCV() {
		return nil, utils.E(utils.CodeNotFound, op, msgCVNotFound, nil)
	}

	blob, err := s.blobs.Get(ctx, *rec.CV)
	if err != nil {
		return nil, utils.E(utils.CodeRetrieval, op, "Error retrieving file.", err)
	}
	return blob, nil
}

func (s *volunteerService) ListPending(ctx context.Context) ([]models.VolunteerRecord, error) {
	return s.list(ctx, "VolunteerService.ListPending", cache.KeyPendingVolunteers, false)
}

func (s *volunteerService) ListApproved(ctx context.Context) ([]models.VolunteerRecord, error) {
	return s.list(ctx, "VolunteerService.ListApproved", cache.KeyApprovedVolunteers, true)
}

func (s *volunteerService) list(ctx context.Context, op, base string, screened bool) ([]models.VolunteerRecord, error) {
	gen, cacheable := s.generation(ctx)
	key := cache.Versioned(base, gen)

	if cacheable {
		var cached []models.VolunteerRecord
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.log.WithError(err).WithField("key", key).Warn("cache read failed")
		}
		if hit && cached != nil {
			return cached, nil
		}
	}

	out, err := s.volunteers.ListByScreened(ctx, screened)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list volunteers", err)
	}
	if out == nil {
		out = []models.VolunteerRecord{}
	}

	// a change that landed while we were reading bumps the generation;
	// what we read may predate it, so it is not cached
	if cacheable {
		if now, ok := s.generation(ctx); ok && now == gen {
			if err := s.cache.SetJSON(ctx, key, out, s.ttl); err != nil {
				s.log.WithError(err).WithField("key", key).Warn("cache write failed")
			}
		}
	}
	return out, nil
}

func (s *volunteerService) generation(ctx context.Context) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	gen, err := s.cache.Generation(ctx, cache.KeyVolunteersGen)
	if err != nil {
		s.log.WithError(err).Warn("cache generation read failed")
		return 0, false
	}
	return gen, true
}

func (s *volunteerService) Approve(ctx context.Context, volunteerID, actor string) error {
	const op = "VolunteerService.Approve"

	id, err := models.ParseVolunteerID(volunteerID)
	if err != nil {
		return utils.E(utils.CodeNotFound, op, msgApplicationNotFound, err)
	}

	// approving an approved record matches and succeeds without changes
	if err := s.volunteers.MarkScreened(ctx, id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, msgApplicationNotFound, err)
		}
		return utils.E(utils.CodeInternal, op, "failed to approve application", err)
	}

	rec, err := s.volunteers.GetByID(ctx, id)
	if err != nil {
		// approved already; the event just goes out without a role
		s.log.WithError(err).WithField("volunteer_id", id).Warn("failed to reload approved application")
		rec = &models.VolunteerRecord{ID: id}
	}

	s.afterChange(ctx, rec, models.ActionApproved, events.EventApproved, actor, nil)
	return nil
}

func (s *volunteerService) Reject(ctx context.Context, volunteerID, actor string) error {
	const op = "VolunteerService.Reject"

	id, err := models.ParseVolunteerID(volunteerID)
	if err != nil {
		return utils.E(utils.CodeNotFound, op, msgApplicationNotFound, err)
	}

	rec, err := s.volunteers.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, msgApplicationNotFound, err)
		}
		return utils.E(utils.CodeInternal, op, "failed to reject application", err)
	}

	// the record is gone; its CV goes with it
	if rec.HasCV() {
		s.deleteBlob(ctx, *rec.CV, rec.ID)
	}

	s.afterChange(ctx, rec, models.ActionRejected, events.EventRejected, actor, map[string]any{"was_screened": rec.IsScreened})
	return nil
}

func (s *volunteerService) afterChange(ctx context.Context, rec *models.VolunteerRecord, action models.ScreeningAction, evt events.EventType, actor string, md map[string]any) {
	metrics.LifecycleTotal.WithLabelValues(string(action)).Inc()

	if s.cache != nil {
		if _, err := s.cache.Bump(ctx, cache.KeyVolunteersGen); err != nil {
			s.log.WithError(err).Warn("cache invalidation failed")
		}
	}

	s.audit.RecordScreening(ctx, rec.ID, action, actor, md)

	if s.bus != nil {
		err := s.bus.Publish(ctx, events.Event{
			Type:        evt,
			VolunteerID: rec.ID.String(),
			Role:        string(rec.VolunteeringRole),
			Actor:       actor,
			At:          time.Now().UTC(),
		})
		if err != nil {
			s.log.WithError(err).WithField("event", evt).Warn("failed to publish lifecycle event")
		}
	}

	s.log.WithFields(logrus.Fields{
		"volunteer_id": rec.ID,
		"action":       action,
		"actor":        actorOrAnonymous(actor),
	}).Info("application updated")
}

func (s *volunteerService) deleteBlob(ctx context.Context, id models.BlobID, owner models.VolunteerID) {
	if err := s.blobs.Delete(ctx, id); err != nil {
		// left for the orphan sweeper
		s.log.WithError(err).WithFields(logrus.Fields{
			"blob_id":      id,
			"volunteer_id": owner,
		}).Warn("failed to delete cv blob")
	}
}
