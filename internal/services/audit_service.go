package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/volunteerhub/internal/models"
	pgrepo "github.com/yoockh/volunteerhub/internal/repositories/postgres"
	"github.com/yoockh/volunteerhub/internal/utils"
	"gorm.io/datatypes"
)

// AuditService keeps the screening trail and the email dispatch log.
// Recording is best-effort: failures are logged and never surface to the
// operation being audited. With no repositories every call is a no-op.
type AuditService interface {
	RecordScreening(ctx context.Context, volunteerID models.VolunteerID, action models.ScreeningAction, actor string, metadata map[string]any)
	RecordDispatch(ctx context.Context, d *models.EmailDispatch)
	History(ctx context.Context, volunteerID string) ([]models.ScreeningEvent, error)
	RecentDispatches(ctx context.Context, limit int) ([]models.EmailDispatch, error)
	Enabled() bool
}

type auditService struct {
	events     pgrepo.ScreeningEventRepository
	dispatches pgrepo.EmailDispatchRepository
	log        logrus.FieldLogger
}

func NewAuditService(events pgrepo.ScreeningEventRepository, dispatches pgrepo.EmailDispatchRepository, log logrus.FieldLogger) AuditService {
	if log == nil {
		log = logrus.New()
	}
	return &auditService{events: events, dispatches: dispatches, log: log}
}

// NopAudit is used when no audit database is configured.
func NopAudit() AuditService {
	return NewAuditService(nil, nil, nil)
}

func (s *auditService) Enabled() bool {
	return s.events != nil && s.dispatches != nil
}

func (s *auditService) RecordScreening(ctx context.Context, volunteerID models.VolunteerID, action models.ScreeningAction, actor string, metadata map[string]any) {
	if s.events == nil {
		return
	}
	var md datatypes.JSON
	if len(metadata) > 0 {
		if b, err := json.Marshal(metadata); err == nil {
			md = datatypes.JSON(b)
		}
	}
	row := &models.ScreeningEvent{
		ID:          uuid.NewString(),
		VolunteerID: volunteerID.String(),
		Action:      action,
		Actor:       actorOrAnonymous(actor),
		Metadata:    md,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.events.Insert(ctx, row); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"volunteer_id": volunteerID,
			"action":       action,
		}).Warn("failed to record screening event")
	}
}

func (s *auditService) RecordDispatch(ctx context.Context, d *models.EmailDispatch) {
	if s.dispatches == nil || d == nil {
		return
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	d.Actor = actorOrAnonymous(d.Actor)
	if err := s.dispatches.Insert(ctx, d); err != nil {
		s.log.WithError(err).WithField("status", d.Status).Warn("failed to record email dispatch")
	}
}

func (s *auditService) History(ctx context.Context, volunteerID string) ([]models.ScreeningEvent, error) {
	const op = "AuditService.History"

	if s.events == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "audit log is not configured", nil)
	}
	id, err := models.ParseVolunteerID(volunteerID)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid volunteer id", err)
	}
	rows, err := s.events.ListByVolunteer(ctx, id.String(), 100)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load history", err)
	}
	return rows, nil
}

func (s *auditService) RecentDispatches(ctx context.Context, limit int) ([]models.EmailDispatch, error) {
	const op = "AuditService.RecentDispatches"

	if s.dispatches == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "audit log is not configured", nil)
	}
	rows, err := s.dispatches.ListRecent(ctx, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load dispatches", err)
	}
	return rows, nil
}

func actorOrAnonymous(actor string) string {
	if actor == "" {
		return models.AnonymousActor
	}
	return actor
}
