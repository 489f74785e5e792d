package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/volunteerhub/internal/mailer"
	"github.com/yoockh/volunteerhub/internal/metrics"
	"github.com/yoockh/volunteerhub/internal/models"
	mongorepo "github.com/yoockh/volunteerhub/internal/repositories/mongo"
	"github.com/yoockh/volunteerhub/internal/utils"
)

// NotifyResult summarises a successful bulk email.
type NotifyResult struct {
	Requested  int `json:"requested"`
	Recipients int `json:"recipients"`
}

// NotificationService emails a chosen set of volunteers. Every recipient
// gets an individual message; the first send failure fails the batch and
// nothing is retried.
type NotificationService interface {
	Notify(ctx context.Context, volunteerIDs []string, subject, htmlBody, actor string) (*NotifyResult, error)
}

type notificationService struct {
	volunteers mongorepo.VolunteerRepository
	mailer     mailer.Mailer
	audit      AuditService
	log        logrus.FieldLogger
}

func NewNotificationService(volunteers mongorepo.VolunteerRepository, m mailer.Mailer, audit AuditService, log logrus.FieldLogger) NotificationService {
	if audit == nil {
		audit = NopAudit()
	}
	if log == nil {
		log = logrus.New()
	}
	return &notificationService{volunteers: volunteers, mailer: m, audit: audit, log: log}
}

func (s *notificationService) Notify(ctx context.Context, volunteerIDs []string, subject, htmlBody, actor string) (*NotifyResult, error) {
	const op = "NotificationService.Notify"

	if len(volunteerIDs) == 0 || strings.TrimSpace(subject) == "" || strings.TrimSpace(htmlBody) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Missing required fields.", nil)
	}

	recipients, err := s.resolve(ctx, volunteerIDs)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to look up volunteers", err)
	}
	if len(recipients) == 0 {
		return nil, utils.E(utils.CodeNoRecipients, op, "No valid email addresses found.", nil)
	}

	dispatch := &models.EmailDispatch{
		Subject:      subject,
		Recipients:   recipients,
		RequestedIDs: volunteerIDs,
		Actor:        actor,
	}

	if s.mailer == nil || !s.mailer.Configured() {
		return nil, s.fail(ctx, op, dispatch, mailer.ErrNotConfigured)
	}

	for _, to := range recipients {
		err := s.mailer.Send(ctx, mailer.Message{To: to, Subject: subject, HTML: htmlBody})
		if err != nil {
			return nil, s.fail(ctx, op, dispatch, err)
		}
		metrics.EmailsTotal.WithLabelValues("sent").Inc()
	}

	dispatch.Status = models.DispatchSent
	s.audit.RecordDispatch(ctx, dispatch)
	s.log.WithFields(logrus.Fields{
		"recipients": len(recipients),
		"requested":  len(volunteerIDs),
	}).Info("volunteer emails sent")

	return &NotifyResult{Requested: len(volunteerIDs), Recipients: len(recipients)}, nil
}

// resolve maps ids to distinct email addresses. Malformed or unknown ids
// and records without an address are skipped.
func (s *notificationService) resolve(ctx context.Context, raw []string) ([]string, error) {
	ids := make([]models.VolunteerID, 0, len(raw))
	seenID := make(map[models.VolunteerID]bool, len(raw))
	for _, r := range raw {
		id, err := models.ParseVolunteerID(r)
		if err != nil || seenID[id] {
			continue
		}
		seenID[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.volunteers.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var out []string
	seen := make(map[string]bool, len(rows))
	for _, v := range rows {
		addr := strings.TrimSpace(v.Email)
		key := strings.ToLower(addr)
		if addr == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, addr)
	}
	return out, nil
}

func (s *notificationService) fail(ctx context.Context, op string, dispatch *models.EmailDispatch, err error) error {
	metrics.EmailsTotal.WithLabelValues("failed").Inc()
	dispatch.Status = models.DispatchFailed
	dispatch.Error = err.Error()
	s.audit.RecordDispatch(ctx, dispatch)

	s.log.WithError(err).WithField("recipients", len(dispatch.Recipients)).Error("volunteer email batch failed")

	msg := "Failed to send emails."
	if errors.Is(err, mailer.ErrNotConfigured) {
		msg = "Email sender is not configured."
	}
	return utils.E(utils.CodeTransport, op, msg, err)
}
