package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/volunteerhub/internal/metrics"
	mongorepo "github.com/yoockh/volunteerhub/internal/repositories/mongo"
	"github.com/yoockh/volunteerhub/internal/storage"
	"github.com/yoockh/volunteerhub/internal/utils"
)

// SweepService removes CV blobs that no volunteer record references, such
// as those left behind by a crash between blob upload and record insert.
type SweepService interface {
	// Sweep only considers blobs older than grace so in-flight sign-ups
	// are never touched. It returns the number of blobs deleted.
	Sweep(ctx context.Context, grace time.Duration) (int, error)
}

type sweepService struct {
	volunteers mongorepo.VolunteerRepository
	blobs      storage.BlobStore
	log        logrus.FieldLogger
	now        func() time.Time
}

func NewSweepService(volunteers mongorepo.VolunteerRepository, blobs storage.BlobStore, log logrus.FieldLogger) SweepService {
	if log == nil {
		log = logrus.New()
	}
	return &sweepService{volunteers: volunteers, blobs: blobs, log: log, now: time.Now}
}

func (s *sweepService) Sweep(ctx context.Context, grace time.Duration) (int, error) {
	const op = "SweepService.Sweep"

	candidates, err := s.blobs.List(ctx, s.now().Add(-grace))
	if err != nil {
		return 0, utils.E(utils.CodeUnavailable, op, "failed to list blobs", err)
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	referenced, err := s.volunteers.ReferencedBlobs(ctx, candidates)
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to check blob references", err)
	}

	deleted := 0
	for _, id := range candidates {
		if referenced[id] {
			continue
		}
		if err := s.blobs.Delete(ctx, id); err != nil {
			s.log.WithError(err).WithField("blob_id", id).Warn("failed to delete orphaned blob")
			continue
		}
		deleted++
	}

	metrics.OrphansSwept.Add(float64(deleted))
	s.log.WithFields(logrus.Fields{
		"candidates": len(candidates),
		"deleted":    deleted,
	}).Info("orphan sweep finished")
	return deleted, nil
}
