package workers

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/volunteerhub/internal/services"
)

// OrphanSweeper runs SweepService on a cron schedule.
type OrphanSweeper struct {
	Sweeper  services.SweepService
	Schedule string
	Grace    time.Duration
	Timeout  time.Duration

	Logger *logrus.Logger

	cron *cron.Cron
}

// Start schedules the sweep. An empty schedule disables it.
func (w *OrphanSweeper) Start(ctx context.Context) error {
	if w.Sweeper == nil {
		return errors.New("OrphanSweeper missing dependency: Sweeper must be set")
	}
	if w.Logger == nil {
		w.Logger = logrus.New()
	}
	if w.Schedule == "" {
		w.Logger.Info("orphan sweeper disabled")
		return nil
	}
	if w.Grace <= 0 {
		w.Grace = time.Hour
	}
	if w.Timeout <= 0 {
		w.Timeout = 5 * time.Minute
	}

	w.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := w.cron.AddFunc(w.Schedule, func() { w.runOnce(ctx) }); err != nil {
		return err
	}
	w.cron.Start()
	w.Logger.WithField("schedule", w.Schedule).Info("orphan sweeper started")
	return nil
}

// Stop waits for a running sweep to finish.
func (w *OrphanSweeper) Stop() {
	if w.cron == nil {
		return
	}
	<-w.cron.Stop().Done()
}

func (w *OrphanSweeper) runOnce(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, w.Timeout)
	defer cancel()

	if _, err := w.Sweeper.Sweep(ctx, w.Grace); err != nil {
		w.Logger.WithError(err).Error("orphan sweep failed")
	}
}
