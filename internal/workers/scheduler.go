package workers

import (
	"context"

	"account-api/internal/logger"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler runs the background flows on their cron schedules.
type Scheduler struct {
	cron  *cron.Cron
	flows *Flows
}

func NewScheduler(flows *Flows) *Scheduler {
	return &Scheduler{
		cron:  cron.New(),
		flows: flows,
	}
}

// Register adds the recurring flows with the given cron expressions.
func (s *Scheduler) Register(userSyncSchedule, keyAuditSchedule string) error {
	if _, err := s.cron.AddFunc(userSyncSchedule, func() {
		if err := s.flows.SyncUsers(context.Background()); err != nil {
			logger.Logger.WithError(err).Error("Scheduled user sync failed")
		}
	}); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc(keyAuditSchedule, func() {
		if err := s.flows.AuditAPIKeys(context.Background()); err != nil {
			logger.Logger.WithError(err).Error("Scheduled API key audit failed")
		}
	}); err != nil {
		return err
	}

	logger.Logger.WithFields(logrus.Fields{
		"user_sync": userSyncSchedule,
		"key_audit": keyAuditSchedule,
	}).Info("Background flows registered")

	return nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Logger.Info("Scheduler started")
}

// Stop waits for any running job to finish before returning.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Logger.Info("Scheduler stopped")
}
