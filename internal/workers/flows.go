package workers

import (
	"context"
	"time"

	"account-api/internal/logger"
	"account-api/internal/repository"
	"account-api/internal/services"

	"github.com/sirupsen/logrus"
)

// staleKeyCutoff is how long an API key may sit unused before the audit
// flow flags it.
const staleKeyCutoff = 90 * 24 * time.Hour

// Flows bundles the recurring background jobs.
type Flows struct {
	userService   services.UserService
	apiKeyService services.APIKeyService
}

func NewFlows(userService services.UserService, apiKeyService services.APIKeyService) *Flows {
	return &Flows{
		userService:   userService,
		apiKeyService: apiKeyService,
	}
}

// SyncUsers walks every account and reports sync statistics. Runs as a
// system operation so no row scoping applies.
func (f *Flows) SyncUsers(ctx context.Context) error {
	start := time.Now()

	users, err := f.userService.ListAll(ctx, nil, repository.UserFilters{})
	if err != nil {
		logger.Logger.WithError(err).Error("User sync flow failed to list accounts")
		return err
	}

	var admins, withKeys int
	for _, u := range users {
		if u.IsAdmin() {
			admins++
		}
		if u.APIKey != nil {
			withKeys++
		}
	}

	logger.Logger.WithFields(logrus.Fields{
		"total":     len(users),
		"admins":    admins,
		"with_keys": withKeys,
		"duration":  time.Since(start).String(),
	}).Info("User sync flow completed")

	return nil
}

// AuditAPIKeys flags keys that have not authenticated a request recently.
func (f *Flows) AuditAPIKeys(ctx context.Context) error {
	cutoff := time.Now().Add(-staleKeyCutoff)

	stale, err := f.apiKeyService.StaleKeys(ctx, nil, cutoff)
	if err != nil {
		logger.Logger.WithError(err).Error("API key audit flow failed")
		return err
	}

	for _, key := range stale {
		fields := logrus.Fields{
			"key_id":  key.ID,
			"user_id": key.UserID,
			"prefix":  key.Prefix,
		}
		if key.LastUsedAt != nil {
			fields["last_used_at"] = key.LastUsedAt.Format(time.RFC3339)
		}
		logger.Logger.WithFields(fields).Warn("Stale API key detected")
	}

	logger.Logger.WithFields(logrus.Fields{
		"stale":  len(stale),
		"cutoff": cutoff.Format(time.RFC3339),
	}).Info("API key audit flow completed")

	return nil
}
