// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	invitationstore "github.com/dalemusser/disputehub/internal/app/store/invitations"
	"github.com/dalemusser/disputehub/internal/app/system/workers"
	"github.com/dalemusser/waffle/pantry/jobs"
	"go.uber.org/zap"
)

const (
	InvitationCleanupName   = "invitation-cleanup"
	NotificationCleanupName = "notification-cleanup"

	// notificationRetention is how long delivered or abandoned emails stay
	// in the notifier's memory store.
	notificationRetention = time.Hour
)

// Register adds the periodic maintenance jobs to s. Call before s.Start.
func Register(s *jobs.Scheduler, invitations *invitationstore.Store, notifier *workers.Notifier, logger *zap.Logger) error {
	if err := s.Every(time.Hour, InvitationCleanupName, InvitationCleanup(invitations, logger)); err != nil {
		return err
	}
	return s.Every(10*time.Minute, NotificationCleanupName, NotificationCleanup(notifier, logger))
}

// InvitationCleanup removes expired claim tokens.
// This is a backup for when MongoDB's TTL index cleanup is delayed.
func InvitationCleanup(store *invitationstore.Store, logger *zap.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		count, err := store.CleanupExpired(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			logger.Debug("cleaned up expired invitations", zap.Int64("count", count))
		}
		return nil
	}
}

// NotificationCleanup drops finished emails from the notifier's store.
func NotificationCleanup(notifier *workers.Notifier, logger *zap.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if n := notifier.Prune(ctx, notificationRetention); n > 0 {
			logger.Debug("pruned finished notifications", zap.Int("count", n))
		}
		return nil
	}
}
