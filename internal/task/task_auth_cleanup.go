package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/notefield/notebook-service/internal/app"
)

func init() {
	RegisterWithApp(func(a *app.App) (Task, error) {
		return &AuthCleanupTask{app: a}, nil
	})
}

// AuthCleanupTask removes retired auth methods and expired invite tokens.
// Retired rows are kept for a while for audit, then dropped.
type AuthCleanupTask struct {
	app *app.App
}

func (t *AuthCleanupTask) Name() string {
	return "auth_cleanup"
}

func (t *AuthCleanupTask) Run(ctx context.Context) error {
	cutoff := time.Now().Add(-t.app.Config().GetMailTokenExpiry() * 2)

	methods, err := t.app.AuthMethodRepo.DeleteInactiveBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	invites, err := t.app.InviteRepo.DeleteExpiredBefore(ctx, time.Now())
	if err != nil {
		return err
	}

	if methods > 0 || invites > 0 {
		t.app.Logger().Info(t.Name()+" completed",
			zap.Int64("methods", methods),
			zap.Int64("invites", invites))
	}
	return nil
}

func (t *AuthCleanupTask) LoopInterval() time.Duration {
	return time.Hour
}

func (t *AuthCleanupTask) IsStartupRun() bool {
	return true
}
