package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/notefield/notebook-service/internal/app"
)

func init() {
	RegisterWithApp(func(a *app.App) (Task, error) {
		if a.Config().GetDeactivatedRetentionTime() <= 0 {
			return nil, nil
		}
		return &UserPurgeTask{app: a}, nil
	})
}

// UserPurgeTask permanently removes accounts deactivated longer ago than
// the retention window.
type UserPurgeTask struct {
	app *app.App
}

func (t *UserPurgeTask) Name() string {
	return "user_purge"
}

func (t *UserPurgeTask) Run(ctx context.Context) error {
	cutoff := time.Now().Add(-t.app.Config().GetDeactivatedRetentionTime())

	removed, err := t.app.UserRepo.DeleteDeactivatedBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if removed > 0 {
		t.app.Logger().Info(t.Name()+" completed", zap.Int64("removed", removed))
	}
	return nil
}

func (t *UserPurgeTask) LoopInterval() time.Duration {
	return 12 * time.Hour
}

func (t *UserPurgeTask) IsStartupRun() bool {
	return true
}
