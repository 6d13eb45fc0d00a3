package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/notefield/notebook-service/internal/app"
)

func init() {
	RegisterWithApp(func(a *app.App) (Task, error) {
		if a.Config().GetSoftDeleteRetentionTime() <= 0 {
			return nil, nil
		}
		return &NodeCleanupTask{app: a}, nil
	})
}

// NodeCleanupTask empties the recycle bin of nodes past retention.
type NodeCleanupTask struct {
	app *app.App
}

func (t *NodeCleanupTask) Name() string {
	return "node_cleanup"
}

func (t *NodeCleanupTask) Run(ctx context.Context) error {
	cutoff := time.Now().Add(-t.app.Config().GetSoftDeleteRetentionTime())

	removed, err := t.app.NodeRepo.DeleteRecycledBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if removed > 0 {
		t.app.Logger().Info(t.Name()+" completed", zap.Int64("removed", removed))
	}
	return nil
}

func (t *NodeCleanupTask) LoopInterval() time.Duration {
	return time.Hour
}

func (t *NodeCleanupTask) IsStartupRun() bool {
	return true
}
