package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/notefield/notebook-service/internal/app"
)

func init() {
	RegisterWithApp(func(a *app.App) (Task, error) {
		if a.Config().App.HistoryKeepVersions <= 0 {
			return nil, nil
		}
		return &RevisionPruneTask{app: a}, nil
	})
}

// RevisionPruneTask trims node history back to the configured depth.
// Pruning also happens inline on writes, this catches nodes written
// while the cap was larger.
type RevisionPruneTask struct {
	app *app.App
}

func (t *RevisionPruneTask) Name() string {
	return "revision_prune"
}

func (t *RevisionPruneTask) Run(ctx context.Context) error {
	keep := t.app.Config().App.HistoryKeepVersions

	nodeIDs, err := t.app.RevisionRepo.ListNodeIDsWithHistory(ctx, keep)
	if err != nil {
		return err
	}

	var pruned int64
	for _, nodeID := range nodeIDs {
		n, err := t.app.RevisionRepo.PruneToDepth(ctx, nodeID, keep)
		if err != nil {
			t.app.Logger().Warn("revision prune failed",
				zap.Int64("node", nodeID), zap.Error(err))
			continue
		}
		pruned += n
	}

	if pruned > 0 {
		t.app.Logger().Info(t.Name()+" completed",
			zap.Int("nodes", len(nodeIDs)),
			zap.Int64("pruned", pruned))
	}
	return nil
}

func (t *RevisionPruneTask) LoopInterval() time.Duration {
	return 0
}

// CronSchedule runs the prune nightly when write load is low.
func (t *RevisionPruneTask) CronSchedule() string {
	return "0 3 * * *"
}

func (t *RevisionPruneTask) IsStartupRun() bool {
	return false
}
