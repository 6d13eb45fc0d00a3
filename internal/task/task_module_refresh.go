package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/notefield/notebook-service/internal/app"
)

func init() {
	RegisterWithApp(func(a *app.App) (Task, error) {
		if a.Config().GetModuleRefreshInterval() <= 0 {
			return nil, nil
		}
		return &ModuleRefreshTask{app: a}, nil
	})
}

// ModuleRefreshTask recomputes every enabled module so their outputs
// track notebook content without user interaction.
type ModuleRefreshTask struct {
	app *app.App
}

func (t *ModuleRefreshTask) Name() string {
	return "module_refresh"
}

func (t *ModuleRefreshTask) Run(ctx context.Context) error {
	modules, err := t.app.ModuleRepo.ListEnabled(ctx)
	if err != nil {
		return err
	}

	for _, module := range modules {
		if err := t.app.ModuleService.RunModule(ctx, module); err != nil {
			t.app.Logger().Warn("module refresh failed",
				zap.Int64("module", module.ID),
				zap.String("kind", module.Kind),
				zap.Error(err))
		}
	}

	if len(modules) > 0 {
		t.app.Logger().Info(t.Name()+" completed", zap.Int("modules", len(modules)))
	}
	return nil
}

func (t *ModuleRefreshTask) LoopInterval() time.Duration {
	return t.app.Config().GetModuleRefreshInterval()
}

func (t *ModuleRefreshTask) IsStartupRun() bool {
	return false
}
