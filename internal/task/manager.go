package task

import (
	"go.uber.org/zap"

	"github.com/notefield/notebook-service/internal/app"
	"github.com/notefield/notebook-service/pkg/safe_close"
)

// Manager builds all registered tasks and hands them to the scheduler.
type Manager struct {
	scheduler *Scheduler
	app       *app.App
	logger    *zap.Logger
}

func NewManager(a *app.App, logger *zap.Logger, sc *safe_close.SafeClose) *Manager {
	return &Manager{
		scheduler: NewScheduler(logger, sc),
		app:       a,
		logger:    logger,
	}
}

// RegisterTasks instantiates every registered task factory.
func (m *Manager) RegisterTasks() error {
	for _, factory := range GetFactories() {
		task, err := factory(m.app)
		if err != nil {
			m.logger.Warn("task creation failed", zap.Error(err))
			return err
		}
		if task == nil {
			continue
		}
		m.scheduler.AddTask(task)
		m.logger.Info("task registered", zap.String("name", task.Name()))
	}
	return nil
}

// Start launches all registered tasks.
func (m *Manager) Start() {
	m.scheduler.Start()
}
