package task

import (
	"sync"

	"github.com/notefield/notebook-service/internal/app"
)

// TaskFactory builds a task from the app container. A nil task with a nil
// error means the task is disabled by configuration.
type TaskFactory func(a *app.App) (Task, error)

var (
	taskRegistry  []TaskFactory
	registryMutex sync.RWMutex
)

// RegisterWithApp registers a task factory. Called from init() of each
// task file.
func RegisterWithApp(factory TaskFactory) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	taskRegistry = append(taskRegistry, factory)
}

// GetFactories returns a copy of all registered factories.
func GetFactories() []TaskFactory {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	factories := make([]TaskFactory, len(taskRegistry))
	copy(factories, taskRegistry)
	return factories
}
