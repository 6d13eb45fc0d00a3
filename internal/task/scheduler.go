// Package task runs the background maintenance jobs.
package task

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/notefield/notebook-service/pkg/safe_close"
)

// Task is one scheduled background job.
type Task interface {
	Name() string
	Run(ctx context.Context) error
	// LoopInterval is the run period. Zero or negative disables looping.
	LoopInterval() time.Duration
	// IsStartupRun reports whether the task also runs once at startup.
	IsStartupRun() bool
}

// CronTask is an optional extension. Tasks returning a non-empty cron
// expression run on that calendar schedule instead of a fixed interval.
type CronTask interface {
	Task
	CronSchedule() string
}

// Scheduler drives registered tasks on their intervals or cron schedules,
// tied into the process shutdown sequence.
type Scheduler struct {
	logger *zap.Logger
	tasks  []Task
	cron   *cron.Cron
	sc     *safe_close.SafeClose
}

func NewScheduler(logger *zap.Logger, sc *safe_close.SafeClose) *Scheduler {
	return &Scheduler{
		logger: logger,
		tasks:  make([]Task, 0),
		cron:   cron.New(),
		sc:     sc,
	}
}

func (s *Scheduler) AddTask(task Task) {
	s.tasks = append(s.tasks, task)
}

func (s *Scheduler) Start() {
	if len(s.tasks) == 0 {
		s.logger.Info("no tasks to schedule")
		return
	}

	s.logger.Info("tasks starting", zap.Int("count", len(s.tasks)))

	cronUsed := false
	for _, task := range s.tasks {
		if ct, ok := task.(CronTask); ok && ct.CronSchedule() != "" {
			if err := s.startCronTask(ct); err != nil {
				s.logger.Error("cron task schedule failed",
					zap.String("name", task.Name()), zap.Error(err))
				continue
			}
			cronUsed = true
			continue
		}
		s.startTask(task)
	}

	if cronUsed {
		s.cron.Start()
		s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
			defer done()
			<-closeSignal
			<-s.cron.Stop().Done()
		})
	}
}

func (s *Scheduler) startCronTask(task CronTask) error {
	_, err := s.cron.AddFunc(task.CronSchedule(), func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("task cron run panic",
					zap.String("name", task.Name()),
					zap.Any("panic", r),
					zap.Stack("stack"))
			}
		}()
		s.logger.Info("task running", zap.String("name", task.Name()), zap.String("cron", task.CronSchedule()))
		if err := task.Run(context.Background()); err != nil {
			s.logger.Error("task running error",
				zap.String("name", task.Name()),
				zap.Error(err))
		}
	})
	return err
}

func (s *Scheduler) startTask(task Task) {
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()

		if task.IsStartupRun() {
			s.logger.Info("task running", zap.String("name", task.Name()), zap.Bool("startupRun", true))
			go func() {
				defer func() {
					if r := recover(); r != nil {
						s.logger.Error("task startup run panic",
							zap.String("name", task.Name()),
							zap.Any("panic", r),
							zap.Stack("stack"))
					}
				}()
				if err := task.Run(context.Background()); err != nil {
					s.logger.Error("task running error",
						zap.String("name", task.Name()),
						zap.Bool("startupRun", true),
						zap.Error(err))
				}
			}()
		}

		if task.LoopInterval() <= 0 {
			return
		}

		ticker := time.NewTicker(task.LoopInterval())
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				func() {
					defer func() {
						if r := recover(); r != nil {
							s.logger.Error("task loop run panic",
								zap.String("name", task.Name()),
								zap.Any("panic", r),
								zap.Stack("stack"))
						}
					}()
					s.logger.Info("task running", zap.String("name", task.Name()), zap.Bool("loopRun", true))
					if err := task.Run(context.Background()); err != nil {
						s.logger.Error("task running error",
							zap.String("name", task.Name()),
							zap.Bool("loopRun", true),
							zap.Error(err))
					}
				}()
			case <-closeSignal:
				s.logger.Info("task stopped", zap.String("name", task.Name()))
				return
			}
		}
	})
}
