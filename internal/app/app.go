package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/notefield/notebook-service/global"
	"github.com/notefield/notebook-service/internal/dao"
	"github.com/notefield/notebook-service/internal/domain"
	"github.com/notefield/notebook-service/internal/service"
	pkgapp "github.com/notefield/notebook-service/pkg/app"
	"github.com/notefield/notebook-service/pkg/mailer"
	"github.com/notefield/notebook-service/pkg/storage"
	"github.com/notefield/notebook-service/pkg/workerpool"
)

// App is the application container. It owns every wired dependency and
// hands them to the router and task layers.
type App struct {
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	workerPool *workerpool.Pool
	Storage    storage.Storager
	Mailer     *mailer.Mailer

	// Repository layer
	UserRepo       domain.UserRepository
	AuthMethodRepo domain.AuthMethodRepository
	InviteRepo     domain.InviteTokenRepository
	SettingRepo    domain.SiteSettingRepository
	NotebookRepo   domain.NotebookRepository
	ShareRepo      domain.NotebookShareRepository
	NodeRepo       domain.NodeRepository
	RevisionRepo   domain.NodeRevisionRepository
	LinkRepo       domain.NodeLinkRepository
	ModuleRepo     domain.ModuleRepository

	// Service layer
	UserService     service.UserService
	NotebookService service.NotebookService
	NodeService     service.NodeService
	NodeLinkService service.NodeLinkService
	ShareService    service.ShareService
	ModuleService   service.ModuleService
	AdminService    service.AdminService
	ExportService   service.ExportService

	TokenManager pkgapp.TokenManager

	shutdownCh chan struct{}
	wg         sync.WaitGroup

	checkVersionMu sync.RWMutex
	checkVersion   pkgapp.CheckVersionInfo
}

// NewApp wires the full dependency graph.
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config:     cfg,
		logger:     logger,
		DB:         db,
		shutdownCh: make(chan struct{}),
	}

	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, logger)

	a.Dao = dao.New(db, cfg.Database.AutoMigrate)

	store, err := storage.NewClient(&cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}
	a.Storage = store

	a.Mailer = mailer.NewMailer(cfg.Mail)

	a.TokenManager = pkgapp.NewTokenManager(pkgapp.TokenConfig{
		SecretKey: cfg.Security.AuthTokenKey,
		Issuer:    pkgapp.DefaultTokenIssuer,
		Expiry:    cfg.GetTokenExpiry(),
	})

	a.UserRepo = dao.NewUserRepository(a.Dao)
	a.AuthMethodRepo = dao.NewAuthMethodRepository(a.Dao)
	a.InviteRepo = dao.NewInviteTokenRepository(a.Dao)
	a.SettingRepo = dao.NewSiteSettingRepository(a.Dao)
	a.NotebookRepo = dao.NewNotebookRepository(a.Dao)
	a.ShareRepo = dao.NewNotebookShareRepository(a.Dao)
	a.NodeRepo = dao.NewNodeRepository(a.Dao)
	a.RevisionRepo = dao.NewNodeRevisionRepository(a.Dao)
	a.LinkRepo = dao.NewNodeLinkRepository(a.Dao)
	a.ModuleRepo = dao.NewModuleRepository(a.Dao)

	svcConfig := &service.ServiceConfig{
		User: service.UserServiceConfig{
			TokenExpiry:              cfg.GetMailTokenExpiry(),
			DeactivatedRetentionTime: cfg.GetDeactivatedRetentionTime(),
		},
		App: service.AppServiceConfig{
			SoftDeleteRetentionTime: cfg.GetSoftDeleteRetentionTime(),
			HistoryKeepVersions:     cfg.App.HistoryKeepVersions,
			ShareTokenExpiry:        cfg.GetShareTokenExpiry(),
			ImportMaxFileSize:       cfg.GetImportMaxFileSize(),
		},
	}

	a.UserService = service.NewUserService(a.UserRepo, a.AuthMethodRepo, a.InviteRepo, a.SettingRepo, a.TokenManager, a.Mailer, logger, svcConfig)
	a.NotebookService = service.NewNotebookService(a.NotebookRepo, a.ShareRepo, a.UserRepo, a.NodeRepo, logger, svcConfig)
	a.NodeService = service.NewNodeService(a.NotebookRepo, a.ShareRepo, a.NodeRepo, a.RevisionRepo, a.LinkRepo, logger, svcConfig)
	a.NodeLinkService = service.NewNodeLinkService(a.NotebookRepo, a.ShareRepo, a.NodeRepo, a.LinkRepo, logger)
	a.ShareService = service.NewShareService(a.NotebookRepo, a.ShareRepo, a.UserRepo, a.NodeRepo, a.TokenManager, logger, svcConfig)
	a.ModuleService = service.NewModuleService(a.NotebookRepo, a.ShareRepo, a.ModuleRepo, a.NodeRepo, a.workerPool, logger, svcConfig)
	a.AdminService = service.NewAdminService(a.UserRepo, a.InviteRepo, a.SettingRepo, logger)
	a.ExportService = service.NewExportService(a.NotebookRepo, a.ShareRepo, a.NodeRepo, a.RevisionRepo, a.Storage, logger, svcConfig)

	logger.Info("app container initialized",
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers),
		zap.String("storageType", cfg.Storage.Type))

	return a, nil
}

// Config returns the application configuration.
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// WorkerPool returns the shared worker pool.
func (a *App) WorkerPool() *workerpool.Pool {
	return a.workerPool
}

// SubmitTask submits a task to the worker pool and waits for it.
func (a *App) SubmitTask(ctx context.Context, task func(context.Context) error) error {
	return a.workerPool.Submit(ctx, task)
}

// SubmitTaskAsync submits a task to the worker pool without waiting.
func (a *App) SubmitTaskAsync(ctx context.Context, task func(context.Context) error) error {
	return a.workerPool.SubmitAsync(ctx, task)
}

// Version returns build version information.
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   global.Version,
		GitTag:    global.GitTag,
		BuildTime: global.BuildTime,
	}
}

// CheckVersion returns the latest known release information.
func (a *App) CheckVersion() pkgapp.CheckVersionInfo {
	a.checkVersionMu.RLock()
	defer a.checkVersionMu.RUnlock()
	return a.checkVersion
}

// SetCheckVersionInfo stores release information fetched by the version
// check task.
func (a *App) SetCheckVersionInfo(info pkgapp.CheckVersionInfo) {
	a.checkVersionMu.Lock()
	defer a.checkVersionMu.Unlock()
	a.checkVersion = info
}

// IsProductionMode reports whether the app runs with production logging.
func (a *App) IsProductionMode() bool {
	return a.config.Log.Production
}

// TrackOperation registers a background operation for graceful shutdown.
// The returned function must be called when the operation completes.
func (a *App) TrackOperation() func() {
	a.wg.Add(1)
	return func() {
		a.wg.Done()
	}
}

// IsShuttingDown reports whether shutdown has started.
func (a *App) IsShuttingDown() bool {
	select {
	case <-a.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownCh exposes the shutdown signal channel.
func (a *App) ShutdownCh() <-chan struct{} {
	return a.shutdownCh
}

// Close releases the database connection.
func (a *App) Close() error {
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.logger.Info("database connection closed")
	}
	return nil
}

// DefaultShutdownTimeout bounds graceful shutdown.
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown stops the container in order: worker pool, background
// operations, database.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("app container shutting down")

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	select {
	case <-a.shutdownCh:
		return nil
	default:
		close(a.shutdownCh)
	}

	var errs []error

	if a.workerPool != nil {
		if err := a.workerPool.Shutdown(ctx); err != nil {
			a.logger.Warn("worker pool shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("worker pool shutdown: %w", err))
		}
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		a.logger.Warn("shutdown timeout waiting for background operations")
		errs = append(errs, fmt.Errorf("background operations timeout: %w", ctx.Err()))
	}

	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown completed with %d errors: %v", len(errs), errs)
	}
	a.logger.Info("app container shutdown completed")
	return nil
}
