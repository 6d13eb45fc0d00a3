// Package app provides the application container holding all wired
// dependencies and services.
package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/notefield/notebook-service/pkg/convert"
	"github.com/notefield/notebook-service/pkg/mailer"
	"github.com/notefield/notebook-service/pkg/storage"
	"github.com/notefield/notebook-service/pkg/workerpool"
)

// AppConfig is the full application configuration.
type AppConfig struct {
	File     string         `yaml:"-"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	App      AppSettings    `yaml:"app"`
	User     UserConfig     `yaml:"user"`
	Security SecurityConfig `yaml:"security"`
	Storage  storage.Config `yaml:"storage"`
	Mail     mailer.Config  `yaml:"mail"`
}

// LogConfig log output configuration.
type LogConfig struct {
	// Level is one of debug, info, warn, error. See zapcore.ParseLevel.
	Level string `yaml:"level" default:"info"`
	// File is the log file path, empty for stdout only.
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production switches to JSON output.
	Production bool `yaml:"production" default:"true"`
}

// ServerConfig HTTP server configuration.
type ServerConfig struct {
	// RunMode is debug or release.
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort is the public API listen address.
	HttpPort string `yaml:"http-port" default:":9000"`
	// ReadTimeout read timeout in seconds.
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout write timeout in seconds.
	WriteTimeout int `yaml:"write-timeout" default:"60"`
	// PrivateHttpListen is the metrics and pprof listen address.
	PrivateHttpListen string `yaml:"private-http-listen" default:":9001"`
}

// SecurityConfig token signing configuration.
type SecurityConfig struct {
	AuthTokenKey string `yaml:"auth-token-key" default:"notebook-service-auth-token"`
	// TokenExpiry session token lifetime, formats: 7d, 24h, 30m.
	TokenExpiry string `yaml:"token-expiry" default:"30d"`
	// ShareTokenExpiry default share link lifetime.
	ShareTokenExpiry string `yaml:"share-token-expiry" default:"7d"`
}

// DatabaseConfig database connection configuration.
type DatabaseConfig struct {
	// Type is sqlite, mysql or postgres.
	Type string `yaml:"type" default:"sqlite"`
	// Path is the sqlite database file location.
	Path        string `yaml:"path" default:"storage/database/db.sqlite3"`
	UserName    string `yaml:"username"`
	Password    string `yaml:"password"`
	Host        string `yaml:"host"`
	Name        string `yaml:"name"`
	TablePrefix string `yaml:"table-prefix"`
	AutoMigrate bool   `yaml:"auto-migrate" default:"true"`
	Charset     string `yaml:"charset"`
	ParseTime   bool   `yaml:"parse-time"`
	// MaxIdleConns max idle connections.
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// MaxOpenConns max open connections.
	MaxOpenConns int `yaml:"max-open-conns" default:"100"`
	// ConnMaxLifetime connection lifetime, formats: 30m, 1h.
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
	// ConnMaxIdleTime idle connection lifetime.
	ConnMaxIdleTime string `yaml:"conn-max-idle-time" default:"10m"`
}

// UserConfig account behavior configuration.
type UserConfig struct {
	// MailTokenExpiry lifetime of mailed validation and recovery tokens.
	MailTokenExpiry string `yaml:"mail-token-expiry" default:"24h"`
	// DeactivatedRetentionTime how long deactivated accounts survive
	// before the purge task removes them.
	DeactivatedRetentionTime string `yaml:"deactivated-retention-time" default:"30d"`
}

// AppSettings application behavior configuration.
type AppSettings struct {
	// DefaultPageSize default list page size.
	DefaultPageSize int `yaml:"default-page-size" default:"10"`
	// MaxPageSize largest accepted page size.
	MaxPageSize int `yaml:"max-page-size" default:"100"`
	// DefaultContextTimeout request timeout in seconds.
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`
	// SoftDeleteRetentionTime how long recycled nodes are kept.
	SoftDeleteRetentionTime string `yaml:"soft-delete-retention-time" default:"30d"`
	// HistoryKeepVersions revisions kept per node.
	HistoryKeepVersions int `yaml:"history-keep-versions" default:"50"`
	// ImportMaxFileSize largest accepted file inside an import archive.
	ImportMaxFileSize string `yaml:"import-max-file-size" default:"10MB"`
	// ModuleRefreshInterval how often enabled modules are recomputed.
	ModuleRefreshInterval string `yaml:"module-refresh-interval" default:"1h"`

	// Worker pool sizing.
	WorkerPoolMaxWorkers int `yaml:"worker-pool-max-workers" default:"100"`
	WorkerPoolQueueSize  int `yaml:"worker-pool-queue-size" default:"1000"`
}

// LoadConfig loads the configuration from a file, applying defaults before
// and after parsing so empty YAML fields fall back too.
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	c := new(AppConfig)
	c.File = realpath

	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "set default config failed")
	}

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	if err = yaml.Unmarshal(file, c); err != nil {
		return nil, realpath, errors.Wrap(err, "parse config file failed")
	}

	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "re-set default config failed")
	}

	return c, realpath, nil
}

// Save writes the configuration back to its file.
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}

	if err = os.WriteFile(c.File, data, 0644); err != nil {
		return errors.Wrap(err, "write config file failed")
	}
	return nil
}

// GetWorkerPoolConfig builds the worker pool configuration.
func (c *AppConfig) GetWorkerPoolConfig() workerpool.Config {
	cfg := workerpool.DefaultConfig()

	if c.App.WorkerPoolMaxWorkers > 0 {
		cfg.MaxWorkers = c.App.WorkerPoolMaxWorkers
	}
	if c.App.WorkerPoolQueueSize > 0 {
		cfg.QueueSize = c.App.WorkerPoolQueueSize
	}
	return cfg
}

// GetTokenExpiry returns the session token lifetime.
func (c *AppConfig) GetTokenExpiry() time.Duration {
	return time.Duration(convert.StrTo(c.Security.TokenExpiry).MustToDuration(30*24*3600)) * time.Second
}

// GetShareTokenExpiry returns the default share link lifetime.
func (c *AppConfig) GetShareTokenExpiry() time.Duration {
	return time.Duration(convert.StrTo(c.Security.ShareTokenExpiry).MustToDuration(7*24*3600)) * time.Second
}

// GetMailTokenExpiry returns the mailed token lifetime.
func (c *AppConfig) GetMailTokenExpiry() time.Duration {
	return time.Duration(convert.StrTo(c.User.MailTokenExpiry).MustToDuration(24*3600)) * time.Second
}

// GetDeactivatedRetentionTime returns the deactivated account retention.
func (c *AppConfig) GetDeactivatedRetentionTime() time.Duration {
	return time.Duration(convert.StrTo(c.User.DeactivatedRetentionTime).MustToDuration(30*24*3600)) * time.Second
}

// GetSoftDeleteRetentionTime returns the recycled node retention.
func (c *AppConfig) GetSoftDeleteRetentionTime() time.Duration {
	return time.Duration(convert.StrTo(c.App.SoftDeleteRetentionTime).MustToDuration(30*24*3600)) * time.Second
}

// GetModuleRefreshInterval returns the module recompute interval.
func (c *AppConfig) GetModuleRefreshInterval() time.Duration {
	return time.Duration(convert.StrTo(c.App.ModuleRefreshInterval).MustToDuration(3600)) * time.Second
}

// GetImportMaxFileSize returns the import archive member size cap.
func (c *AppConfig) GetImportMaxFileSize() int64 {
	return convert.StrTo(c.App.ImportMaxFileSize).MustToSize(10 * 1024 * 1024)
}
