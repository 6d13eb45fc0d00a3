// Package dao implements the repository interfaces on gorm.
package dao

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/notefield/notebook-service/internal/model"
	"github.com/notefield/notebook-service/pkg/fileurl"
)

// DatabaseConfig carries the dao's view of the database settings.
type DatabaseConfig struct {
	Type            string
	Path            string
	UserName        string
	Password        string
	Host            string
	Name            string
	TablePrefix     string
	AutoMigrate     bool
	Charset         string
	ParseTime       bool
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
	RunMode         string
}

type Dao struct {
	db          *gorm.DB
	autoMigrate bool

	mu       sync.Mutex
	migrated map[string]*sync.Once
}

func New(db *gorm.DB, autoMigrate bool) *Dao {
	return &Dao{
		db:          db,
		autoMigrate: autoMigrate,
		migrated:    make(map[string]*sync.Once),
	}
}

func (d *Dao) DB() *gorm.DB {
	return d.db
}

// use returns a context-bound handle, migrating the model's table on first
// touch when auto migration is enabled.
func (d *Dao) use(ctx context.Context, modelKey string) *gorm.DB {
	if d.autoMigrate {
		d.mu.Lock()
		once, ok := d.migrated[modelKey]
		if !ok {
			once = &sync.Once{}
			d.migrated[modelKey] = once
		}
		d.mu.Unlock()
		once.Do(func() {
			_ = model.AutoMigrate(d.db, modelKey)
		})
	}
	return d.db.WithContext(ctx)
}

// NewDBEngineWithConfig opens the configured database and tunes the
// connection pool.
func NewDBEngineWithConfig(c DatabaseConfig, lg *zap.Logger) (*gorm.DB, error) {
	dialector := newDialector(c)
	if dialector == nil {
		return nil, fmt.Errorf("unsupported database type %q", c.Type)
	}

	logMode := logger.Silent
	if c.RunMode == "debug" {
		logMode = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix,
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	if c.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(c.ConnMaxLifetime) * time.Second)
	} else {
		sqlDB.SetConnMaxLifetime(10 * time.Minute)
	}
	if c.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(c.ConnMaxIdleTime) * time.Second)
	}

	if lg != nil {
		lg.Info("database connected", zap.String("type", c.Type))
	}

	return db, nil
}

func newDialector(c DatabaseConfig) gorm.Dialector {
	switch c.Type {
	case "mysql":
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local",
			c.UserName,
			c.Password,
			c.Host,
			c.Name,
			c.Charset,
			c.ParseTime,
		))
	case "postgres":
		return postgres.Open(fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=disable",
			c.Host,
			c.UserName,
			c.Password,
			c.Name,
		))
	case "sqlite":
		if !fileurl.IsExist(c.Path) {
			_ = fileurl.CreatePath(c.Path, os.ModePerm)
		}
		return sqlite.Open(c.Path)
	}
	return nil
}
