package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialcal/config"
	"socialcal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

func dsnFromConfig(dbConf config.DBConfig) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.Port, dbConf.User, dbConf.Password, dbConf.DBName,
	)
}

// zapWriter sends gorm's log lines to zap.
type zapWriter struct {
	log *zap.SugaredLogger
}

func (w zapWriter) Printf(format string, args ...interface{}) {
	w.log.Warnf(format, args...)
}

func gormConfig(log *zap.Logger) *gorm.Config {
	return &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
			NoLowerCase:   false,
		},
		TranslateError: true,
		// lookups that miss are translated to models.ErrNotFound, not logged
		Logger: logger.New(zapWriter{log: log.Named("gorm").Sugar()}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
	}
}

// ConnectDB opens the relational database described by conf and migrates it.
// Replicas, when configured, serve reads through dbresolver.
func ConnectDB(conf *config.ConfigSchema, log *zap.Logger) (*gorm.DB, error) {
	if conf == nil {
		return nil, errors.New("config is nil")
	}

	var (
		orm *gorm.DB
		err error
	)
	switch conf.Storage.Driver {
	case "sqlite":
		orm, err = OpenSQLite(conf.Storage.SQLitePath, log)
		if err != nil {
			return nil, err
		}
	case "postgres":
		if conf.Storage.Master.Host == "" {
			return nil, errors.New("master database configuration is missing")
		}
		orm, err = gorm.Open(postgres.Open(dsnFromConfig(conf.Storage.Master)), gormConfig(log))
		if err != nil {
			return nil, err
		}
		replicas := make([]gorm.Dialector, 0, len(conf.Storage.Replicas))
		for _, r := range conf.Storage.Replicas {
			replicas = append(replicas, postgres.Open(dsnFromConfig(r)))
		}
		if len(replicas) > 0 {
			err = orm.Use(dbresolver.Register(dbresolver.Config{
				Replicas: replicas,
				Policy:   dbresolver.RandomPolicy{},
			}))
			if err != nil {
				return nil, err
			}
			log.Info("read replicas registered", zap.Int("count", len(replicas)))
		}
	default:
		return nil, fmt.Errorf("driver %q is not relational", conf.Storage.Driver)
	}

	if err = Migrate(orm); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info("database connected", zap.String("driver", conf.Storage.Driver))
	return orm, nil
}

// OpenSQLite opens a sqlite database without migrating it. A single
// connection is kept so ":memory:" databases survive across queries.
func OpenSQLite(path string, log *zap.Logger) (*gorm.DB, error) {
	orm, err := gorm.Open(sqlite.Open(path), gormConfig(log))
	if err != nil {
		return nil, err
	}
	sqlDB, err := orm.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return orm, nil
}

func readDB(ctx context.Context, orm *gorm.DB) *gorm.DB {
	return orm.WithContext(ctx).Clauses(dbresolver.Read)
}

func writeDB(ctx context.Context, orm *gorm.DB) *gorm.DB {
	return orm.WithContext(ctx).Clauses(dbresolver.Write)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.ErrDuplicate
	}
	return err
}
