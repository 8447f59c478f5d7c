package infra

import (
	"errors"
	"time"

	"github.com/devdibi/dondoc/infra/repository/member"
	"github.com/devdibi/dondoc/infra/repository/mission"
	"github.com/devdibi/dondoc/infra/repository/moim"
	"github.com/devdibi/dondoc/infra/repository/withdraw"
	"github.com/devdibi/dondoc/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// migrations lists every persisted model, in dependency order: members
// reference moims, requests reference members, so the foreign keys resolve.
var migrations = []any{
	&moim.Moim{},
	&member.Member{},
	&withdraw.WithdrawRequest{},
	&mission.Mission{},
}

// NewDBConnection opens the postgres connection described by cfg, migrates
// the schema, and tunes the pool. In development the SQL log is verbose;
// everywhere else it is silent.
func NewDBConnection(cfg *config.DB, appEnv string) (*gorm.DB, error) {
	if cfg == nil || cfg.Url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	var logMode logger.LogLevel
	if appEnv == "development" {
		logMode = logger.Info
	} else {
		logMode = logger.Silent
	}

	connection, err := gorm.Open(postgres.Open(cfg.Url), &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, err
	}

	if err := connection.AutoMigrate(migrations...); err != nil {
		return nil, err
	}

	sqlDB, err := connection.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	return connection, nil
}
