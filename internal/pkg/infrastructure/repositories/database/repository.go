package database

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/logging"
)

type ConnectorConfig struct {
	Host     string
	Port     string
	Username string
	DbName   string
	Password string
	SslMode  string
}

func LoadConfigFromEnv(ctx context.Context) ConnectorConfig {
	sslMode := os.Getenv("POSTGRES_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}

	port := os.Getenv("POSTGRES_PORT")
	if port == "" {
		port = "5432"
	}

	return ConnectorConfig{
		Host:     os.Getenv("POSTGRES_HOST"),
		Port:     port,
		Username: os.Getenv("POSTGRES_USER"),
		DbName:   os.Getenv("POSTGRES_DBNAME"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		SslMode:  sslMode,
	}
}

// ConnectorFunc returns the process wide database handle. Every repository
// built from the same ConnectorFunc shares one connection pool.
type ConnectorFunc func() (*gorm.DB, error)

func once(connect ConnectorFunc) ConnectorFunc {
	var (
		mu  sync.Mutex
		db  *gorm.DB
		err error
	)

	return func() (*gorm.DB, error) {
		mu.Lock()
		defer mu.Unlock()

		if db == nil {
			db, err = connect()
		}

		return db, err
	}
}

// NewConnector connects to postgres when a host is configured and falls back
// to a process local in-memory sqlite database otherwise.
func NewConnector(ctx context.Context, cfg ConnectorConfig) ConnectorFunc {
	if cfg.Host == "" {
		log := logging.GetFromContext(ctx)
		log.Warn().Msg("no database host configured, using in-memory sqlite")
		return NewSQLiteConnector(ctx)
	}

	return NewPostgreSQLConnector(ctx, cfg)
}

func NewSQLiteConnector(ctx context.Context) ConnectorFunc {
	return once(func() (*gorm.DB, error) {
		db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
			Logger:          logger.Default.LogMode(logger.Silent),
			CreateBatchSize: 1000,
			TranslateError:  true,
		})

		if err == nil {
			db.Exec("PRAGMA foreign_keys = ON")
			sqldb, _ := db.DB()
			sqldb.SetMaxOpenConns(1)
		}

		return db, err
	})
}

func NewPostgreSQLConnector(ctx context.Context, cfg ConnectorConfig) ConnectorFunc {
	dbURI := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s password=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.DbName, cfg.SslMode, cfg.Password)

	log := logging.GetFromContext(ctx)

	return once(func() (*gorm.DB, error) {
		sublogger := log.With().Str("host", cfg.Host).Str("database", cfg.DbName).Logger()

		for attempt := 1; ; attempt++ {
			sublogger.Info().Msg("connecting to database host")

			db, err := gorm.Open(postgres.Open(dbURI), &gorm.Config{
				Logger: logger.New(
					&logadapter{logger: sublogger},
					logger.Config{
						SlowThreshold:             time.Second,
						LogLevel:                  logger.Warn,
						IgnoreRecordNotFoundError: true,
						Colorful:                  false,
					},
				),
				TranslateError: true,
			})
			if err == nil {
				return db, nil
			}

			if attempt == 5 {
				return nil, fmt.Errorf("failed to connect to database: %w", err)
			}

			sublogger.Error().Err(err).Msg("failed to connect to database")
			time.Sleep(3 * time.Second)
		}
	})
}

// logadapter provides a Printf interface to the gorm logger
// so that we can forward the log data to zerolog
type logadapter struct {
	logger zerolog.Logger
}

func (adapter *logadapter) Printf(format string, args ...interface{}) {
	adapter.logger.Info().Msgf(format, args...)
}
