// Package sqlitedb opens gorm handles on SQLite and applies the embedded
// SQLite migrations.
package sqlitedb

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jrazmi/todokeeper/sdk/environment"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Options represents the exportable database configuration
type Options struct {
	Path          string        `toml:"path" env:"SQLITE_PATH" default:"todokeeper.db"`
	BusyTimeout   time.Duration `toml:"busy_timeout" env:"SQLITE_BUSY_TIMEOUT" default:"5s"`
	LogQueries    bool          `toml:"log_queries" env:"SQLITE_LOG_QUERIES" default:"false"`
	SlowThreshold time.Duration `toml:"slow_threshold" env:"SQLITE_SLOW_THRESHOLD" default:"200ms"`
}

// NewFromEnv opens a database configured from environment variables.
func NewFromEnv(prefix string, log *slog.Logger) (*gorm.DB, error) {
	var cfg Options
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing sqlite config: %w", err)
	}
	return New(cfg, log)
}

// New opens the database at cfg.Path. In-memory databases are pinned to a
// single connection so every query sees the same data.
func New(cfg Options, log *slog.Logger) (*gorm.DB, error) {
	if log == nil {
		log = slog.Default()
	}

	level := gormlogger.Warn
	if cfg.LogQueries {
		level = gormlogger.Info
	}

	db, err := gorm.Open(sqlite.Open(dsn(cfg)), &gorm.Config{
		Logger: gormlogger.New(slogWriter{log: log}, gormlogger.Config{
			SlowThreshold:             cfg.SlowThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %q: %w", cfg.Path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB: %w", err)
	}
	if cfg.Path == MemoryPath {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	}

	return db, nil
}

// NewTestDB opens a migrated in-memory database with logging silenced.
func NewTestDB() (*gorm.DB, error) {
	db, err := New(Options{Path: MemoryPath}, slog.New(slog.DiscardHandler))
	if err != nil {
		return nil, err
	}
	db.Logger = gormlogger.Default.LogMode(gormlogger.Silent)

	if err := Migrate(context.Background(), db, slog.New(slog.DiscardHandler)); err != nil {
		return nil, err
	}
	return db, nil
}

func dsn(cfg Options) string {
	params := []string{"_foreign_keys=on"}
	if cfg.BusyTimeout > 0 {
		params = append(params, fmt.Sprintf("_busy_timeout=%d", cfg.BusyTimeout.Milliseconds()))
	}
	sep := "?"
	if strings.Contains(cfg.Path, "?") {
		sep = "&"
	}
	return cfg.Path + sep + strings.Join(params, "&")
}

// StatusCheck returns nil if it can successfully talk to the database
func StatusCheck(ctx context.Context, db *gorm.DB) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Second)
		defer cancel()
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// slogWriter adapts gorm's Printf logging onto slog.
type slogWriter struct {
	log *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.log.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)), slog.String("component", "gorm"))
}
