package sqlitedb

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jrazmi/todokeeper/schema"
	"gorm.io/gorm"
)

const migrationsDir = "sqlitemigrations"

type schemaMigration struct {
	Version   string    `gorm:"column:version;primaryKey"`
	Checksum  string    `gorm:"column:checksum;not null"`
	AppliedAt time.Time `gorm:"column:applied_at;not null"`
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

// Migrate applies pending files from schema/sqlitemigrations in name order,
// recording each with its checksum.
func Migrate(ctx context.Context, db *gorm.DB, log *slog.Logger) error {
	return migrate(ctx, db, log, schema.MigrationsFS, migrationsDir)
}

func migrate(ctx context.Context, db *gorm.DB, log *slog.Logger, fsys fs.FS, dir string) error {
	db = db.WithContext(ctx)

	if err := db.AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := fs.ReadFile(fsys, path.Join(dir, file))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		checksum := fmt.Sprintf("%x", sha256.Sum256(content))

		var existing schemaMigration
		err = db.First(&existing, "version = ?", file).Error
		switch {
		case err == nil:
			if existing.Checksum != checksum {
				return fmt.Errorf("checksum mismatch: %s was modified after being applied", file)
			}
			continue
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("lookup migration %s: %w", file, err)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return fmt.Errorf("execute: %w", err)
			}
			return tx.Create(&schemaMigration{Version: file, Checksum: checksum, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return fmt.Errorf("apply migration %s: %w", file, err)
		}
		log.InfoContext(ctx, "migration applied", "version", file, "checksum", checksum[:8])
	}

	return nil
}
