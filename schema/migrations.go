// Package schema contains embedded migration files.
package schema

import "embed"

// MigrationsFS contains the SQL migrations for every supported database,
// one directory per dialect.
//
//go:embed pgmigrations/*.sql sqlitemigrations/*.sql
var MigrationsFS embed.FS
