// Package migrations holds the SQLite schema for the report history.
//
// Files are named NNN_description.up.sql and applied in version order;
// the matching .down.sql files are kept for manual rollback.
package migrations

import "embed"

// FS holds the migration scripts.
//
//go:embed *.sql
var FS embed.FS
