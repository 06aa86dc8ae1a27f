package migrations

import "embed"

// FS contains the embedded SQLite schema files.
//
//go:embed *.sql
var FS embed.FS
