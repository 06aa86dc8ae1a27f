package migrations

import "embed"

// FS contains the embedded Postgres schema files.
//
//go:embed *.sql
var FS embed.FS
