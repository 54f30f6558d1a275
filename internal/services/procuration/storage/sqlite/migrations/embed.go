package migrations

import "embed"

// FS contains embedded SQLite migrations for procuration storage.
//
//go:embed *.sql
var FS embed.FS
