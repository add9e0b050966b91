package migrations

import "embed"

// FS содержит SQL-миграции goose
//
//go:embed *.sql
var FS embed.FS
