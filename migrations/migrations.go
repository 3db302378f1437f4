package migrations

import "embed"

// FS holds the numbered *.up.sql and *.down.sql schema files.
//
//go:embed *.sql
var FS embed.FS
