// Package migrations embeds the SQL for tables owned by this service.
package migrations

import "embed"

// FS holds the goose migration files.
//
//go:embed *.sql
var FS embed.FS
