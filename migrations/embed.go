// Package migrations embeds the SQL schema migrations applied at startup.
package migrations

import "embed"

// FS contains all SQL migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
