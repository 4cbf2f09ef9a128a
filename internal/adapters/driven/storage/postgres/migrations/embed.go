// Package migrations embeds the golang-migrate scripts that bootstrap the
// process schema of the PostgreSQL store.
package migrations

import "embed"

// FS contains all SQL migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
