// Package migrations embeds the SQL migration files so the migrate
// command can run them without access to the source tree.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
