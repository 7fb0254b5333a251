// Package migrations embeds the SQL migrations so cmd/migrate does not need
// the source tree at runtime.
package migrations

import "embed"

// FS holds every *.up.sql and *.down.sql file of this directory
//
//go:embed *.sql
var FS embed.FS
