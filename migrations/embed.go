// Package migrations embeds the SQL migrations for the generation quota table.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
