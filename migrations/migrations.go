// Package migrations embeds the schema for every SQL store driver. Each
// driver has its own directory of golang-migrate files.
package migrations

import "embed"

//go:embed sqlite/*.sql mysql/*.sql
var FS embed.FS
