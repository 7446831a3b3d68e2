// Package migrations embeds the gateway cache schema migrations.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
