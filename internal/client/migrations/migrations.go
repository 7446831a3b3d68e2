// Package migrations embeds the goose migrations for the client's local
// database (cached session, sealed AI key).
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
