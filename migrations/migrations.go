// Package migrations embeds the SQL schema files so the server can apply
// them regardless of the working directory it starts in.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
