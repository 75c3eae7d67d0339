// Package migrations ships the schema with the binaries.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
