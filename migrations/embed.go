// Package migrations embeds the versioned schema files for each SQL backend.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

// SQLite returns the SQLite migration directory.
func SQLite() fs.FS { return sub("sqlite") }

// Postgres returns the Postgres migration directory.
func Postgres() fs.FS { return sub("postgres") }

func sub(dir string) fs.FS {
	out, err := fs.Sub(FS, dir)
	if err != nil {
		// fs.Sub only fails for invalid paths, and dir is a constant.
		panic(err)
	}
	return out
}
