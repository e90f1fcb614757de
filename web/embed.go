// Package web provides the embedded default site served when no asset
// directory or origin is configured.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:site
var siteFS embed.FS

// Site returns the embedded site rooted at its top directory, so that
// "index.html" names the shell.
func Site() fs.FS {
	sub, err := fs.Sub(siteFS, "site")
	if err != nil {
		panic(err) // "site" is always embedded
	}
	return sub
}
