// Package web provides the embedded scanner page.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var staticFS embed.FS

// StaticFS returns the page assets with "static" as the root
// (e.g., "index.html" not "static/index.html").
func StaticFS() (fs.FS, error) {
	return fs.Sub(staticFS, "static")
}
