// Package public embeds the stylesheet and script served under /assets.
package public

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed static
var files embed.FS

// StaticFS returns the embedded assets rooted at the static directory.
func StaticFS() (fs.FS, error) {
	return fs.Sub(files, "static")
}

// MustStaticFS is StaticFS for callers that cannot run without the assets.
func MustStaticFS() fs.FS {
	sub, err := StaticFS()
	if err != nil {
		panic(fmt.Sprintf("public: static assets: %v", err))
	}
	return sub
}
