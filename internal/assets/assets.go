// Package assets embeds the default airfoil sections and component
// databases. Set UAVSIZER_ASSETS to read a directory with the same layout
// instead.
package assets

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed airfoils components
var embedded embed.FS

// FS returns the embedded asset tree.
func FS() fs.FS {
	return embedded
}

// Open returns dir as a file system when it is set, else the embedded tree.
func Open(dir string) (fs.FS, error) {
	if dir == "" {
		return embedded, nil
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}
	return os.DirFS(dir), nil
}
