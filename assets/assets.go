// Package assets embeds the level files so both binaries can run without an
// assets directory next to them.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed all:levels
var levelFS embed.FS

// Levels returns the embedded asset tree rooted above "levels".
func Levels() fs.FS {
	return levelFS
}
