// Package web holds the embedded HTML templates the server renders.
package web

import "embed"

// Templates contains every page template, addressed relative to templates/.
//
//go:embed templates
var Templates embed.FS
