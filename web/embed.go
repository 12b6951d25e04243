// Package web holds the HTML templates and static assets, embedded into the
// server binary.
package web

import "embed"

// FS contains templates/ and static/.
//
//go:embed templates static
var FS embed.FS
