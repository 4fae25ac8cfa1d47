// Package webfs provides the embedded host pages (splash and offline).
package webfs

import "embed"

//go:embed all:templates
var FS embed.FS
