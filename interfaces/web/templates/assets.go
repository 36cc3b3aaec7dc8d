// Package templates holds the gateway's static assets and HTML components.
package templates

import "embed"

// FS contains the files served under /assets/.
//
//go:embed assets
var FS embed.FS
