// Package templates holds the HTML pages rendered by the handlers. Every page
// defines a "content" block that is placed inside layout.html.
package templates

import "embed"

//go:embed *.html
var FS embed.FS
