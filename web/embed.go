// Package web carries the embedded templates and static assets so the
// server ships as a single binary.
package web

import "embed"

// TemplatesFS holds the HTML templates rendered by the HTTP server.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds stylesheets and scripts served under /static/.
//
//go:embed static/*
var StaticFS embed.FS
