package web

import "embed"

// TemplatesFS embeds the report page and chart templates.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds the stylesheet and the table sorting script.
//
//go:embed static/*
var StaticFS embed.FS
