// Package tgchat provides embedded assets for production builds.
package tgchat

import "embed"

// TemplateFS holds the page templates. Dev mode reads them from disk instead.
//
//go:embed web/templates
var TemplateFS embed.FS
