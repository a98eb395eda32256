//go:build tools
// +build tools

// Package tools documents development tool dependencies for tgchat.
// Nothing here is compiled into the server.
package tools

// Mocks are generated with mockgen, pinned in the go:generate directive of
// internal/mocks:
//
//   go generate ./internal/mocks
//   Version: go.uber.org/mock v0.6.0 (same as go.mod)
//
// Live reload while editing web/templates (set DEV=true so templates
// are read from disk instead of the embedded copy):
//
//   Install: go install github.com/air-verse/air@v1.63.0
//   Docs: https://github.com/air-verse/air
