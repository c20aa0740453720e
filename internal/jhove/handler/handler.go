// Package handler defines the interface the core exposes to output
// serializers. A Handler never receives a mutable Property: prop.Property
// has no exported mutator, so "handlers may not mutate the Property tree"
// is a compile-time property of this package's API, not a runtime check.
package handler

import (
	"github.com/ostafen/digler/internal/jhove/module"
	"github.com/ostafen/digler/internal/jhove/repinfo"
)

// Handler renders RepInfo trees produced by the dispatcher. Implementations
// own their output writer and must close it in Close.
type Handler interface {
	ShowHeader() error
	ShowModule(d module.Descriptor) error
	ShowRepInfo(info *repinfo.RepInfo) error
	ShowHandlerSelf(name, release string) error
	ShowApp(name, release, buildDate string) error
	ShowFooter() error
	Close() error

	StartDirectory(path string) error
	EndDirectory() error
	// OkToProcess lets a handler veto processing a path (e.g. filtering by
	// name); returning false skips the file entirely.
	OkToProcess(path string) bool
	// Analyze is the last-chance hook before a RepInfo is rendered.
	Analyze(info *repinfo.RepInfo) error

	Indent() int
	SetIndent(n int)
}

// Base provides the indent bookkeeping and a permissive OkToProcess/Analyze
// pair that every concrete handler embeds, the same way the teacher's
// internal/format headers share small default behaviors rather than each
// reimplementing them.
type Base struct {
	indent int
}

func (b *Base) Indent() int      { return b.indent }
func (b *Base) SetIndent(n int)  { b.indent = n }
func (b *Base) OkToProcess(string) bool { return true }
func (b *Base) Analyze(*repinfo.RepInfo) error { return nil }
