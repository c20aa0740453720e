// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package texthandler is a human-readable output handler, grounded on
// cmd/cmd/formats.go's text/tabwriter table listing: the same
// tabwriter.NewWriter(0, 0, 2, ' ', 0) column layout, retargeted from a
// static formats table to a streamed RepInfo report.
package texthandler

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ostafen/digler/internal/jhove/handler"
	"github.com/ostafen/digler/internal/jhove/module"
	"github.com/ostafen/digler/internal/jhove/prop"
	"github.com/ostafen/digler/internal/jhove/repinfo"
	"github.com/ostafen/digler/pkg/sysinfo"
)

// Handler renders a JHOVE report as indented plain text.
type Handler struct {
	handler.Base

	w   io.Writer
	tw  *tabwriter.Writer
}

func New(w io.Writer) *Handler {
	return &Handler{w: w, tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (h *Handler) ShowHeader() error {
	_, err := fmt.Fprintln(h.w, "jhove-go output")
	return err
}

func (h *Handler) ShowApp(name, release, buildDate string) error {
	info, err := sysinfo.Stat()
	if err != nil {
		info = &sysinfo.SysUnknown
	}
	_, err = fmt.Fprintf(h.w, "Application: %s %s (built %s) on %s %s\n", name, release, buildDate, info.Name, info.Release)
	return err
}

func (h *Handler) ShowHandlerSelf(name, release string) error {
	_, err := fmt.Fprintf(h.w, "Handler: %s %s\n", name, release)
	return err
}

func (h *Handler) ShowModule(d module.Descriptor) error {
	fmt.Fprintln(h.tw, "MODULE\tRELEASE\tFORMATS")
	fmt.Fprintf(h.tw, "%s\t%s\t%s\n", d.Name, d.Release, strings.Join(d.Formats, ","))
	return h.tw.Flush()
}

func (h *Handler) ShowRepInfo(info *repinfo.RepInfo) error {
	fmt.Fprintf(h.w, "%s\n", info.URI)
	fmt.Fprintf(h.w, "  Module:     %s\n", orDash(info.Module))
	fmt.Fprintf(h.w, "  Format:     %s\n", orDash(info.Format))
	fmt.Fprintf(h.w, "  Version:    %s\n", orDash(info.Version))
	fmt.Fprintf(h.w, "  MIME type:  %s\n", orDash(info.MIMEType))
	fmt.Fprintf(h.w, "  Well-formed: %s\n", info.WellFormed)
	fmt.Fprintf(h.w, "  Valid:       %s\n", info.Valid)
	for csum, val := range info.Checksums {
		fmt.Fprintf(h.w, "  %s: %s\n", csum, val)
	}
	for _, m := range info.Messages {
		if m.Offset != nil {
			fmt.Fprintf(h.w, "  [%s] %s: %s (offset %d)\n", m.Severity, m.ID, m.Text, *m.Offset)
		} else {
			fmt.Fprintf(h.w, "  [%s] %s: %s\n", m.Severity, m.ID, m.Text)
		}
	}
	for _, p := range info.Properties {
		writeProperty(h.w, p, 1)
	}
	return nil
}

func writeProperty(w io.Writer, p prop.Property, depth int) {
	indent := strings.Repeat("  ", depth)
	if p.Type() != prop.PropertyT {
		fmt.Fprintf(w, "%s%s: %v\n", indent, p.Name(), p.Value())
		return
	}
	fmt.Fprintf(w, "%s%s:\n", indent, p.Name())
	switch p.Arity() {
	case prop.List, prop.Array, prop.Set:
		for _, c := range p.Children() {
			writeProperty(w, c, depth+1)
		}
	case prop.MapArity:
		for name, c := range p.MapChildren() {
			c2 := c
			fmt.Fprintf(w, "%s  %s:\n", indent, name)
			writeProperty(w, c2, depth+2)
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (h *Handler) ShowFooter() error {
	_, err := fmt.Fprintln(h.w, "---")
	return err
}

func (h *Handler) Close() error { return nil }

func (h *Handler) StartDirectory(path string) error {
	_, err := fmt.Fprintf(h.w, "Directory: %s\n", path)
	return err
}

func (h *Handler) EndDirectory() error { return nil }
