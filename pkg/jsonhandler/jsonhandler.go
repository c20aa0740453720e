// Package jsonhandler is a JHOVE output handler that renders RepInfo trees
// as newline-delimited JSON, one object per top-level element written to
// the encoder. It is grounded on the teacher's internal/scan.go pattern of
// writing one JSON-ish dfxml record per discovered file to a stream as
// work proceeds, adapted here from encoding/xml to encoding/json and from
// carved-file records to RepInfo records.
package jsonhandler

import (
	"encoding/json"
	"io"

	"github.com/ostafen/digler/internal/jhove/handler"
	"github.com/ostafen/digler/internal/jhove/module"
	"github.com/ostafen/digler/internal/jhove/prop"
	"github.com/ostafen/digler/internal/jhove/repinfo"
)

// Handler streams a JHOVE report as line-delimited JSON.
type Handler struct {
	handler.Base

	enc *json.Encoder

	App     jsonApp    `json:"app"`
	Modules []jsonDesc `json:"modules,omitempty"`
}

type jsonApp struct {
	Name      string `json:"name,omitempty"`
	Release   string `json:"release,omitempty"`
	BuildDate string `json:"buildDate,omitempty"`
}

type jsonDesc struct {
	Name    string   `json:"name"`
	Release string   `json:"release"`
	Vendor  string   `json:"vendor,omitempty"`
	Formats []string `json:"formats,omitempty"`
}

func New(w io.Writer) *Handler {
	return &Handler{enc: json.NewEncoder(w)}
}

func (h *Handler) ShowHeader() error {
	return h.enc.Encode(map[string]string{"event": "header"})
}

func (h *Handler) ShowApp(name, release, buildDate string) error {
	h.App = jsonApp{Name: name, Release: release, BuildDate: buildDate}
	return h.enc.Encode(map[string]any{"event": "app", "app": h.App})
}

func (h *Handler) ShowModule(d module.Descriptor) error {
	jd := jsonDesc{Name: d.Name, Release: d.Release, Vendor: d.Vendor, Formats: d.Formats}
	h.Modules = append(h.Modules, jd)
	return h.enc.Encode(map[string]any{"event": "module", "module": jd})
}

func (h *Handler) ShowHandlerSelf(name, release string) error {
	return h.enc.Encode(map[string]any{"event": "handler", "name": name, "release": release})
}

type jsonProperty struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Arity    string          `json:"arity"`
	Value    any             `json:"value,omitempty"`
	Children []jsonProperty  `json:"children,omitempty"`
}

func toJSONProperty(p prop.Property) jsonProperty {
	out := jsonProperty{Name: p.Name(), Type: p.Type().String(), Arity: p.Arity().String()}
	if p.Type() == prop.PropertyT {
		switch p.Arity() {
		case prop.List, prop.Array, prop.Set:
			for _, c := range p.Children() {
				out.Children = append(out.Children, toJSONProperty(c))
			}
		case prop.MapArity:
			for name, c := range p.MapChildren() {
				child := toJSONProperty(c)
				child.Name = name
				out.Children = append(out.Children, child)
			}
		}
		return out
	}
	out.Value = p.Value()
	return out
}

type jsonMessage struct {
	ID       string `json:"id"`
	Severity string `json:"severity"`
	Text     string `json:"text"`
	Offset   *int64 `json:"offset,omitempty"`
}

type jsonRepInfo struct {
	URI        string            `json:"uri"`
	Module     string            `json:"module,omitempty"`
	Format     string            `json:"format,omitempty"`
	Version    string            `json:"version,omitempty"`
	MIMEType   string            `json:"mimeType,omitempty"`
	Size       int64             `json:"size"`
	WellFormed string            `json:"wellFormed"`
	Valid      string            `json:"valid"`
	SigMatch   []string          `json:"sigMatch,omitempty"`
	Checksums  map[string]string `json:"checksums,omitempty"`
	Messages   []jsonMessage     `json:"messages,omitempty"`
	Properties []jsonProperty    `json:"properties,omitempty"`
}

func (h *Handler) ShowRepInfo(info *repinfo.RepInfo) error {
	out := jsonRepInfo{
		URI: info.URI, Module: info.Module, Format: info.Format, Version: info.Version,
		MIMEType: info.MIMEType, Size: info.Size,
		WellFormed: info.WellFormed.String(), Valid: info.Valid.String(),
		SigMatch: info.SigMatch, Checksums: info.Checksums,
	}
	for _, m := range info.Messages {
		out.Messages = append(out.Messages, jsonMessage{ID: m.ID, Severity: m.Severity.String(), Text: m.Text, Offset: m.Offset})
	}
	for _, p := range info.Properties {
		out.Properties = append(out.Properties, toJSONProperty(p))
	}
	return h.enc.Encode(map[string]any{"event": "repInfo", "repInfo": out})
}

func (h *Handler) ShowFooter() error {
	return h.enc.Encode(map[string]string{"event": "footer"})
}

func (h *Handler) Close() error { return nil }

func (h *Handler) StartDirectory(path string) error {
	return h.enc.Encode(map[string]string{"event": "startDirectory", "path": path})
}

func (h *Handler) EndDirectory() error {
	return h.enc.Encode(map[string]string{"event": "endDirectory"})
}
