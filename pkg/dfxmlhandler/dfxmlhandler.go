// Package dfxmlhandler is JHOVE's XML output handler. It is adapted from
// the teacher's pkg/dfxml package: the same encoding/xml, xml.Encoder
// with two-space indent, and streaming WriteHeader/element/Close shape,
// retargeted from a forensic carve-report (byte runs of carved files) to
// a DOCTYPE-bearing JHOVE report (repInfo trees of Property/Message).
package dfxmlhandler

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/ostafen/digler/internal/jhove/handler"
	"github.com/ostafen/digler/internal/jhove/module"
	"github.com/ostafen/digler/internal/jhove/prop"
	"github.com/ostafen/digler/internal/jhove/repinfo"
)

// PublicID is the stable DOCTYPE public identifier this handler's output
// declares itself against, per spec §6 ("stable schema with DOCTYPE
// referencing a public DTD").
const PublicID = "-//JHOVE//DTD JHOVE 1.0//EN"

// SystemID is the DOCTYPE system identifier.
const SystemID = "http://jhove.sourceforge.net/dtd/jhove.dtd"

// Handler streams a JHOVE report as XML.
type Handler struct {
	handler.Base

	w   io.Writer
	enc *xml.Encoder

	appName, appRelease string
}

func New(w io.Writer) *Handler {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return &Handler{w: w, enc: enc}
}

func (h *Handler) ShowHeader() error {
	if _, err := io.WriteString(h.w, xml.Header); err != nil {
		return err
	}
	doctype := fmt.Sprintf("<!DOCTYPE jhove PUBLIC %q %q>\n", PublicID, SystemID)
	if _, err := io.WriteString(h.w, doctype); err != nil {
		return err
	}
	start := xml.StartElement{
		Name: xml.Name{Local: "jhove"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "name"}, Value: "jhove-go"},
			{Name: xml.Name{Local: "release"}, Value: "1.0"},
			{Name: xml.Name{Local: "date"}, Value: time.Now().UTC().Format("2006-01-02")},
		},
	}
	return h.enc.EncodeToken(start)
}

type xmlDescriptor struct {
	XMLName xml.Name `xml:"module"`
	Name    string   `xml:"name"`
	Release string   `xml:"release"`
	Date    string   `xml:"date"`
	Vendor  string   `xml:"vendor,omitempty"`
	Formats []string `xml:"format"`
}

func (h *Handler) ShowModule(d module.Descriptor) error {
	return h.enc.Encode(xmlDescriptor{
		Name: d.Name, Release: d.Release, Date: d.Date, Vendor: d.Vendor, Formats: d.Formats,
	})
}

type xmlApp struct {
	XMLName   xml.Name `xml:"app"`
	Name      string   `xml:"name"`
	Release   string   `xml:"release"`
	BuildDate string   `xml:"buildDate"`
}

func (h *Handler) ShowApp(name, release, buildDate string) error {
	h.appName, h.appRelease = name, release
	return h.enc.Encode(xmlApp{Name: name, Release: release, BuildDate: buildDate})
}

func (h *Handler) ShowHandlerSelf(name, release string) error {
	type self struct {
		XMLName xml.Name `xml:"handler"`
		Name    string   `xml:"name"`
		Release string   `xml:"release"`
	}
	return h.enc.Encode(self{Name: name, Release: release})
}

type xmlMessage struct {
	XMLName  xml.Name `xml:"message"`
	ID       string   `xml:"id,attr"`
	Severity string   `xml:"severity,attr"`
	Offset   *int64   `xml:"offset,attr,omitempty"`
	Text     string   `xml:",chardata"`
}

type xmlProperty struct {
	XMLName  xml.Name      `xml:"property"`
	Name     string        `xml:"name,attr"`
	Type     string        `xml:"type,attr"`
	Arity    string        `xml:"arity,attr"`
	Value    string        `xml:"value,omitempty"`
	Children []xmlProperty `xml:"property,omitempty"`
}

func toXMLProperty(p prop.Property) xmlProperty {
	out := xmlProperty{Name: p.Name(), Type: p.Type().String(), Arity: p.Arity().String()}
	if p.Type() == prop.PropertyT {
		switch p.Arity() {
		case prop.List, prop.Array, prop.Set:
			for _, c := range p.Children() {
				out.Children = append(out.Children, toXMLProperty(c))
			}
		case prop.MapArity:
			for name, c := range p.MapChildren() {
				child := toXMLProperty(c)
				child.Name = name
				out.Children = append(out.Children, child)
			}
		}
		return out
	}
	out.Value = fmt.Sprintf("%v", p.Value())
	return out
}

type xmlChecksum struct {
	XMLName   xml.Name `xml:"checksum"`
	Algorithm string   `xml:"type,attr"`
	Value     string   `xml:",chardata"`
}

type xmlRepInfo struct {
	XMLName    xml.Name      `xml:"repInfo"`
	URI        string        `xml:"uri,attr"`
	Module     string        `xml:"module,attr,omitempty"`
	Format     string        `xml:"format,omitempty"`
	Version    string        `xml:"version,omitempty"`
	MIMEType   string        `xml:"mimeType,omitempty"`
	Size       int64         `xml:"size"`
	WellFormed string        `xml:"status>wellFormed"`
	Valid      string        `xml:"status>valid"`
	SigMatch   []string      `xml:"sigMatch>module,omitempty"`
	Checksums  []xmlChecksum `xml:"checksums>checksum,omitempty"`
	Messages   []xmlMessage  `xml:"messages>message,omitempty"`
	Properties []xmlProperty `xml:"properties>property,omitempty"`
}

func (h *Handler) ShowRepInfo(info *repinfo.RepInfo) error {
	out := xmlRepInfo{
		URI: info.URI, Module: info.Module, Format: info.Format, Version: info.Version,
		MIMEType: info.MIMEType, Size: info.Size,
		WellFormed: info.WellFormed.String(), Valid: info.Valid.String(),
		SigMatch: info.SigMatch,
	}
	algs := make([]string, 0, len(info.Checksums))
	for alg := range info.Checksums {
		algs = append(algs, alg)
	}
	sort.Strings(algs)
	for _, alg := range algs {
		out.Checksums = append(out.Checksums, xmlChecksum{Algorithm: alg, Value: info.Checksums[alg]})
	}
	for _, m := range info.Messages {
		out.Messages = append(out.Messages, xmlMessage{ID: m.ID, Severity: m.Severity.String(), Offset: m.Offset, Text: m.Text})
	}
	for _, p := range info.Properties {
		out.Properties = append(out.Properties, toXMLProperty(p))
	}
	return h.enc.Encode(out)
}

func (h *Handler) ShowFooter() error {
	return h.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "jhove"}})
}

func (h *Handler) Close() error {
	return h.enc.Flush()
}

func (h *Handler) StartDirectory(path string) error {
	return h.enc.EncodeToken(xml.StartElement{
		Name: xml.Name{Local: "directory"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "path"}, Value: path}},
	})
}

func (h *Handler) EndDirectory() error {
	return h.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "directory"}})
}
