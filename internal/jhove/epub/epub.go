// Package epub implements the EPUB module as an external-oracle wrapper:
// it never parses OCF/OPF/OPS itself, it shells out to a configured
// EPUBCheck-compatible validator binary and translates that tool's
// structured report into RepInfo messages and properties.
//
// Grounded on original_source's EpubModule.java, which does the same
// translation in-process against the JVM epubcheck library (constructing
// an EpubCheck, collecting its CheckMessage severities, and mapping
// FATAL/ERROR/WARNING messages onto RepInfo.WellFormed/Valid). Go has no
// equivalent in-process OCF validator in the retrieved pack, so this
// module keeps the same "treat the checker as an opaque oracle" shape but
// invokes it as a subprocess via os/exec, the way a Go tool composes with
// an existing JVM or native CLI it doesn't want to reimplement.
package epub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/ostafen/digler/internal/jhove/module"
	"github.com/ostafen/digler/internal/jhove/msg"
	"github.com/ostafen/digler/internal/jhove/prop"
	"github.com/ostafen/digler/internal/jhove/repinfo"
	"github.com/ostafen/digler/internal/jhove/sig"
)

const (
	epubMediaType = "application/epub+zip"
	formatName    = "EPUB"
)

// Module wraps an external EPUB validator. Options.Parameters carries the
// validator's executable path; an empty value means no validator is
// configured.
type Module struct{}

func New() *Module { return &Module{} }

func (m *Module) Descriptor() module.Descriptor {
	return module.Descriptor{
		Name:      "EPUB-ptc",
		Release:   "1.0",
		Date:      "2026-08-06",
		Vendor:    "International Digital Publishing Forum",
		Note:      "This module delegates EPUB validation to an external EPUBCheck-compatible validator.",
		Formats:   []string{formatName},
		MIMETypes: []string{epubMediaType},
		Signatures: []sig.Signature{
			{Kind: sig.Internal, Pattern: []byte("PK"), Offset: 0, Mandatory: true},
			{Kind: sig.Internal, Pattern: []byte("mimetype"), Offset: 30, Mandatory: false},
			{Kind: sig.External, Ext: "epub"},
		},
		Specifications: []string{"EPUB 3.2"},
	}
}

func (m *Module) Reset() {}

// CheckSignatures reads the leading bytes of a stream, which the
// dispatcher has already narrowed to the module's registered signatures;
// nothing further to verify against a forward-only stream, so this always
// succeeds once dispatch has selected this module.
func (m *Module) CheckSignatures(name string, r io.Reader, info *repinfo.RepInfo) error {
	info.SigMatch = append(info.SigMatch, name)
	info.Format = formatName
	info.MIMEType = epubMediaType
	return nil
}

// validatorIssue is one entry in an EPUBCheck-style JSON report's
// "messages" array.
type validatorIssue struct {
	ID       string `json:"ID"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Path     string `json:"path,omitempty"`
	Line     int    `json:"line,omitempty"`
}

// validatorReport is the subset of an EPUBCheck --json report this module
// consumes.
type validatorReport struct {
	Messages []validatorIssue `json:"messages"`
	Metadata struct {
		Version string `json:"version"`
		Title   string `json:"title"`
		Creator []string `json:"creator"`
		Language string `json:"language"`
		Publisher string `json:"publisher"`
	} `json:"publication"`
}

// Parse invokes the configured validator against the EPUB at info.URI and
// translates its report. A single pass is sufficient, so it always
// returns a next-pass index of 0.
func (m *Module) Parse(r io.Reader, info *repinfo.RepInfo, parseIndex int, opts module.Options) (int, error) {
	info.SetWellFormed(repinfo.False)
	info.SetValid(repinfo.False)

	if opts.Parameters == "" {
		info.AddMessage(msg.NewInfo("EPUB-1", "no external validator configured; structural validation was skipped"))
		info.SetWellFormed(repinfo.Undetermined)
		info.SetValid(repinfo.Undetermined)
		return 0, nil
	}

	tmp, err := stageToTempFile(r)
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp)

	if opts.Aborted() {
		return 0, nil
	}

	report, err := runValidator(opts.Parameters, tmp)
	if err != nil {
		info.AddMessage(msg.NewError("EPUB-2", "external validator failed: "+err.Error()))
		return 0, nil
	}

	fatal, errorCount := 0, 0
	for _, issue := range report.Messages {
		sev := severityOf(issue.Severity)
		switch sev {
		case msg.Fatal:
			fatal++
		case msg.Error:
			errorCount++
		}
		info.AddMessage(messageFor("EPUB-"+issue.ID, issue.Message, sev, int64(issue.Line)))
	}

	if fatal == 0 {
		info.SetWellFormed(repinfo.True)
	}
	if fatal == 0 && errorCount == 0 {
		info.SetValid(repinfo.True)
	}

	if report.Metadata.Version != "" {
		info.Version = report.Metadata.Version
	}
	info.AddProperty(metadataProperty(report))

	return 0, nil
}

// messageFor builds a Message at the severity EPUBCheck reported, since
// this module's whole job is to relay the oracle's own verdicts rather
// than reinterpret them.
func messageFor(id, text string, sev msg.Severity, line int64) msg.Message {
	switch sev {
	case msg.Fatal:
		return msg.NewFatalAt(id, text, line)
	case msg.Error:
		return msg.NewErrorAt(id, text, line)
	case msg.Warning:
		return msg.NewWarningAt(id, text, line)
	default:
		return msg.NewInfoAt(id, text, line)
	}
}

func severityOf(s string) msg.Severity {
	switch s {
	case "FATAL":
		return msg.Fatal
	case "ERROR":
		return msg.Error
	case "WARNING", "USAGE":
		return msg.Warning
	default:
		return msg.Info
	}
}

func metadataProperty(report *validatorReport) prop.Property {
	fields := map[string]prop.Property{
		"Title":     prop.NewString("Title", report.Metadata.Title),
		"Language":  prop.NewString("Language", report.Metadata.Language),
		"Publisher": prop.NewString("Publisher", report.Metadata.Publisher),
	}
	if len(report.Metadata.Creator) > 0 {
		fields["Creator"] = prop.NewStringArray("Creator", report.Metadata.Creator)
	}
	return prop.NewMap("EPUBMetadata", fields)
}

func stageToTempFile(r io.Reader) (string, error) {
	f, err := os.CreateTemp("", "jhove-epub-*.epub")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func runValidator(binPath, epubPath string) (*validatorReport, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cmd := exec.CommandContext(ctx, binPath, "--json", "-", epubPath)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// EPUBCheck itself exits nonzero when it finds validation errors, so a
	// nonzero exit is not by itself a failure to run the tool; only a
	// missing/unparseable report is.
	_ = cmd.Run()

	var report validatorReport
	if err := json.Unmarshal(stdout.Bytes(), &report); err != nil {
		if stderr.Len() > 0 {
			return nil, errors.New(stderr.String())
		}
		return nil, err
	}
	return &report, nil
}
