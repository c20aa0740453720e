// Package module defines the contract every format module implements,
// grounded on the teacher's format.FileScanner interface
// (Ext/Description/Signatures/ScanFile), generalized from "one scan
// function that returns a size" into the full descriptor + signature-check
// + parse + reset contract spec.md requires.
package module

import (
	"io"
	"sync/atomic"

	"github.com/ostafen/digler/internal/jhove/bin"
	"github.com/ostafen/digler/internal/jhove/repinfo"
	"github.com/ostafen/digler/internal/jhove/sig"
)

// Descriptor is a module's static metadata. Identity of a module is
// (Name, Release).
type Descriptor struct {
	Name           string
	Release        string
	Date           string
	Vendor         string
	Note           string
	Rights         string
	Formats        []string
	MIMETypes      []string
	Signatures     []sig.Signature
	Specifications []string
}

// Options are the two configuration flags every module must honor, plus
// per-run parse controls threaded down from the CLI.
type Options struct {
	// Raw emits bitfield/enumeration Properties as integers rather than
	// interpreted labels.
	Raw bool
	// Verbose includes low-level segment detail in the Property tree.
	Verbose bool
	// SuppressErrors downgrades a bubbled Fatal to an Info message and
	// stops chain-following instead of returning an error.
	SuppressErrors bool
	// ByteOffsetIsValid permits odd out-of-line TIFF value offsets,
	// downgrading what would otherwise be fatal to an Info message.
	ByteOffsetIsValid bool
	// DebugAllowOutOfSequence suppresses the strict-ascending-tag check;
	// exists for parity with the original's DEBUG_ALLOW_OUT_OF_SEQUENCE
	// and must never be set outside a debug build.
	DebugAllowOutOfSequence bool
	// Parameters is an opaque, module-specific configuration string set by
	// the host before Parse (e.g. an external validator path for EPUB).
	Parameters string
	// Abort is the cooperative cancellation flag shared across a run.
	// Modules check it between IFDs/segments/frames, never mid-entry, and
	// return promptly without treating cancellation as a parse failure.
	Abort *atomic.Bool
}

// Aborted reports whether the run has been asked to stop. A nil Abort
// (the zero Options value) never aborts.
func (o Options) Aborted() bool {
	return o.Abort != nil && o.Abort.Load()
}

// SequentialModule is implemented by formats characterized with a single
// forward-only pass (possibly re-invoked with a fresh stream when Parse
// returns a nonzero next-pass index).
type SequentialModule interface {
	Descriptor() Descriptor
	CheckSignatures(name string, r io.Reader, info *repinfo.RepInfo) error
	// Parse consumes r, populates info, and returns 0 when the file has
	// been fully characterized or a nonzero index to request
	// re-invocation with a fresh stream on the same file.
	Parse(r io.Reader, info *repinfo.RepInfo, parseIndex int, opts Options) (nextParseIndex int, err error)
	Reset()
}

// RandomAccessModule is implemented by seek-heavy formats (TIFF, JPEG's
// embedded EXIF, PDF-shaped formats). The dispatcher refuses to invoke one
// of these against non-seekable input.
type RandomAccessModule interface {
	Descriptor() Descriptor
	IsRandomAccess() bool
	CheckSignatures(name string, src bin.Source, info *repinfo.RepInfo) error
	Parse(src bin.Source, info *repinfo.RepInfo, opts Options) error
	Reset()
}
