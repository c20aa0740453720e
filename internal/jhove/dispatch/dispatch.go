// Package dispatch implements the Dispatcher: given a filesystem path (or
// a directory to sweep), it identifies candidate modules by signature,
// runs the winning module's Parse, computes checksums, and hands the
// resulting RepInfo to a Handler.
//
// The directory-sweep and per-file bookkeeping (session naming, progress
// counters, continue-past-a-single-file-failure policy) is grounded on
// the teacher's internal/scan.go Scan/ScanPartition: the same
// discover-then-iterate-then-report shape, retargeted from carving a disk
// image's partitions to walking a directory tree of individual files.
package dispatch

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ostafen/digler/internal/jhove/bin"
	"github.com/ostafen/digler/internal/jhove/checksum"
	"github.com/ostafen/digler/internal/jhove/handler"
	"github.com/ostafen/digler/internal/jhove/log"
	"github.com/ostafen/digler/internal/jhove/module"
	"github.com/ostafen/digler/internal/jhove/msg"
	"github.com/ostafen/digler/internal/jhove/repinfo"
	"github.com/ostafen/digler/internal/jhove/sig"
)

// registeredModule pairs a module's static signatures with its runtime
// interface, since both SequentialModule and RandomAccessModule need to
// be candidates in the same registry.
type registeredModule struct {
	descriptor module.Descriptor
	random     module.RandomAccessModule
	sequential module.SequentialModule
	// params overrides Options.Parameters for this module only, so a
	// per-module setting (e.g. EPUB's external validator path) doesn't
	// leak into every other registered module's Options.
	params string
}

// Dispatcher owns the module registry and drives characterization runs.
type Dispatcher struct {
	modules []registeredModule
	matcher *sig.Matcher
	opts    module.Options
	// Checksums lists which digests to compute per file; nil disables
	// checksum computation.
	Checksums []checksum.Algorithm
	// Progress, when non-nil, receives one line per file as the sweep
	// finishes with it — for a human watching a long-running run rather
	// than the structured per-run diagnostics a Handler's own report
	// carries.
	Progress *log.Progress
	// Logger, when non-nil, receives one structured record per file
	// parsed (module, path, elapsed time, error), matching the
	// teacher's ScanPartition diagnostic logging.
	Logger *slog.Logger
}

func New(opts module.Options) *Dispatcher {
	return &Dispatcher{matcher: sig.NewMatcher(), opts: opts}
}

// RegisterRandomAccess adds a seek-heavy module (TIFF, JPEG) to the
// registry.
func (d *Dispatcher) RegisterRandomAccess(m module.RandomAccessModule) {
	desc := m.Descriptor()
	d.modules = append(d.modules, registeredModule{descriptor: desc, random: m})
	d.matcher.Register(desc.Name, desc.Signatures)
}

// RegisterSequential adds a forward-only module to the registry.
func (d *Dispatcher) RegisterSequential(m module.SequentialModule) {
	desc := m.Descriptor()
	d.modules = append(d.modules, registeredModule{descriptor: desc, sequential: m})
	d.matcher.Register(desc.Name, desc.Signatures)
}

// SetModuleParameters overrides Options.Parameters for the named module
// only, once it has been registered.
func (d *Dispatcher) SetModuleParameters(name, params string) {
	if rm := d.find(name); rm != nil {
		rm.params = params
	}
}

// Descriptors returns the static metadata of every registered module, in
// registration order, for a "list supported formats" command.
func (d *Dispatcher) Descriptors() []module.Descriptor {
	out := make([]module.Descriptor, len(d.modules))
	for i, rm := range d.modules {
		out[i] = rm.descriptor
	}
	return out
}

func (d *Dispatcher) find(name string) *registeredModule {
	for i := range d.modules {
		if d.modules[i].descriptor.Name == name {
			return &d.modules[i]
		}
	}
	return nil
}

// ProcessPath characterizes a single file and reports it through h. A
// failure opening or reading the file is returned to the caller; a
// failure inside a module's own Parse is captured as a Fatal Message on
// the RepInfo instead, so one bad file never aborts a directory sweep.
func (d *Dispatcher) ProcessPath(path string, h handler.Handler) error {
	if d.opts.Aborted() {
		return nil
	}
	if !h.OkToProcess(path) {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}

	src := bin.NewSource(f, st.Size())
	return d.process(path, src, f, st.Size(), st.ModTime(), h)
}

// ProcessSource characterizes a single file the same way ProcessPath does,
// but reads it through a caller-supplied bin.Source instead of opening the
// path itself — the entry point mmap-backed sources use to avoid a
// read(2) syscall per field access on very large files. size and modTime
// still describe the underlying file, since src alone doesn't carry a
// modification time.
func (d *Dispatcher) ProcessSource(path string, src bin.Source, size int64, modTime time.Time, h handler.Handler) error {
	if d.opts.Aborted() {
		return nil
	}
	if !h.OkToProcess(path) {
		return nil
	}
	rs := io.NewSectionReader(src, 0, size)
	return d.process(path, src, rs, size, modTime, h)
}

// process holds the logic shared by ProcessPath and ProcessSource: RepInfo
// construction, prefix-based candidate matching, module dispatch and
// reporting. rs backs sequential modules, which need Seek; src backs
// random-access modules, which only need ReadAt.
func (d *Dispatcher) process(path string, src bin.Source, rs io.ReadSeeker, size int64, modTime time.Time, h handler.Handler) error {
	info := repinfo.New(path)
	info.Size = size
	info.LastModified = modTime

	// Any requested digests are computed by tee-ing the same src the
	// module's own Parse reads from, per spec.md §4.H ("a tee over the
	// input stream ... in a single pass co-mingled with parse") — not by
	// re-opening and re-reading the file once parsing is done.
	var tee *checksum.TeeSource
	if len(d.Checksums) > 0 {
		tee = checksum.NewTee(src, d.Checksums...)
		src = tee
		rs = io.NewSectionReader(tee, 0, size)
	}
	finalizeChecksums := func() {
		if tee == nil {
			return
		}
		for k, v := range tee.Finish() {
			info.Checksums[k] = v
		}
	}

	ext := extOf(path)

	prefixLen := d.matcher.PrefixLen()
	if int64(prefixLen) > size {
		prefixLen = int(size)
	}
	prefix, err := bin.New(src).ReadBytes(0, prefixLen)
	if err != nil && prefixLen > 0 {
		info.AddMessage(msg.NewFatal("PKG-1", fmt.Sprintf("could not read file prefix: %v", err)))
		finalizeChecksums()
		return h.Analyze(info)
	}

	candidates := d.matcher.Candidates(prefix, ext)
	if len(candidates) == 0 {
		info.AddMessage(msg.NewInfo("PKG-2", "no module recognized this file's signature"))
		finalizeChecksums()
		return d.finish(info, h)
	}

	winner := d.find(candidates[0].Module)
	if winner == nil {
		info.AddMessage(msg.NewFatal("PKG-3", fmt.Sprintf("module %q registered a signature but is not resolvable", candidates[0].Module)))
		finalizeChecksums()
		return d.finish(info, h)
	}
	info.Module = winner.descriptor.Name

	moduleOpts := d.opts
	if winner.params != "" {
		moduleOpts.Parameters = winner.params
	}
	start := time.Now()
	err = d.runModule(winner, src, rs, info, moduleOpts)
	d.logParse(path, winner.descriptor.Name, time.Since(start), err)
	finalizeChecksums()
	if err != nil {
		return err
	}

	return d.finish(info, h)
}

// logParse emits a structured per-file diagnostic record the way
// scan.ScanPartition logs each partition it carves — module name, path,
// elapsed time and any Go-level error the module returned (not a Message
// added to the RepInfo, which is reported through the Handler instead).
func (d *Dispatcher) logParse(path, moduleName string, elapsed time.Duration, err error) {
	if d.Logger == nil {
		return
	}
	if err != nil {
		d.Logger.Error("parse failed", "module", moduleName, "path", path, "elapsed", elapsed, "error", err)
		return
	}
	d.Logger.Info("parsed", "module", moduleName, "path", path, "elapsed", elapsed)
}

func (d *Dispatcher) runModule(rm *registeredModule, src bin.Source, rs io.ReadSeeker, info *repinfo.RepInfo, opts module.Options) error {
	switch {
	case rm.random != nil:
		if err := rm.random.CheckSignatures(rm.descriptor.Name, src, info); err != nil {
			return nil
		}
		if err := rm.random.Parse(src, info, opts); err != nil {
			info.AddMessage(msg.NewFatal("PKG-4", err.Error()))
		}
	case rm.sequential != nil:
		if _, err := rs.Seek(0, 0); err != nil {
			return fmt.Errorf("dispatch: %w", err)
		}
		if err := rm.sequential.CheckSignatures(rm.descriptor.Name, rs, info); err != nil {
			return nil
		}
		parseIndex := 0
		for {
			if _, err := rs.Seek(0, 0); err != nil {
				return fmt.Errorf("dispatch: %w", err)
			}
			next, err := rm.sequential.Parse(rs, info, parseIndex, opts)
			if err != nil {
				info.AddMessage(msg.NewFatal("PKG-4", err.Error()))
				break
			}
			if next == 0 {
				break
			}
			parseIndex = next
		}
	}
	return nil
}

func (d *Dispatcher) finish(info *repinfo.RepInfo, h handler.Handler) error {
	if d.Progress != nil {
		d.Progress.FileDone(info.URI, info.Module, info.WellFormed.String(), info.Valid.String())
	}
	if err := h.Analyze(info); err != nil {
		return err
	}
	return h.ShowRepInfo(info)
}

func extOf(path string) string {
	e := filepath.Ext(path)
	if len(e) > 0 && e[0] == '.' {
		e = e[1:]
	}
	return e
}

// Sweep walks root, characterizing every regular file it finds and
// reporting each through h between StartDirectory/EndDirectory brackets
// per directory, matching the teacher's Scan's discover-then-iterate
// shape but over a filesystem tree instead of a disk image's partitions.
func (d *Dispatcher) Sweep(root string, h handler.Handler) error {
	st, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !st.IsDir() {
		return d.ProcessPath(root, h)
	}
	return d.sweepDir(root, h)
}

func (d *Dispatcher) sweepDir(dir string, h handler.Handler) error {
	d.Progress.Debugf("entering directory %s", dir)
	if err := h.StartDirectory(dir); err != nil {
		return err
	}
	defer h.EndDirectory()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, e := range entries {
		if d.opts.Aborted() {
			return nil
		}
		full := filepath.Join(dir, e.Name())
		if e.IsDir() {
			if err := d.sweepDir(full, h); err != nil {
				return err
			}
			continue
		}
		if err := d.ProcessPath(full, h); err != nil {
			return err
		}
	}
	return nil
}
