// Package repinfo implements RepInfo, the per-file result container every
// module populates and every Handler renders. It is grounded on the
// teacher's format.ScanResult / format.FileInfo (plain result structs with
// no behavior beyond field access), generalized to also enforce the
// three-valued well-formed/valid invariants at the point of mutation so no
// caller can build an inconsistent result by omission.
package repinfo

import (
	"time"

	"github.com/ostafen/digler/internal/jhove/msg"
	"github.com/ostafen/digler/internal/jhove/prop"
)

// Tribool is JHOVE's three-valued logic: Undetermined is distinct from
// False, never collapsed into a nullable bool.
type Tribool int

const (
	Undetermined Tribool = iota
	True
	False
)

func (t Tribool) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "undetermined"
	}
}

// RepInfo is the per-file characterization result. RepInfo exclusively
// owns its Properties and Messages; nothing else may append to them except
// through AddProperty/AddMessage.
type RepInfo struct {
	URI          string
	Module       string
	Format       string
	Version      string
	MIMEType     string
	Size         int64
	Created      time.Time
	LastModified time.Time
	WellFormed   Tribool
	Valid        Tribool
	SigMatch     []string
	Properties   []prop.Property
	Messages     []msg.Message
	Checksums    map[string]string
}

// New returns a fresh RepInfo for uri with both status fields
// Undetermined, per spec: characterization has not run yet, so neither
// question has been answered.
func New(uri string) *RepInfo {
	return &RepInfo{
		URI:        uri,
		WellFormed: Undetermined,
		Valid:      Undetermined,
		Checksums:  map[string]string{},
	}
}

// AddProperty appends p to the top-level property list, preserving
// discovery order.
func (r *RepInfo) AddProperty(p prop.Property) {
	r.Properties = append(r.Properties, p)
}

// AddMessage appends m and enforces the invariants from spec §8: a Fatal
// message always sets WellFormed = False; an Error or Fatal message always
// sets Valid = False. A Warning or Info message never downgrades either
// field on its own.
func (r *RepInfo) AddMessage(m msg.Message) {
	r.Messages = append(r.Messages, m)
	switch m.Severity {
	case msg.Fatal:
		r.WellFormed = False
		r.Valid = False
	case msg.Error:
		r.Valid = False
	}
}

func (r *RepInfo) SetWellFormed(v Tribool) { r.WellFormed = v }
func (r *RepInfo) SetValid(v Tribool)      { r.Valid = v }

// HasFatal reports whether any accumulated message is Fatal.
func (r *RepInfo) HasFatal() bool {
	for _, m := range r.Messages {
		if m.Severity == msg.Fatal {
			return true
		}
	}
	return false
}

// HasErrorOrFatal reports whether any accumulated message is Error or
// Fatal, i.e. whether Valid may legitimately be True.
func (r *RepInfo) HasErrorOrFatal() bool {
	for _, m := range r.Messages {
		if m.Severity == msg.Error || m.Severity == msg.Fatal {
			return true
		}
	}
	return false
}
