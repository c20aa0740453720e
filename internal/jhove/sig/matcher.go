// Package sig implements signature-based module identification: fixed
// magic byte sequences at fixed offsets ("internal" signatures) plus
// advisory filename-extension hints ("external" signatures).
//
// The matching structure is reused directly from the teacher's
// pkg/table.PrefixTable[T] (a generic byte-prefix hash table originally
// used by format.FileRegistry to map a carved file's leading bytes to the
// FileHeader that declared them). It is domain-agnostic infrastructure —
// nothing about it is specific to file carving — so it is kept as-is and
// simply re-parameterized here over []Signature-bearing module names
// instead of digler's headers.
package sig

import (
	"github.com/ostafen/digler/pkg/table"
)

// Kind distinguishes a fixed-offset magic signature from an advisory
// extension hint.
type Kind int

const (
	Internal Kind = iota
	External
)

// Signature is one way a module declares "this looks like my format".
type Signature struct {
	Kind      Kind
	Pattern   []byte // Internal: the magic byte sequence.
	Offset    int64  // Internal: absolute offset the pattern must appear at.
	Mandatory bool   // Internal: a hit ranks above optional and extension-only hits.
	Ext       string // External: file extension, without the leading dot.
}

// Candidate is a module proposed by the matcher for a given input,
// ranked by how strong its evidence is.
type Candidate struct {
	Module   string
	Priority int
}

const (
	priorityExternal        = 1
	priorityInternalOptional = 2
	priorityInternalMandatory = 3
)

type registration struct {
	module     string
	signatures []Signature
	order      int
}

// Matcher ranks candidate modules from a file's leading bytes and/or its
// extension. It never advances or retains a reference to the caller's
// stream: callers pass a byte slice, so "does not advance the stream past
// its declared prefix" holds by construction.
type Matcher struct {
	table        *table.PrefixTable[[]*registration]
	byExt        map[string][]*registration
	regs         []*registration
	longestPrefix int
}

func NewMatcher() *Matcher {
	return &Matcher{
		table: table.New[[]*registration](),
		byExt: map[string][]*registration{},
	}
}

// Register adds a module's declared signatures under the given module
// name. Registration order is preserved and used to break priority ties.
func (m *Matcher) Register(moduleName string, signatures []Signature) {
	reg := &registration{module: moduleName, signatures: signatures, order: len(m.regs)}
	m.regs = append(m.regs, reg)

	for _, s := range signatures {
		switch s.Kind {
		case Internal:
			existing, _ := m.table.Get(s.Pattern)
			m.table.Insert(s.Pattern, append(existing, reg))
			if need := int(s.Offset) + len(s.Pattern); need > m.longestPrefix {
				m.longestPrefix = need
			}
		case External:
			ext := s.Ext
			m.byExt[ext] = append(m.byExt[ext], reg)
		}
	}
}

// PrefixLen returns the number of leading bytes a caller should read
// before calling Candidates, i.e. the longest offset+pattern length across
// every registered internal signature.
func (m *Matcher) PrefixLen() int {
	if m.longestPrefix == 0 {
		return 64
	}
	return m.longestPrefix
}

// Candidates ranks modules whose declared signatures are satisfied by
// prefix (the file's leading bytes, at least PrefixLen() long when
// available) and/or ext (a filename extension, without leading dot,
// case-sensitive as declared). Mandatory internal hits outrank
// extension-only hits; ties are broken by registration order.
func (m *Matcher) Candidates(prefix []byte, ext string) []Candidate {
	seen := map[string]int{} // module -> best priority so far
	order := map[string]int{}

	consider := func(reg *registration, priority int) {
		if p, ok := seen[reg.module]; !ok || priority > p {
			seen[reg.module] = priority
			order[reg.module] = reg.order
		}
	}

	m.table.Walk(prefix, func(regs []*registration) bool {
		for _, reg := range regs {
			for _, s := range reg.signatures {
				if s.Kind != Internal {
					continue
				}
				if matchesAt(prefix, s) {
					if s.Mandatory {
						consider(reg, priorityInternalMandatory)
					} else {
						consider(reg, priorityInternalOptional)
					}
				}
			}
		}
		return false
	})

	if ext != "" {
		for _, reg := range m.byExt[ext] {
			consider(reg, priorityExternal)
		}
	}

	out := make([]Candidate, 0, len(seen))
	for module, priority := range seen {
		out = append(out, Candidate{Module: module, Priority: priority})
	}
	sortCandidates(out, order)
	return out
}

func matchesAt(data []byte, s Signature) bool {
	end := s.Offset + int64(len(s.Pattern))
	if s.Offset < 0 || end > int64(len(data)) {
		return false
	}
	region := data[s.Offset:end]
	for i, b := range s.Pattern {
		if region[i] != b {
			return false
		}
	}
	return true
}

// sortCandidates orders by descending priority, then ascending
// registration order, without pulling in "sort" for a handful of items in
// the common case; falls back to a straightforward insertion sort, stable
// and simple, matching the teacher's own preference for small hand-rolled
// loops over generic sort in hot, tiny-N paths (see format.FileRegistry).
func sortCandidates(cands []Candidate, order map[string]int) {
	for i := 1; i < len(cands); i++ {
		j := i
		for j > 0 && less(cands[j], cands[j-1], order) {
			cands[j], cands[j-1] = cands[j-1], cands[j]
			j--
		}
	}
}

func less(a, b Candidate, order map[string]int) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return order[a.Module] < order[b.Module]
}
