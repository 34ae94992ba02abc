package merge

import (
	"sort"

	"envmerge/internal/dotenv"
)

// EntryKind partitions aligned statements.
type EntryKind int

const (
	EntryMatch EntryKind = iota
	EntryTemplateOnly
	EntryDestOnly
)

func (k EntryKind) String() string {
	switch k {
	case EntryMatch:
		return "match"
	case EntryTemplateOnly:
		return "template-only"
	case EntryDestOnly:
		return "dest-only"
	default:
		return "unknown"
	}
}

// Entry pairs statement positions across the two analyses. Indexes refer to
// the collapsed statement sequences; -1 marks the absent side.
type Entry struct {
	Kind        EntryKind
	TemplateIdx int
	DestIdx     int
	Sig         dotenv.Signature
	HasSig      bool
}

// Align pairs the two statement sequences by signature and orders the
// result so that matched and destination-only entries preserve the
// destination's physical layout, with template-only entries appended after
// them in template order. Signature lookups are first-occurrence: a
// duplicated destination signature matches once and its later duplicates
// surface as destination-only.
func Align(tpl, dst *dotenv.Analysis) []Entry {
	dstStmts := dst.Statements()
	bySig := make(map[dotenv.Signature]int, len(dstStmts))
	for i, st := range dstStmts {
		sig, ok := dst.Signature(st)
		if !ok {
			continue
		}
		if _, seen := bySig[sig]; !seen {
			bySig[sig] = i
		}
	}

	consumed := make([]bool, len(dstStmts))
	entries := make([]Entry, 0, len(dstStmts)+len(tpl.Statements()))

	for ti, st := range tpl.Statements() {
		sig, ok := tpl.Signature(st)
		if ok {
			if di, hit := bySig[sig]; hit && !consumed[di] {
				consumed[di] = true
				entries = append(entries, Entry{
					Kind:        EntryMatch,
					TemplateIdx: ti,
					DestIdx:     di,
					Sig:         sig,
					HasSig:      true,
				})
				continue
			}
		}
		entries = append(entries, Entry{
			Kind:        EntryTemplateOnly,
			TemplateIdx: ti,
			DestIdx:     -1,
			Sig:         sig,
			HasSig:      ok,
		})
	}

	for di, st := range dstStmts {
		if consumed[di] {
			continue
		}
		sig, ok := dst.Signature(st)
		entries = append(entries, Entry{
			Kind:        EntryDestOnly,
			TemplateIdx: -1,
			DestIdx:     di,
			Sig:         sig,
			HasSig:      ok,
		})
	}

	// Destination-anchored entries first, in destination order; new template
	// content is appended, never interleaved into the maintained file.
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if (a.Kind == EntryTemplateOnly) != (b.Kind == EntryTemplateOnly) {
			return b.Kind == EntryTemplateOnly
		}
		if a.Kind == EntryTemplateOnly {
			return a.TemplateIdx < b.TemplateIdx
		}
		return a.DestIdx < b.DestIdx
	})

	return entries
}
