package merge

import (
	"envmerge/internal/dotenv"
	"envmerge/internal/mergekit"
)

// resolve walks the alignment and appends each surviving entry's lines to
// the result. Precedence, highest first: frozen destination content, then
// the configured preference, then the side-specific defaults for unmatched
// entries. Suppressed template-only entries contribute no decision record.
func resolve(entries []Entry, tpl, dst *dotenv.Analysis, o Options, res *Result) {
	for _, e := range entries {
		switch e.Kind {
		case EntryMatch:
			ds := dst.StatementAt(e.DestIdx)
			if ds.Kind == dotenv.KindFrozen {
				// Overrides every preference, including a fixed
				// prefer-template configuration.
				res.Append(ds.Lines(), Decision{
					Kind:  FrozenPreserved,
					Side:  mergekit.SideDestination,
					Index: e.DestIdx,
					Span:  ds.Span,
				})
				continue
			}
			ts := tpl.StatementAt(e.TemplateIdx)
			if winner(o, ts, ds) == mergekit.SideTemplate {
				res.Append(ts.Lines(), Decision{
					Kind:  FromTemplate,
					Side:  mergekit.SideTemplate,
					Index: e.TemplateIdx,
					Span:  ts.Span,
				})
			} else {
				res.Append(ds.Lines(), Decision{
					Kind:  FromDestination,
					Side:  mergekit.SideDestination,
					Index: e.DestIdx,
					Span:  ds.Span,
				})
			}

		case EntryTemplateOnly:
			if !o.AppendTemplateOnly {
				continue
			}
			ts := tpl.StatementAt(e.TemplateIdx)
			switch ts.Kind {
			case dotenv.KindAssignment, dotenv.KindFrozen:
				res.Append(ts.Lines(), Decision{
					Kind:  Appended,
					Side:  mergekit.SideTemplate,
					Index: e.TemplateIdx,
					Span:  ts.Span,
				})
			case dotenv.KindComment, dotenv.KindBlank, dotenv.KindInvalid:
				// Never appended, flag or not.
			}

		case EntryDestOnly:
			ds := dst.StatementAt(e.DestIdx)
			kind := FromDestination
			if ds.Kind == dotenv.KindFrozen {
				kind = FrozenPreserved
			}
			res.Append(ds.Lines(), Decision{
				Kind:  kind,
				Side:  mergekit.SideDestination,
				Index: e.DestIdx,
				Span:  ds.Span,
			})
		}
	}
}

// winner resolves the effective preference for a non-frozen match.
func winner(o Options, ts, ds dotenv.Statement) mergekit.Side {
	var tplTag, dstTag string
	var tplOK, dstOK bool
	if o.Classify != nil {
		tplTag, tplOK = o.Classify(ts)
		dstTag, dstOK = o.Classify(ds)
	}
	return o.Preference.resolve(tplTag, tplOK, dstTag, dstOK)
}
