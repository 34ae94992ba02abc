package merge

import (
	"envmerge/internal/dotenv"
	"envmerge/internal/mergekit"
)

// Format is the capability pair a merge engine is parameterized over: how
// to analyze one side's text and how to render the accumulated output. The
// line-oriented dotenv format is the only implementation here; stricter
// formats slot in their own pair without touching the engine.
type Format struct {
	Parse  func(side mergekit.Side, text string, o Options) (*dotenv.Analysis, error)
	Render func(*Result) string
}

// Dotenv returns the line-oriented KEY=value format pair.
func Dotenv() Format {
	return Format{
		Parse: func(side mergekit.Side, text string, o Options) (*dotenv.Analysis, error) {
			o = o.withDefaults()
			a := dotenv.Analyze(text,
				dotenv.WithFreezeToken(o.FreezeToken),
				dotenv.WithSignatureFunc(o.Signature),
				dotenv.WithLogger(o.Logger.Named(side.String())),
			)
			return a, nil
		},
		Render: (*Result).Render,
	}
}

// Merge merges template into destination with the dotenv format.
func Merge(template, destination string, o Options) (*Result, error) {
	return Dotenv().Merge(template, destination, o)
}

// MergeText merges and renders in one call, returning the output text next
// to its audit trail.
func (f Format) MergeText(template, destination string, o Options) (string, *Result, error) {
	res, err := f.Merge(template, destination, o)
	if err != nil {
		return "", nil, err
	}
	return f.Render(res), res, nil
}

// Merge runs the full pipeline: analyze both sides, align, resolve. The
// dotenv analyzer never fails, but parse errors from stricter formats come
// back tagged with the side they occurred on.
func (f Format) Merge(template, destination string, o Options) (*Result, error) {
	o = o.withDefaults()

	tpl, err := f.Parse(mergekit.SideTemplate, template, o)
	if err != nil {
		return nil, mergekit.WrapAnalysis(mergekit.SideTemplate, err)
	}
	dst, err := f.Parse(mergekit.SideDestination, destination, o)
	if err != nil {
		return nil, mergekit.WrapAnalysis(mergekit.SideDestination, err)
	}

	res := NewResult()
	resolve(Align(tpl, dst), tpl, dst, o, res)
	return res, nil
}
