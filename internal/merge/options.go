// Package merge aligns two parsed dotenv files and resolves, per logical
// entry, which side's content survives. Frozen destination content always
// wins; everything else follows the configured preference.
package merge

import (
	"go.uber.org/zap"

	"envmerge/internal/dotenv"
	"envmerge/internal/mergekit"
)

// ClassifyFunc tags a statement with a type tag consulted by the typed
// preference mapping. Return ok=false for statements that carry no tag.
type ClassifyFunc func(dotenv.Statement) (string, bool)

// Preference selects the winning side for a matched entry. The zero value
// prefers the destination. When Rules is non-nil the typed mapping applies:
// the template statement's recognized tag wins first, then the destination
// statement's, then Default.
type Preference struct {
	Side    mergekit.Side
	Rules   map[string]mergekit.Side
	Default mergekit.Side
}

// PreferTemplate is a fixed always-take-the-template preference. Frozen
// destination blocks still override it.
func PreferTemplate() Preference {
	return Preference{Side: mergekit.SideTemplate}
}

// PreferDestination is the default fixed preference.
func PreferDestination() Preference {
	return Preference{Side: mergekit.SideDestination}
}

// resolve picks the effective side for a match given each side's tag.
func (p Preference) resolve(tplTag string, tplOK bool, dstTag string, dstOK bool) mergekit.Side {
	if p.Rules == nil {
		return p.Side
	}
	if tplOK {
		if s, ok := p.Rules[tplTag]; ok {
			return s
		}
	}
	if dstOK {
		if s, ok := p.Rules[dstTag]; ok {
			return s
		}
	}
	return p.Default
}

// Options configures one merge call. The zero value is usable: destination
// preference, no appending, the default freeze token, and a no-op logger.
type Options struct {
	Preference Preference

	// AppendTemplateOnly appends template-only assignments (and frozen
	// blocks) after all destination-derived output. Template-only comments,
	// blanks, and invalid lines are suppressed regardless.
	AppendTemplateOnly bool

	// FreezeToken is the marker namespace; empty means
	// mergekit.DefaultFreezeToken.
	FreezeToken string

	// Signature optionally overrides signature generation on both sides.
	Signature dotenv.SignatureFunc

	// Classify optionally tags statements for the typed preference mapping.
	Classify ClassifyFunc

	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.FreezeToken == "" {
		o.FreezeToken = mergekit.DefaultFreezeToken
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
