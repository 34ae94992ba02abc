package dotenv

import (
	"strings"

	"go.uber.org/zap"

	"envmerge/internal/mergekit"
)

// Analysis is the immutable result of parsing one source text: the full
// line-by-line parse, the collapsed statement sequence with frozen ranges
// folded into single KindFrozen entries, and a key index over the non-frozen
// assignments. Construct with Analyze; never mutate afterwards.
type Analysis struct {
	lines  []Statement
	stmts  []Statement
	blocks []*FrozenBlock
	byKey  map[string]int
	sigFn  SignatureFunc
}

type options struct {
	freezeToken string
	sigFn       SignatureFunc
	log         *zap.Logger
}

// Option configures an Analyze call.
type Option func(*options)

// WithFreezeToken sets the marker namespace scanned for freeze/unfreeze
// comments. Defaults to mergekit.DefaultFreezeToken.
func WithFreezeToken(token string) Option {
	return func(o *options) {
		if token != "" {
			o.freezeToken = token
		}
	}
}

// WithSignatureFunc injects a signature override consulted before the
// built-in per-kind signature.
func WithSignatureFunc(fn SignatureFunc) Option {
	return func(o *options) { o.sigFn = fn }
}

// WithLogger routes freeze-scan warnings to the given logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// Analyze parses text into an Analysis. It never fails: malformed lines
// become KindInvalid statements and marker anomalies are logged and
// resolved, so every input is structurally valid at this layer.
func Analyze(text string, opts ...Option) *Analysis {
	o := options{
		freezeToken: mergekit.DefaultFreezeToken,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	raw := splitLines(text)
	lines := make([]Statement, len(raw))
	for i, l := range raw {
		lines[i] = ParseLine(l, i+1)
	}

	blocks := scanFrozen(lines, raw, o.freezeToken, o.log)
	stmts := collapse(lines, blocks)

	byKey := make(map[string]int)
	for i, st := range stmts {
		if st.Kind != KindAssignment {
			continue
		}
		if _, seen := byKey[st.Key]; !seen {
			byKey[st.Key] = i
		}
	}

	return &Analysis{
		lines:  lines,
		stmts:  stmts,
		blocks: blocks,
		byKey:  byKey,
		sigFn:  o.sigFn,
	}
}

// splitLines splits on "\n" and drops the empty element a trailing newline
// produces, so "A=1\n" is one line and "" is zero lines.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// scanFrozen pairs freeze/unfreeze markers in a single left-to-right pass.
// At most one open marker is pending: a second freeze is ignored (first
// open wins, no nesting), an unfreeze without an open is ignored, and an
// open left pending at EOF is dropped so its lines stay ordinary statements.
func scanFrozen(lines []Statement, raw []string, token string, log *zap.Logger) []*FrozenBlock {
	openRe := mergekit.FreezePattern(token)
	closeRe := mergekit.UnfreezePattern(token)

	var blocks []*FrozenBlock
	pending := -1 // line index of the pending open marker, -1 when none
	reason := ""

	for i, st := range lines {
		if st.Kind != KindComment {
			continue
		}
		trimmed := strings.TrimSpace(st.Raw)

		if m := openRe.FindStringSubmatch(trimmed); m != nil {
			if pending >= 0 {
				log.Warn("nested freeze marker ignored",
					zap.Int("line", i+1),
					zap.Int("open_line", pending+1),
					zap.String("token", token))
				continue
			}
			pending = i
			reason = strings.TrimSpace(m[1])
			continue
		}

		if closeRe.MatchString(trimmed) {
			if pending < 0 {
				log.Warn("unfreeze marker without open ignored",
					zap.Int("line", i+1),
					zap.String("token", token))
				continue
			}
			span := mergekit.Span{Start: pending + 1, End: i + 1}
			blocks = append(blocks, &FrozenBlock{
				Span:   span,
				Lines:  append([]string(nil), raw[pending:i+1]...),
				Reason: reason,
			})
			pending = -1
			reason = ""
		}
	}

	if pending >= 0 {
		log.Warn("unclosed freeze marker dropped",
			zap.Int("line", pending+1),
			zap.String("token", token))
	}
	return blocks
}

// collapse replaces each frozen span with a single KindFrozen statement at
// the opening marker's position. Spans never overlap or nest, so a single
// cursor over the ordered block list suffices.
func collapse(lines []Statement, blocks []*FrozenBlock) []Statement {
	stmts := make([]Statement, 0, len(lines))
	next := 0
	for i := 0; i < len(lines); i++ {
		n := i + 1
		if next < len(blocks) && blocks[next].Span.Start == n {
			b := blocks[next]
			stmts = append(stmts, Statement{
				Kind:  KindFrozen,
				Span:  b.Span,
				Raw:   b.Content(),
				Block: b,
			})
			i = b.Span.End - 1
			next++
			continue
		}
		stmts = append(stmts, lines[i])
	}
	return stmts
}

// Lines returns the full line-by-line parse, frozen or not.
func (a *Analysis) Lines() []Statement { return a.lines }

// LineCount returns the number of source lines.
func (a *Analysis) LineCount() int { return len(a.lines) }

// Statements returns the collapsed statement sequence.
func (a *Analysis) Statements() []Statement { return a.stmts }

// StatementAt returns the collapsed statement at position i.
func (a *Analysis) StatementAt(i int) Statement { return a.stmts[i] }

// FrozenBlocks returns the detected blocks in document order.
func (a *Analysis) FrozenBlocks() []*FrozenBlock { return a.blocks }

// FirstAssignment returns the first non-frozen assignment for key. Frozen
// assignments are excluded here; reach them through FrozenBlocks.
func (a *Analysis) FirstAssignment(key string) (Statement, bool) {
	i, ok := a.byKey[key]
	if !ok {
		return Statement{}, false
	}
	return a.stmts[i], true
}

// Signature resolves the matching signature for a statement. An injected
// override is consulted first and may replace the signature or suppress
// matching entirely; otherwise the built-in per-kind signature applies.
// Comments, blanks, and invalid lines have none and always align
// positionally.
func (a *Analysis) Signature(st Statement) (Signature, bool) {
	if a.sigFn != nil {
		sig, verdict := a.sigFn(st)
		switch verdict {
		case SigReplace:
			return sig, true
		case SigOmit:
			return Signature{}, false
		}
	}
	return builtinSignature(st)
}

func builtinSignature(st Statement) (Signature, bool) {
	switch st.Kind {
	case KindAssignment:
		return Signature{Kind: SigEnv, Key: st.Key}, true
	case KindFrozen:
		return Signature{Kind: SigFrozen, Key: st.Block.normalizedContent()}, true
	case KindComment, KindBlank, KindInvalid:
		return Signature{}, false
	default:
		return Signature{}, false
	}
}
