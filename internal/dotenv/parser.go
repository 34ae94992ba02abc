package dotenv

import (
	"regexp"
	"strings"

	"envmerge/internal/mergekit"
)

const exportPrefix = "export "

// keyPattern is the identifier shape a key must have. The key segment is
// validated as extracted, without trimming, so "KEY = value" is invalid
// rather than silently accepted.
var keyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ParseLine classifies one raw source line. It never fails: anything that
// is not a blank, comment, or well-formed assignment degrades to
// KindInvalid and is carried through merges positionally.
func ParseLine(raw string, line int) Statement {
	span := mergekit.SpanAt(line)
	trimmed := strings.TrimSpace(raw)

	if trimmed == "" {
		return Statement{Kind: KindBlank, Span: span, Raw: raw}
	}
	if strings.HasPrefix(trimmed, "#") {
		return Statement{Kind: KindComment, Span: span, Raw: raw}
	}

	body := trimmed
	export := false
	if strings.HasPrefix(body, exportPrefix) {
		export = true
		body = body[len(exportPrefix):]
	}

	// Only the first "=" delimits; later ones belong to the value.
	eq := strings.IndexByte(body, '=')
	if eq < 0 {
		return Statement{Kind: KindInvalid, Span: span, Raw: raw}
	}
	key := body[:eq]
	if !keyPattern.MatchString(key) {
		return Statement{Kind: KindInvalid, Span: span, Raw: raw}
	}

	return Statement{
		Kind:   KindAssignment,
		Span:   span,
		Raw:    raw,
		Key:    key,
		Value:  decodeValue(body[eq+1:]),
		Export: export,
	}
}

// decodeValue applies the quoting rules: double quotes strip and decode
// escapes, single quotes strip with backslashes left literal, and an
// unquoted value is truncated at an inline comment then trimmed.
func decodeValue(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return decodeEscapes(v[1 : len(v)-1])
	}
	if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
		return v[1 : len(v)-1]
	}
	if i := inlineCommentStart(v); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

// decodeEscapes expands the supported escape sequences in a double-quoted
// value. Backslash is replaced last so already-substituted sequences are
// not re-expanded.
func decodeEscapes(s string) string {
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\t`, "\t")
	s = strings.ReplaceAll(s, `\r`, "\r")
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\\`, `\`)
	return s
}

// inlineCommentStart returns the index of the first whitespace run that is
// immediately followed by "#", or -1 when the value has no inline comment.
func inlineCommentStart(v string) int {
	for i := 0; i < len(v); i++ {
		if v[i] != ' ' && v[i] != '\t' {
			continue
		}
		j := i
		for j < len(v) && (v[j] == ' ' || v[j] == '\t') {
			j++
		}
		if j < len(v) && v[j] == '#' {
			return i
		}
		i = j - 1
	}
	return -1
}
