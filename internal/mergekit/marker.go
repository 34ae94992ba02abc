package mergekit

import (
	"fmt"
	"regexp"
)

// DefaultFreezeToken is the marker namespace used when a merge is not
// configured with its own token.
const DefaultFreezeToken = "dotenv-merge"

// FreezePattern builds the pattern matching an opening freeze marker for the
// given token: a comment of the form "# <token>:freeze" with an optional
// trailing reason. Group 1 captures the reason text.
func FreezePattern(token string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`^#\s*%s:freeze(?:\s+(.*))?\s*$`, regexp.QuoteMeta(token)))
}

// UnfreezePattern builds the pattern matching the closing marker
// "# <token>:unfreeze".
func UnfreezePattern(token string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`^#\s*%s:unfreeze\s*$`, regexp.QuoteMeta(token)))
}
