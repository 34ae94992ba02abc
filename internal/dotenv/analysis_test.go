package dotenv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.WarnLevel)
	return zap.New(core), logs
}

func TestAnalyzeBasic(t *testing.T) {
	a := Analyze("# header\n\nAPI_KEY=abc\nAPI_KEY=dup\n")

	assert.Equal(t, 4, a.LineCount())
	require.Len(t, a.Statements(), 4)
	assert.Equal(t, KindComment, a.StatementAt(0).Kind)
	assert.Equal(t, KindBlank, a.StatementAt(1).Kind)
	assert.Equal(t, KindAssignment, a.StatementAt(2).Kind)

	t.Run("line numbers are consecutive and 1-indexed", func(t *testing.T) {
		for i, st := range a.Lines() {
			assert.Equal(t, i+1, st.Span.Start)
		}
	})

	t.Run("key index keeps first occurrence", func(t *testing.T) {
		st, ok := a.FirstAssignment("API_KEY")
		require.True(t, ok)
		assert.Equal(t, "abc", st.Value)
		assert.Equal(t, 3, st.Span.Start)
	})

	t.Run("missing key", func(t *testing.T) {
		_, ok := a.FirstAssignment("NOPE")
		assert.False(t, ok)
	})
}

func TestAnalyzeEmptyAndTrailingNewline(t *testing.T) {
	assert.Equal(t, 0, Analyze("").LineCount())
	assert.Equal(t, 1, Analyze("A=1").LineCount())
	assert.Equal(t, 1, Analyze("A=1\n").LineCount())
	assert.Equal(t, 2, Analyze("A=1\n\n").LineCount())
}

func TestAnalyzeFreezeBlock(t *testing.T) {
	text := strings.Join([]string{
		"TOP=1",
		"# dotenv-merge:freeze local creds",
		"SECRET=x",
		"# dotenv-merge:unfreeze",
		"BOTTOM=2",
	}, "\n") + "\n"

	a := Analyze(text)

	require.Len(t, a.FrozenBlocks(), 1)
	b := a.FrozenBlocks()[0]
	assert.Equal(t, 2, b.Span.Start)
	assert.Equal(t, 4, b.Span.End)
	assert.Equal(t, "local creds", b.Reason)
	assert.Equal(t, []string{
		"# dotenv-merge:freeze local creds",
		"SECRET=x",
		"# dotenv-merge:unfreeze",
	}, b.Lines, "markers are part of the block")

	t.Run("collapsed sequence covers every line once", func(t *testing.T) {
		stmts := a.Statements()
		require.Len(t, stmts, 3)
		assert.Equal(t, KindAssignment, stmts[0].Kind)
		assert.Equal(t, KindFrozen, stmts[1].Kind)
		assert.Equal(t, KindAssignment, stmts[2].Kind)

		covered := 0
		for _, st := range stmts {
			covered += st.Span.Lines()
		}
		assert.Equal(t, a.LineCount(), covered)
	})

	t.Run("frozen assignment excluded from key index", func(t *testing.T) {
		_, ok := a.FirstAssignment("SECRET")
		assert.False(t, ok)
		assert.Contains(t, b.Content(), "SECRET=x")
	})

	t.Run("line-by-line parse still sees frozen lines", func(t *testing.T) {
		assert.Equal(t, KindAssignment, a.Lines()[2].Kind)
		assert.Equal(t, "SECRET", a.Lines()[2].Key)
	})
}

func TestAnalyzeFreezeAnomalies(t *testing.T) {
	t.Run("nested open ignored, first wins", func(t *testing.T) {
		log, logs := observedLogger()
		a := Analyze(strings.Join([]string{
			"# dotenv-merge:freeze outer",
			"A=1",
			"# dotenv-merge:freeze inner",
			"B=2",
			"# dotenv-merge:unfreeze",
		}, "\n")+"\n", WithLogger(log))

		require.Len(t, a.FrozenBlocks(), 1)
		b := a.FrozenBlocks()[0]
		assert.Equal(t, 1, b.Span.Start)
		assert.Equal(t, 5, b.Span.End)
		assert.Equal(t, "outer", b.Reason)
		require.Equal(t, 1, logs.Len())
		assert.Contains(t, logs.All()[0].Message, "nested")
	})

	t.Run("dangling unfreeze ignored", func(t *testing.T) {
		log, logs := observedLogger()
		a := Analyze("A=1\n# dotenv-merge:unfreeze\nB=2\n", WithLogger(log))

		assert.Empty(t, a.FrozenBlocks())
		require.Equal(t, 1, logs.Len())
		assert.Contains(t, logs.All()[0].Message, "without open")
	})

	t.Run("unclosed open dropped, lines stay ordinary", func(t *testing.T) {
		log, logs := observedLogger()
		a := Analyze("# dotenv-merge:freeze\nK=v\n", WithLogger(log))

		assert.Empty(t, a.FrozenBlocks())
		st, ok := a.FirstAssignment("K")
		require.True(t, ok)
		assert.Equal(t, "v", st.Value)
		require.Equal(t, 1, logs.Len())
		assert.Contains(t, logs.All()[0].Message, "unclosed")
	})

	t.Run("two complete blocks", func(t *testing.T) {
		a := Analyze(strings.Join([]string{
			"# dotenv-merge:freeze",
			"A=1",
			"# dotenv-merge:unfreeze",
			"MID=0",
			"# dotenv-merge:freeze later",
			"B=2",
			"# dotenv-merge:unfreeze",
		}, "\n") + "\n")

		require.Len(t, a.FrozenBlocks(), 2)
		assert.Equal(t, "", a.FrozenBlocks()[0].Reason)
		assert.Equal(t, "later", a.FrozenBlocks()[1].Reason)
		require.Len(t, a.Statements(), 3)
	})
}

func TestAnalyzeCustomToken(t *testing.T) {
	text := "# myapp:freeze\nK=v\n# myapp:unfreeze\n"

	assert.Empty(t, Analyze(text).FrozenBlocks(), "default token must not match")
	require.Len(t, Analyze(text, WithFreezeToken("myapp")).FrozenBlocks(), 1)
}

func TestSignatures(t *testing.T) {
	a := Analyze("K=v\n# c\n\nbroken line\n")

	t.Run("builtin per-kind signatures", func(t *testing.T) {
		sig, ok := a.Signature(a.StatementAt(0))
		require.True(t, ok)
		assert.Equal(t, Signature{Kind: SigEnv, Key: "K"}, sig)

		for _, i := range []int{1, 2, 3} {
			_, ok := a.Signature(a.StatementAt(i))
			assert.False(t, ok, "statement %d must be unmatchable", i)
		}
	})

	t.Run("frozen block self-identification", func(t *testing.T) {
		f := Analyze("# dotenv-merge:freeze\nS=1\n# dotenv-merge:unfreeze\n")
		sig, ok := f.Signature(f.StatementAt(0))
		require.True(t, ok)
		assert.Equal(t, SigFrozen, sig.Kind)
		assert.Contains(t, sig.Key, "S=1")
	})

	t.Run("override replaces", func(t *testing.T) {
		o := Analyze("K=v\n", WithSignatureFunc(func(st Statement) (Signature, SigVerdict) {
			if st.Kind == KindAssignment {
				return Signature{Kind: SigEnv, Key: "ALIAS_" + st.Key}, SigReplace
			}
			return Signature{}, SigBuiltin
		}))
		sig, ok := o.Signature(o.StatementAt(0))
		require.True(t, ok)
		assert.Equal(t, "ALIAS_K", sig.Key)
	})

	t.Run("override suppresses", func(t *testing.T) {
		o := Analyze("K=v\n", WithSignatureFunc(func(Statement) (Signature, SigVerdict) {
			return Signature{}, SigOmit
		}))
		_, ok := o.Signature(o.StatementAt(0))
		assert.False(t, ok)
	})

	t.Run("override defers to builtin", func(t *testing.T) {
		o := Analyze("K=v\n", WithSignatureFunc(func(Statement) (Signature, SigVerdict) {
			return Signature{}, SigBuiltin
		}))
		sig, ok := o.Signature(o.StatementAt(0))
		require.True(t, ok)
		assert.Equal(t, "K", sig.Key)
	})
}
