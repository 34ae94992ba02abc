package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envmerge/internal/merge"
	"envmerge/internal/mergekit"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestMergeCommand(t *testing.T) {
	dir := t.TempDir()
	tpl := writeFile(t, dir, "template.env", "API_KEY=a\nNEW=1\n")
	dst := writeFile(t, dir, ".env", "API_KEY=b\n")
	cfgAbsent := filepath.Join(dir, "no-config.yaml")

	t.Run("default keeps destination and suppresses new keys", func(t *testing.T) {
		out := filepath.Join(dir, "out1.env")
		rootCmd.SetArgs([]string{"merge", tpl, dst, "-o", out, "--config", cfgAbsent})
		require.NoError(t, rootCmd.Execute())

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, "API_KEY=b\n", string(data))
	})

	t.Run("append-new adds template-only keys at the end", func(t *testing.T) {
		out := filepath.Join(dir, "out2.env")
		rootCmd.SetArgs([]string{"merge", tpl, dst, "-o", out, "--append-new", "--config", cfgAbsent})
		require.NoError(t, rootCmd.Execute())

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, "API_KEY=b\nNEW=1\n", string(data))
	})

	t.Run("missing template fails", func(t *testing.T) {
		rootCmd.SetArgs([]string{"merge", filepath.Join(dir, "absent.env"), dst, "--config", cfgAbsent})
		assert.Error(t, rootCmd.Execute())
	})
}

func TestRenderSummary(t *testing.T) {
	res := merge.NewResult()
	res.Append([]string{"A=1"}, merge.Decision{Kind: merge.FromDestination, Side: mergekit.SideDestination})
	res.Append([]string{"B=2"}, merge.Decision{Kind: merge.Appended, Side: mergekit.SideTemplate})

	out := renderSummary(res.Summary())
	assert.Contains(t, out, "from-destination")
	assert.Contains(t, out, "appended")
	assert.Contains(t, out, "2 decision(s), 2 line(s)")
	assert.Contains(t, out, res.ID())
	assert.NotContains(t, out, "from-template")
}
