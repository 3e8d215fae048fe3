package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qepting91/reddit-stats/internal/collector"
	"github.com/qepting91/reddit-stats/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	mc := collector.NewMockClient()
	mc.PostsPerSub = 12
	mc.Missing["gone"] = true

	cfg := config.Default()
	cfg.PageSize = 5

	root := newRootCmd(&app{cfg: cfg, fetcher: mc})
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestSubsCommand(t *testing.T) {
	out, err := runCLI(t, "subs", "gone")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)

	out, err = runCLI(t, "subs", "golang", "gone")
	require.NoError(t, err)
	got := lines(out)
	require.Len(t, got, 2)
	assert.True(t, strings.HasPrefix(got[0], "golang: "))
	assert.Equal(t, "gone: 0", got[1])
}

func TestSubsCommand_RequiresInput(t *testing.T) {
	_, err := runCLI(t, "subs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one subreddit")
}

func TestTopCommand(t *testing.T) {
	out, err := runCLI(t, "top", "programming")
	require.NoError(t, err)
	assert.Len(t, lines(out), 10)

	out, err = runCLI(t, "top", "gone")
	require.NoError(t, err)
	assert.Equal(t, "None\n", out)
}

func TestHotCommand(t *testing.T) {
	out, err := runCLI(t, "hot", "programming", "--count")
	require.NoError(t, err)
	assert.Equal(t, "12\n", out)

	snapshot := filepath.Join(t.TempDir(), "hot.ndjson")
	out, err = runCLI(t, "hot", "programming", "--out", snapshot)
	require.NoError(t, err)
	assert.Len(t, lines(out), 12)

	data, err := os.ReadFile(snapshot)
	require.NoError(t, err)
	assert.Len(t, lines(string(data)), 12)

	out, err = runCLI(t, "hot", "gone")
	require.NoError(t, err)
	assert.Equal(t, "None\n", out)
}

func TestCountCommand(t *testing.T) {
	out, err := runCLI(t, "count", "programming", "Python", "java", "rust", "javascript")
	require.NoError(t, err)

	// 12 posts cycle through 5 headlines; rust never appears
	assert.Equal(t, []string{"python: 6", "java: 5", "javascript: 2"}, lines(out))
}

func TestCountCommand_KeywordsFileAndChart(t *testing.T) {
	dir := t.TempDir()
	kwFile := filepath.Join(dir, "keywords.csv")
	require.NoError(t, os.WriteFile(kwFile, []byte("keyword\ngo\n"), 0o644))
	chart := filepath.Join(dir, "chart.html")

	out, err := runCLI(t, "count", "programming", "--keywords-file", kwFile, "--chart", chart)
	require.NoError(t, err)
	assert.Equal(t, []string{"go: 4"}, lines(out))

	html, err := os.ReadFile(chart)
	require.NoError(t, err)
	assert.Contains(t, string(html), "go")
}

func TestCountCommand_FailurePrintsNothing(t *testing.T) {
	out, err := runCLI(t, "count", "gone", "python")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCountCommand_RequiresKeywords(t *testing.T) {
	_, err := runCLI(t, "count", "programming")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one keyword")
}

func TestRun_ExitCode(t *testing.T) {
	t.Setenv("COLLECTOR_MODE", "mock")
	t.Setenv("REDDIT_REQUEST_INTERVAL", "0s")

	var out, errOut bytes.Buffer
	assert.Equal(t, 0, run([]string{"hot", "programming", "--count"}, &out, &errOut))
	assert.Equal(t, "250\n", out.String())

	out.Reset()
	assert.Equal(t, 1, run([]string{"subs"}, &out, &errOut))
	assert.Contains(t, errOut.String(), "at least one subreddit")
}
