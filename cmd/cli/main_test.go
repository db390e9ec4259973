package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"vrsurvey/domain/stats"
	"vrsurvey/internal/analysis/dist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DATABASE_URL", "SURVEY_FILE", "RUNS_DB", "ALPHA", "TEST_METHOD", "PERSIST_RUNS"} {
		t.Setenv(key, "")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoadConfigFlagsOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/survey")

	opts := &globalOptions{source: "file", file: "responses.csv", method: "exact", alpha: 0.01}
	cfg, err := opts.loadConfig()
	require.NoError(t, err)

	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, "responses.csv", cfg.Data.SurveyFile)
	assert.Equal(t, dist.MethodExact, cfg.Analysis.Method)
	assert.Equal(t, 0.01, cfg.Analysis.Alpha)
}

func TestLoadConfigRejectsUnknownSource(t *testing.T) {
	clearEnv(t)
	opts := &globalOptions{source: "s3", file: "responses.csv"}
	_, err := opts.loadConfig()
	assert.Error(t, err)
}

func TestRenderUnknownFormat(t *testing.T) {
	opts := &globalOptions{format: "yaml"}
	err := opts.render(&bytes.Buffer{}, nil, "", func() string { return "" })
	assert.Error(t, err)
}

func TestRenderHTMLWrapsMarkdown(t *testing.T) {
	opts := &globalOptions{format: "html"}
	var buf bytes.Buffer
	require.NoError(t, opts.render(&buf, nil, "Title", func() string { return "## Section\n" }))
	assert.Contains(t, buf.String(), "<h2")
	assert.Contains(t, buf.String(), "Section")
}

func TestGenerateThenAnalyze(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "synthetic.csv")

	out, err := execute(t, "generate", "--count", "60", "--seed", "3", "--out", file)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 60 respondents")

	out, err = execute(t, "analyze", "--file", file, "--format", "json", "--runs-db", filepath.Join(dir, "runs.db"))
	require.NoError(t, err)

	var r stats.Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, 60, r.Respondents)
	assert.Len(t, r.Comparisons, 3)

	out, err = execute(t, "runs", "--file", file, "--runs-db", filepath.Join(dir, "runs.db"))
	require.NoError(t, err)
	assert.Contains(t, out, r.RunID.String())
}

func TestGenerateRequiresOut(t *testing.T) {
	clearEnv(t)
	_, err := execute(t, "generate")
	assert.Error(t, err)
}
