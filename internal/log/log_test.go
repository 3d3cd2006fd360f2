package log

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	ts := time.Date(2025, 12, 6, 10, 45, 0, 0, time.UTC)

	got := format(ts, LevelWarn, CatHighlight, "Partial parse", "rule", "Query", "lastPos", 7)
	require.Equal(t, "2025-12-06T10:45:00 [WARN] [highlight] Partial parse rule=Query lastPos=7\n", got)
}

func TestFormat_OddFields(t *testing.T) {
	ts := time.Date(2025, 12, 6, 10, 45, 0, 0, time.UTC)

	got := format(ts, LevelDebug, CatSchema, "Loaded", "corpus")
	require.True(t, strings.HasSuffix(got, " corpus=<missing>\n"), got)
}

func TestSetOutput_WritesEntries(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(nil) })

	Info(CatConfig, "Created default config", "path", "/tmp/x.yaml")
	ErrorErr(CatSchema, "Load failed", errors.New("boom"))

	out := buf.String()
	require.Contains(t, out, "[INFO] [config] Created default config path=/tmp/x.yaml")
	require.Contains(t, out, "[ERROR] [schema] Load failed error=boom")
}

func TestSetMinLevel_FiltersLowerLevels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(nil) })

	SetMinLevel(LevelWarn)
	Debug(CatGrammar, "hidden")
	Warn(CatGrammar, "shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
}

func TestSetEnabled_False(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(nil) })

	SetEnabled(false)
	Error(CatUI, "dropped")
	require.Empty(t, buf.String())
}

func TestDisabledByDefault(t *testing.T) {
	SetOutput(nil)
	// Must not panic without a logger.
	Debug(CatCache, "nothing")
}

func TestInit_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	cleanup, err := Init(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		cleanup()
		SetOutput(nil)
	})

	Info(CatTracing, "Provider started")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[INFO] [tracing] Provider started")
}
