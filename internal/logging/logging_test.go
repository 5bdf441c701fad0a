package logging

import (
	"bytes"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"off":   Off,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestConsoleLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := New(Config{ConsoleLevel: slog.LevelWarn, Console: &buf, NoColor: true})
	defer closer.Close()

	logger.Info("quiet")
	logger.Warn("skipped chunk", "chunk", "ZZZZ")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "skipped chunk")
	assert.Contains(t, out, "chunk=ZZZZ")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "rbxdom.log")
	var console bytes.Buffer
	logger, closer := New(Config{
		ConsoleLevel: Off,
		Console:      &console,
		FilePath:     path,
		FileLevel:    slog.LevelDebug,
	})

	logger.With("file", "place.rbxl").Debug("decoded")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "decoded")
	assert.Contains(t, string(data), "file=place.rbxl")
	assert.Zero(t, console.Len())
}

func TestStandardLogRedirect(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)
	defer log.SetOutput(os.Stderr)

	var buf bytes.Buffer
	closer := Setup(Config{ConsoleLevel: slog.LevelDebug, Console: &buf, NoColor: true})
	defer closer.Close()

	log.Print("WARN from a dependency")
	assert.Contains(t, buf.String(), "WRN")
	assert.Contains(t, buf.String(), "from a dependency")
}
