package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		level     string
		format    string
		wantDebug bool
		wantJSON  bool
	}{
		{name: "debug text", level: "debug", format: "text", wantDebug: true},
		{name: "warn json", level: "warn", format: "json", wantJSON: true},
		{name: "info text", level: "info", format: "text"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger, err := newLogger(tc.level, tc.format, &buf)
			require.NoError(t, err)

			logger.Debug("probe")
			logger.Warn("visible", "module", "app")

			assert.Equal(t, tc.wantDebug, strings.Contains(buf.String(), "probe"))
			assert.Contains(t, buf.String(), "visible")
			assert.Equal(t, tc.wantJSON, strings.HasPrefix(buf.String(), "{"))
		})
	}
}

func TestNewLogger_RejectsUnknownValues(t *testing.T) {
	_, err := newLogger("verbose", "text", &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown log level: verbose")

	_, err = newLogger("info", "xml", &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown log format: xml")
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}

	assert.Subset(t, names, []string{"import", "watch", "extensions", "init-script", "task-run"})
}
