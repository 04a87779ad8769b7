package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONEntry(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LevelInfo, FormatJSON)
	l.SetOutput(&buf)

	l.WithField("target", "pdf").WithError(fmt.Errorf("bad logo")).Warn("logo omitted")

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry.Level)
	assert.Equal(t, "logo omitted", entry.Message)
	assert.Equal(t, "pdf", entry.Fields["target"])
	assert.Equal(t, "bad logo", entry.Error)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LevelWarn, FormatText)
	l.SetOutput(&buf)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "warn: shown")
	assert.False(t, l.Enabled(LevelInfo))
}

func TestTextFieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LevelDebug, FormatText)
	l.SetOutput(&buf)

	l.WithFields(map[string]interface{}{"pages": 3, "bytes": 1024}).Info("rendered")

	assert.Contains(t, buf.String(), "rendered bytes=1024 pages=3")
}

func TestChildDoesNotLeakFields(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger(LevelInfo, FormatText)
	parent.SetOutput(&buf)

	_ = parent.WithField("request", "abc")
	parent.Info("plain")

	assert.NotContains(t, buf.String(), "request=")
}

func TestConcurrentChildrenWriteWholeLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LevelInfo, FormatJSON)
	l.SetOutput(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l.WithField("n", i).Info("render")
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 20)
	for _, line := range lines {
		assert.True(t, json.Valid([]byte(line)), line)
	}
}

func TestFromContext(t *testing.T) {
	l := Discard()
	ctx := WithLogger(context.Background(), l)

	assert.Same(t, l, FromContext(ctx))
	assert.NotNil(t, FromContext(context.Background()))
}

func TestParse(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, LevelInfo, ParseLogLevel("verbose"))
	assert.Equal(t, FormatText, ParseLogFormat("text"))
	assert.Equal(t, FormatJSON, ParseLogFormat("yaml"))
}
