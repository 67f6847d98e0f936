package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/parsekit/core/logger"
)

func TestGroup(t *testing.T) {
	t.Parallel()
	attr := logger.Group("batch", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "batch", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

// ============================================================================
// Error Handling Tests
// ============================================================================

func TestErrors(t *testing.T) {
	t.Parallel()
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	empty := logger.Errors(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	t.Parallel()
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	empty := logger.Error(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestErrorKind(t *testing.T) {
	t.Parallel()
	attr := logger.ErrorKind("timeout")
	require.Equal(t, "error_kind", attr.Key)
	assert.Equal(t, "timeout", attr.Value.String())
	assert.True(t, logger.ErrorKind("").Equal(slog.Attr{}))
}

// ============================================================================
// Timing Tests
// ============================================================================

func TestDuration(t *testing.T) {
	t.Parallel()
	d := 5 * time.Second
	attr := logger.Duration(d)
	require.Equal(t, "duration", attr.Key)
	assert.Equal(t, d, attr.Value.Duration())
}

func TestElapsed(t *testing.T) {
	t.Parallel()
	start := time.Now().Add(-500 * time.Millisecond)
	attr := logger.Elapsed(start)
	require.Equal(t, "elapsed", attr.Key)
	assert.GreaterOrEqual(t, attr.Value.Duration(), 500*time.Millisecond)
}

func TestDelay(t *testing.T) {
	t.Parallel()
	attr := logger.Delay(2 * time.Second)
	require.Equal(t, "delay", attr.Key)
	assert.Equal(t, 2*time.Second, attr.Value.Duration())
}

// ============================================================================
// Identifier Tests
// ============================================================================

func TestID(t *testing.T) {
	t.Parallel()

	attr := logger.ID("item_id", "123")
	require.Equal(t, "item_id", attr.Key)
	assert.Equal(t, "123", attr.Value.Any())

	attr = logger.ID("count", 42)
	assert.EqualValues(t, 42, attr.Value.Any())

	empty := logger.ID("key", nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestStringIdentifiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func(string) slog.Attr
		key  string
	}{
		{"run id", logger.RunID, "run_id"},
		{"label", logger.Label, "label"},
		{"url", logger.URL, "url"},
		{"path", logger.Path, "path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr := tt.fn("value")
			require.Equal(t, tt.key, attr.Key)
			assert.Equal(t, "value", attr.Value.String())
			assert.True(t, tt.fn("").Equal(slog.Attr{}))
		})
	}
}

// ============================================================================
// Network and Metadata Tests
// ============================================================================

func TestNetworkAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "GET", logger.Method("GET").Value.String())
	assert.Equal(t, int64(404), logger.StatusCode(404).Value.Int64())
	assert.Equal(t, int64(2048), logger.BytesIn(2048).Value.Int64())
}

func TestMetadataAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "scheduler", logger.Component("scheduler").Value.String())

	attr := logger.Count("failed", 3)
	require.Equal(t, "failed", attr.Key)
	assert.Equal(t, int64(3), attr.Value.Int64())

	assert.Equal(t, "attempt", logger.Attempt(2).Key)
	assert.Equal(t, int64(2), logger.Attempt(2).Value.Int64())
	assert.Equal(t, "retry_count", logger.RetryCount(5).Key)
}
