package obs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureDefaultLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestTimeLogsFailure(t *testing.T) {
	buf := captureDefaultLogger(t)
	ctx := WithRequestID(context.Background(), "abc-123")

	err := errors.New("boom")
	Time(ctx, "repo.get_route")(&err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "abc-123", line["req_id"])
	assert.Equal(t, "repo.get_route", line["op"])
	assert.Equal(t, "boom", line["error"])
}

func TestTimeLogsSuccessAtDebug(t *testing.T) {
	buf := captureDefaultLogger(t)

	var err error
	Time(context.Background(), "repo.list_orders")(&err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "DEBUG", line["level"])
	assert.NotContains(t, line, "error")
	assert.Equal(t, "", RequestID(context.Background()))
}
