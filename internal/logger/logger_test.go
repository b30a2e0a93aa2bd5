package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestWithContextAddsRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	original := Get()
	Set(zap.New(core))
	defer Set(original)

	WithContext(ContextWithRequestID(context.Background(), "req-42")).Info("hello")

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	original := Get()
	defer Set(original)

	assert.Error(t, Init("development", "loud"))
	assert.NoError(t, Init("production", "warn"))
}
