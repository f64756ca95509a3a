package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SMARTTRIP_BACK-END/internal/config"
	"SMARTTRIP_BACK-END/internal/logger"
)

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	l := logger.Setup(config.LogConfig{Level: "warn", Format: "json"}, &buf)

	l.Info().Msg("hidden")
	l.Warn().Str("trip", "tokyo").Msg("shown")

	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
	assert.NotContains(t, buf.String(), "hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "tokyo", entry["trip"])
}

func TestSetupUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger.Setup(config.LogConfig{Level: "chatty"}, &buf)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestQueryTracerLogsErrors(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	var buf bytes.Buffer
	tracer := &logger.QueryTracer{Logger: zerolog.New(&buf)}

	ctx := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1", Args: []any{1}})
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: errors.New("boom")})

	assert.Contains(t, buf.String(), "[PGX] query error")
	assert.Contains(t, buf.String(), "SELECT 1")
}

func TestQueryTracerSkipsCancelledQueries(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	var buf bytes.Buffer
	tracer := &logger.QueryTracer{Logger: zerolog.New(&buf)}

	ctx, cancel := context.WithCancel(context.Background())
	ctx = tracer.TraceQueryStart(ctx, nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
	cancel()
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: context.Canceled})

	assert.Empty(t, buf.String())
}
