package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"SMARTTRIP_BACK-END/internal/config"
)

// Setup configures the global zerolog logger.
// Format "human" writes coloured console output, anything else writes JSON.
func Setup(cfg config.LogConfig, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}
	if cfg.Format == "human" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return log.Logger
}

type queryStartKey struct{}

type queryStart struct {
	sql   string
	args  int
	begin time.Time
}

// QueryTracer logs pgx queries through zerolog
type QueryTracer struct {
	Logger zerolog.Logger
}

// TraceQueryStart implements pgx.QueryTracer
func (t *QueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: data.SQL, args: len(data.Args), begin: time.Now()})
}

// TraceQueryEnd implements pgx.QueryTracer
func (t *QueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, _ := ctx.Value(queryStartKey{}).(queryStart)
	fields := map[string]interface{}{
		"sql":      start.sql,
		"args":     start.args,
		"duration": time.Since(start.begin),
		"rows":     data.CommandTag.RowsAffected(),
	}

	if data.Err != nil && ctx.Err() == nil {
		t.Logger.Error().Err(data.Err).Fields(fields).Msg("[PGX] query error")
		return
	}

	t.Logger.Debug().Fields(fields).Msg("[PGX] query")
}
