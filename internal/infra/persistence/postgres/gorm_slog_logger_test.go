package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"testing"
	"time"

	"estate/config"
	deliverycontext "estate/internal/delivery/context"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestGormSlogLogger_Trace(t *testing.T) {
	var base, scoped bytes.Buffer
	l := newGormSlogLogger(slog.New(slog.NewTextHandler(&base, nil)), &config.Config{})
	reqLogger := slog.New(slog.NewTextHandler(&scoped, nil)).With(slog.String("request_id", "req-1"))
	ctx := deliverycontext.WithLogger(context.Background(), reqLogger)
	query := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(context.Background(), time.Now(), query, gorm.ErrRecordNotFound)
	assert.Empty(t, base.String())

	l.Trace(ctx, time.Now(), query, sql.ErrConnDone)
	assert.Empty(t, base.String())
	assert.Contains(t, scoped.String(), "GORM query failed")
	assert.Contains(t, scoped.String(), "request_id=req-1")

	scoped.Reset()
	l.Trace(ctx, time.Now(), query, nil)
	assert.Empty(t, scoped.String(), "fast queries are not logged at warn level")

	l.Trace(ctx, time.Now().Add(-time.Second), query, nil)
	assert.Contains(t, scoped.String(), "GORM slow query")
}

func TestQueryAttrs_TruncatesLongStatements(t *testing.T) {
	long := "UPDATE listings SET media = '" + strings.Repeat("x", 3*maxLoggedSQLLength) + "'"

	attrs := queryAttrs(func() (string, int64) { return long, 1 }, time.Millisecond)

	logged := attrs[2].Value.String()
	assert.Len(t, logged, maxLoggedSQLLength+len("...(truncated)"))
	assert.True(t, strings.HasSuffix(logged, "...(truncated)"))
}

func TestPoolMonitor_Observe(t *testing.T) {
	m := &poolMonitor{}

	_, _, ok := m.observe(sql.DBStats{WaitCount: 0})
	assert.False(t, ok)

	level, attrs, ok := m.observe(sql.DBStats{WaitCount: 2, WaitDuration: 10 * time.Millisecond})
	assert.True(t, ok)
	assert.Equal(t, slog.LevelDebug, level)
	assert.Equal(t, int64(2), attrs[0].Value.Int64())

	level, _, ok = m.observe(sql.DBStats{WaitCount: 3, WaitDuration: 110 * time.Millisecond})
	assert.True(t, ok)
	assert.Equal(t, slog.LevelWarn, level)

	_, _, ok = m.observe(sql.DBStats{WaitCount: 3, WaitDuration: 110 * time.Millisecond})
	assert.False(t, ok)
}
