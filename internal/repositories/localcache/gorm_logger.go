package localcache

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// gormLogger routes GORM output through slog
type gormLogger struct {
	slowThreshold time.Duration
	level         logger.LogLevel
}

func newGormLogger(slowThreshold time.Duration, level logger.LogLevel) *gormLogger {
	return &gormLogger{slowThreshold: slowThreshold, level: level}
}

// LogMode implements logger.Interface
func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	next := *l
	next.level = level
	return &next
}

// Info implements logger.Interface
func (l *gormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Info {
		slog.InfoContext(ctx, fmt.Sprintf(msg, data...), "component", "localcache")
	}
}

// Warn implements logger.Interface
func (l *gormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Warn {
		slog.WarnContext(ctx, fmt.Sprintf(msg, data...), "component", "localcache")
	}
}

// Error implements logger.Interface
func (l *gormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Error {
		slog.ErrorContext(ctx, fmt.Sprintf(msg, data...), "component", "localcache")
	}
}

// Trace implements logger.Interface
func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error:
		sql, rows := fc()
		slog.ErrorContext(ctx, "cache query failed",
			"sql", sql,
			"rows_affected", rows,
			"duration", elapsed,
			"error", err)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= logger.Warn:
		sql, rows := fc()
		slog.WarnContext(ctx, "slow cache query",
			"sql", sql,
			"rows_affected", rows,
			"duration", elapsed,
			"threshold", l.slowThreshold)
	case l.level >= logger.Info:
		sql, rows := fc()
		slog.DebugContext(ctx, "cache query",
			"sql", sql,
			"rows_affected", rows,
			"duration", elapsed)
	}
}
