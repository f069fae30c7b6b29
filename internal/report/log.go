package report

import (
	"go.uber.org/zap"

	"github.com/certwatch-app/cw-expiry/internal/checker"
)

// Log reports outcomes as structured log entries
type Log struct {
	logger *zap.Logger
}

func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Report(o checker.Outcome) error {
	fields := []zap.Field{
		zap.String("target", o.Target),
		zap.String("url", o.URL),
		zap.String("tag", o.Tag()),
		zap.Int("attempts", o.Attempts),
	}

	switch {
	case o.OK():
		fields = append(fields,
			zap.Time("expires_at", o.Expiration),
			zap.Duration("remaining", o.Remaining()),
		)
		l.logger.Info(o.Message(), fields...)
	case o.ExpiredCertificate():
		l.logger.Warn(o.Message(), append(fields, zap.Error(o.Err))...)
	default:
		l.logger.Error(o.Message(), append(fields,
			zap.String("kind", o.Err.Kind.String()),
			zap.Error(o.Err),
		)...)
	}

	return nil
}
