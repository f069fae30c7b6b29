// Package agent wires the checker, reporters and metrics for cw-expiry.
package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/certwatch-app/cw-expiry/internal/checker"
	"github.com/certwatch-app/cw-expiry/internal/config"
	"github.com/certwatch-app/cw-expiry/internal/metrics"
	"github.com/certwatch-app/cw-expiry/internal/notify"
	"github.com/certwatch-app/cw-expiry/internal/report"
	"github.com/certwatch-app/cw-expiry/internal/scanner"
	"github.com/certwatch-app/cw-expiry/internal/target"
	"github.com/certwatch-app/cw-expiry/internal/version"
)

// Agent runs certificate expiry batches
type Agent struct {
	config   *config.Config
	checker  *checker.Checker
	reporter report.Reporter
	metrics  *metrics.Collector
	notifier *notify.Client
	logger   *zap.Logger
}

// New creates a new Agent. Results go to stdout and stderr; logs go to stderr.
func New(cfg *config.Config, stdout, stderr io.Writer) (*Agent, error) {
	logger, err := setupLogger(cfg.LogLevel, stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	opts := []scanner.Option{
		scanner.WithRetries(cfg.Check.Retries, cfg.Check.RetryInterval),
	}
	if cfg.Check.CAFile != "" {
		pool, poolErr := scanner.LoadRootCAs(cfg.Check.CAFile)
		if poolErr != nil {
			return nil, poolErr
		}
		opts = append(opts, scanner.WithRootCAs(pool))
	}

	s := scanner.New(cfg.Check.Timeout, logger, opts...)

	out, err := newReporter(cfg.Output, stdout, stderr, logger)
	if err != nil {
		return nil, err
	}

	m := metrics.New(version.GetVersion())

	a := &Agent{
		config:   cfg,
		checker:  checker.New(s, cfg.Check.Concurrency, logger),
		reporter: report.Multi{out, m},
		metrics:  m,
		logger:   logger,
	}
	if cfg.Webhook.URL != "" {
		a.notifier = notify.New(cfg.Webhook, logger)
	}

	return a, nil
}

func newReporter(cfg config.OutputConfig, stdout, stderr io.Writer, logger *zap.Logger) (report.Reporter, error) {
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	switch format {
	case report.FormatJSON:
		return report.NewJSONLines(stdout), nil
	case report.FormatLog:
		return report.NewLog(logger), nil
	default:
		return report.NewConsole(stdout, stderr, cfg.Color), nil
	}
}

// Logger returns the agent's logger
func (a *Agent) Logger() *zap.Logger {
	return a.logger
}

// Metrics returns the agent's metrics collector
func (a *Agent) Metrics() *metrics.Collector {
	return a.metrics
}

// Targets loads the targets file and appends the inline targets. A missing
// file is tolerated only when inline targets exist.
func (a *Agent) Targets() ([]string, error) {
	var loaded []string
	if path := a.config.Check.TargetsFile; path != "" {
		fromFile, err := target.LoadFile(path)
		switch {
		case err == nil:
			loaded = fromFile
		case errors.Is(err, os.ErrNotExist) && len(a.config.Check.Targets) > 0:
			a.logger.Debug("targets file not found, using inline targets only", zap.String("path", path))
		default:
			return nil, err
		}
	}

	targets := target.Merge(loaded, a.config.Check.Targets)
	if len(targets) == 0 {
		return nil, fmt.Errorf("no targets to check")
	}
	return targets, nil
}

// RunOnce checks every target once and reports each outcome in input order
func (a *Agent) RunOnce(ctx context.Context) (checker.Summary, error) {
	targets, err := a.Targets()
	if err != nil {
		return checker.Summary{}, err
	}

	start := time.Now()
	a.logger.Info("starting certificate check",
		zap.Int("targets", len(targets)),
		zap.Int("concurrency", a.config.Check.Concurrency),
	)

	a.metrics.BeginBatch(len(targets))
	outcomes := a.checker.CheckAll(ctx, targets)

	var reportErrs []error
	for _, o := range outcomes {
		if err := a.reporter.Report(o); err != nil {
			reportErrs = append(reportErrs, err)
		}
	}

	elapsed := time.Since(start)
	a.metrics.EndBatch(elapsed)

	if path := a.config.Metrics.Textfile; path != "" {
		if err := a.metrics.WriteTextfile(path); err != nil {
			a.logger.Error("failed to write metrics textfile", zap.String("path", path), zap.Error(err))
		}
	}

	summary := checker.Summarize(outcomes)
	fields := []zap.Field{
		zap.Duration("duration", elapsed),
		zap.Int("total", summary.Total),
		zap.Int("failed", summary.Failed),
	}
	for tag, n := range summary.ByTag {
		fields = append(fields, zap.Int(tag, n))
	}
	a.logger.Info("check complete", fields...)

	// Webhook failures are logged; the batch itself has already been reported
	if a.notifier != nil {
		if err := a.notifier.Send(ctx, outcomes, summary); err != nil {
			a.logger.Error("failed to notify webhook", zap.Error(err))
		}
	}

	if err := errors.Join(reportErrs...); err != nil {
		return summary, fmt.Errorf("failed to report outcomes: %w", err)
	}
	return summary, nil
}

// Run checks all targets every watch interval until ctx is done
func (a *Agent) Run(ctx context.Context) error {
	a.logger.Info("watch starting",
		zap.Duration("interval", a.config.Watch.Interval),
		zap.String("metrics_addr", a.config.Metrics.Addr),
	)

	serveErr := make(chan error, 1)
	if addr := a.config.Metrics.Addr; addr != "" {
		go func() {
			serveErr <- a.metrics.Serve(ctx, addr, a.logger)
		}()
	}

	// Perform initial check
	if _, err := a.RunOnce(ctx); err != nil {
		a.logger.Error("initial check failed", zap.Error(err))
		// Keep watching: the targets file may be fixed before the next tick
	}

	ticker := time.NewTicker(a.config.Watch.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("watch stopping")
			return ctx.Err()

		case err := <-serveErr:
			if err != nil {
				return fmt.Errorf("metrics server failed: %w", err)
			}

		case <-ticker.C:
			a.logger.Debug("watch interval triggered")
			if _, err := a.RunOnce(ctx); err != nil {
				a.logger.Error("check failed", zap.Error(err))
			}
		}
	}
}

// setupLogger creates a configured zap logger
func setupLogger(level string, w io.Writer) (*zap.Logger, error) {
	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		zapLevel,
	)

	return zap.New(core), nil
}
