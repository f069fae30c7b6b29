// Package metrics exposes check outcomes as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/certwatch-app/cw-expiry/internal/checker"
	"github.com/certwatch-app/cw-expiry/internal/expiry"
)

const namespace = "cw_expiry"

// Collector owns a private registry so tests and repeated runs never collide
type Collector struct {
	registry *prometheus.Registry

	// Certificate metrics
	expiryTimestamp  *prometheus.GaugeVec
	secondsRemaining *prometheus.GaugeVec
	severity         *prometheus.GaugeVec
	checkFailed      *prometheus.GaugeVec

	// Check metrics
	checksTotal   *prometheus.CounterVec
	checkDuration prometheus.Histogram
	attemptsTotal prometheus.Counter

	// Batch metrics
	batchDuration prometheus.Histogram
	lastBatch     prometheus.Gauge
	targets       prometheus.Gauge
	buildInfo     *prometheus.GaugeVec
}

// New creates a Collector with all metrics registered
func New(version string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),

		expiryTimestamp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "certificate_expiry_timestamp_seconds",
			Help:      "Unix timestamp of the certificate's not-after",
		}, []string{"url"}),

		secondsRemaining: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "certificate_seconds_remaining",
			Help:      "Seconds until the certificate expires, negative once expired",
		}, []string{"url"}),

		severity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "certificate_severity",
			Help:      "1 for the severity the certificate was classified as, 0 otherwise",
		}, []string{"url", "severity"}),

		checkFailed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "check_failed",
			Help:      "1 if the last check of the target failed, labelled by failure tag",
		}, []string{"url", "tag"}),

		checksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Total number of target checks by outcome tag",
		}, []string{"tag"}),

		checkDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "check_duration_seconds",
			Help:      "Duration of a single target check including retries",
			Buckets:   prometheus.DefBuckets,
		}),

		attemptsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_attempts_total",
			Help:      "Total number of connect-and-handshake attempts",
		}),

		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Duration of a full batch of checks",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),

		lastBatch: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_batch_timestamp_seconds",
			Help:      "Unix timestamp of the last completed batch",
		}),

		targets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "targets",
			Help:      "Number of targets in the last batch",
		}),

		buildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Build information",
		}, []string{"version"}),
	}

	c.registry.MustRegister(
		c.expiryTimestamp,
		c.secondsRemaining,
		c.severity,
		c.checkFailed,
		c.checksTotal,
		c.checkDuration,
		c.attemptsTotal,
		c.batchDuration,
		c.lastBatch,
		c.targets,
		c.buildInfo,
	)
	c.buildInfo.WithLabelValues(version).Set(1)

	return c
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// BeginBatch clears per-target series so removed targets do not linger
func (c *Collector) BeginBatch(targets int) {
	c.expiryTimestamp.Reset()
	c.secondsRemaining.Reset()
	c.severity.Reset()
	c.checkFailed.Reset()
	c.targets.Set(float64(targets))
}

// Report records one outcome. It implements report.Reporter.
func (c *Collector) Report(o checker.Outcome) error {
	tag := o.Tag()
	c.checksTotal.WithLabelValues(tag).Inc()
	c.checkDuration.Observe(o.Duration.Seconds())
	c.attemptsTotal.Add(float64(o.Attempts))

	if !o.OK() {
		c.checkFailed.WithLabelValues(o.URL, tag).Set(1)
		return nil
	}

	c.expiryTimestamp.WithLabelValues(o.URL).Set(float64(o.Expiration.Unix()))
	c.secondsRemaining.WithLabelValues(o.URL).Set(o.Remaining().Seconds())
	for _, s := range expiry.Severities() {
		v := 0.0
		if s == o.Severity {
			v = 1
		}
		c.severity.WithLabelValues(o.URL, s.String()).Set(v)
	}

	return nil
}

// EndBatch records batch timing
func (c *Collector) EndBatch(d time.Duration) {
	c.batchDuration.Observe(d.Seconds())
	c.lastBatch.SetToCurrentTime()
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the registry for the node exporter textfile collector
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

// Serve exposes /metrics on addr until ctx is done
func (c *Collector) Serve(ctx context.Context, addr string, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("metrics server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
