package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"survival-quiz/internal/domain"
	"survival-quiz/internal/logging"
	"survival-quiz/internal/metrics"
)

const (
	opRecordScore = "recordScore"
	opTopScores   = "topScores"
	opNameExists  = "nameExists"

	defaultTopScores = 10
)

// DegradingStore bounds every round trip with a timeout and turns any failure into a
// *domain.StoreError so callers can fall back to local-only play. A nil inner store
// reports every call as unavailable.
type DegradingStore struct {
	inner   ScoreStore
	timeout time.Duration
	metrics *metrics.Metrics
	logger  *zap.SugaredLogger
}

func NewDegradingStore(inner ScoreStore, timeout time.Duration, m *metrics.Metrics, logger *zap.SugaredLogger) *DegradingStore {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &DegradingStore{inner: inner, timeout: timeout, metrics: m, logger: logger}
}

func (d *DegradingStore) RecordScore(ctx context.Context, record domain.ScoreRecord) error {
	return d.call(ctx, opRecordScore, func(ctx context.Context) error {
		return d.inner.RecordScore(ctx, record)
	})
}

func (d *DegradingStore) TopScores(ctx context.Context, n int) ([]domain.ScoreRecord, error) {
	if n <= 0 {
		n = defaultTopScores
	}
	var records []domain.ScoreRecord
	err := d.call(ctx, opTopScores, func(ctx context.Context) error {
		var err error
		records, err = d.inner.TopScores(ctx, n)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(records) > n {
		records = records[:n]
	}
	return records, nil
}

func (d *DegradingStore) NameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := d.call(ctx, opNameExists, func(ctx context.Context) error {
		var err error
		exists, err = d.inner.NameExists(ctx, name)
		return err
	})
	return exists, err
}

func (d *DegradingStore) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if d.inner == nil {
		d.observe(op, "unavailable", 0)
		return domain.NewStoreError(op, nil)
	}
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if err != nil {
		d.observe(op, "error", elapsed)
		d.logger.Warnw("score store request failed", "op", op, "error", err, "elapsed", elapsed)
		return domain.NewStoreError(op, err)
	}
	d.observe(op, "ok", elapsed)
	return nil
}

func (d *DegradingStore) observe(op, status string, elapsed time.Duration) {
	if d.metrics == nil {
		return
	}
	d.metrics.StoreRequests.WithLabelValues(op, status).Inc()
	if elapsed > 0 {
		d.metrics.StoreDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	}
}
