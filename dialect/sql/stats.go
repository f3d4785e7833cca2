package sql

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/syssam/domainschema/dialect"
)

// QueryStats counts the statements executed through a StatsDriver.
type QueryStats struct {
	queries  atomic.Int64
	execs    atomic.Int64
	elapsed  atomic.Int64
	slow     atomic.Int64
	failures atomic.Int64
}

// Stats returns a snapshot of the counters.
func (s *QueryStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		TotalQueries:  s.queries.Load(),
		TotalExecs:    s.execs.Load(),
		TotalDuration: time.Duration(s.elapsed.Load()),
		SlowQueries:   s.slow.Load(),
		Errors:        s.failures.Load(),
	}
}

// StatsSnapshot is a point-in-time copy of QueryStats.
type StatsSnapshot struct {
	TotalQueries  int64
	TotalExecs    int64
	TotalDuration time.Duration
	SlowQueries   int64
	Errors        int64
}

// AvgQueryDuration returns the mean duration of a statement.
func (s StatsSnapshot) AvgQueryDuration() time.Duration {
	n := s.TotalQueries + s.TotalExecs
	if n == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(n)
}

func (s StatsSnapshot) String() string {
	return fmt.Sprintf("queries=%d execs=%d duration=%s avg=%s slow=%d errors=%d",
		s.TotalQueries, s.TotalExecs, s.TotalDuration, s.AvgQueryDuration(), s.SlowQueries, s.Errors)
}

// SlowQueryHook is called for every statement slower than the threshold.
type SlowQueryHook func(ctx context.Context, query string, args []any, d time.Duration)

// StatsDriver is a Driver recording QueryStats for every statement,
// including those executed in its transactions.
type StatsDriver struct {
	*Driver
	stats     QueryStats
	threshold time.Duration
	hook      SlowQueryHook
}

// StatsOption configures a StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the slow statement threshold. Defaults to 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) { s.threshold = d }
}

// WithSlowQueryHook sets the hook called for slow statements.
func WithSlowQueryHook(hook SlowQueryHook) StatsOption {
	return func(s *StatsDriver) { s.hook = hook }
}

// WithSlowQueryLog logs slow statements at warn level.
func WithSlowQueryLog(logger *slog.Logger) StatsOption {
	return WithSlowQueryHook(func(ctx context.Context, query string, args []any, d time.Duration) {
		logger.WarnContext(ctx, "slow statement", "duration", d, "stmt", query, "args", args)
	})
}

// NewStatsDriver wraps drv.
//
//	drv := sql.NewStatsDriver(sql.OpenDB(dialect.SQLite, db), sql.WithSlowQueryLog(logger))
//	fmt.Println(drv.QueryStats().Stats())
func NewStatsDriver(drv *Driver, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{Driver: drv, threshold: 100 * time.Millisecond}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryStats returns the counters of the driver.
func (d *StatsDriver) QueryStats() *QueryStats { return &d.stats }

// SlowThreshold returns the slow statement threshold.
func (d *StatsDriver) SlowThreshold() time.Duration { return d.threshold }

// Query implements dialect.ExecQuerier.
func (d *StatsDriver) Query(ctx context.Context, query string, args, v any) error {
	return d.observe(ctx, query, args, true, func() error {
		return d.Driver.Query(ctx, query, args, v)
	})
}

// Exec implements dialect.ExecQuerier.
func (d *StatsDriver) Exec(ctx context.Context, query string, args, v any) error {
	return d.observe(ctx, query, args, false, func() error {
		return d.Driver.Exec(ctx, query, args, v)
	})
}

// Tx starts a transaction whose statements are recorded too.
func (d *StatsDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsTx{Tx: tx, driver: d}, nil
}

func (d *StatsDriver) observe(ctx context.Context, query string, args any, read bool, run func() error) error {
	start := time.Now()
	err := run()
	elapsed := time.Since(start)
	if read {
		d.stats.queries.Add(1)
	} else {
		d.stats.execs.Add(1)
	}
	d.stats.elapsed.Add(int64(elapsed))
	if err != nil {
		d.stats.failures.Add(1)
	}
	if elapsed > d.threshold {
		d.stats.slow.Add(1)
		if d.hook != nil {
			argv, _ := args.([]any)
			d.hook(ctx, query, argv, elapsed)
		}
	}
	return err
}

// StatsTx is a transaction of a StatsDriver.
type StatsTx struct {
	dialect.Tx
	driver *StatsDriver
}

// Query implements dialect.ExecQuerier.
func (tx *StatsTx) Query(ctx context.Context, query string, args, v any) error {
	return tx.driver.observe(ctx, query, args, true, func() error {
		return tx.Tx.Query(ctx, query, args, v)
	})
}

// Exec implements dialect.ExecQuerier.
func (tx *StatsTx) Exec(ctx context.Context, query string, args, v any) error {
	return tx.driver.observe(ctx, query, args, false, func() error {
		return tx.Tx.Exec(ctx, query, args, v)
	})
}

var (
	_ dialect.Driver = (*StatsDriver)(nil)
	_ dialect.Tx     = (*StatsTx)(nil)
)
