package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/cartcheck/internal/platform/faults"
	"github.com/yungbote/cartcheck/internal/platform/logger"
	"github.com/yungbote/cartcheck/internal/validation/diag"
)

type Metrics struct {
	passes      *CounterVec
	passLatency *HistogramVec
	passFaults  *CounterVec
	diagnostics *CounterVec
	sweepCarts  *Counter
	priceCache  *CounterVec
	dbStats     *GaugeVec
	redisUp     *Gauge
	redisPing   *Gauge
	scrapeEvery time.Duration
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Init builds the process wide metrics once. It returns nil when disabled;
// every method is safe on a nil receiver.
func Init(log *logger.Logger, enabled bool, scrapeEvery time.Duration) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = New(scrapeEvery)
		if log != nil {
			log.Info("Observability metrics enabled")
		}
	})
	return instance
}

func Current() *Metrics {
	return instance
}

// New builds an unshared metrics set.
func New(scrapeEvery time.Duration) *Metrics {
	if scrapeEvery <= 0 {
		scrapeEvery = 10 * time.Second
	}
	return &Metrics{
		passes: NewCounterVec("cartcheck_validation_passes_total", "Validation passes by operation/store/outcome.", []string{"operation", "store", "outcome"}),
		passLatency: NewHistogramVec(
			"cartcheck_validation_pass_duration_seconds",
			"Validation pass latency in seconds by operation/outcome.",
			[]string{"operation", "outcome"},
			[]float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		),
		passFaults:  NewCounterVec("cartcheck_validation_faults_total", "Passes aborted by an infrastructure fault, by operation/code.", []string{"operation", "code"}),
		diagnostics: NewCounterVec("cartcheck_diagnostics_total", "Diagnostics produced by id/kind.", []string{"id", "kind"}),
		sweepCarts:  NewCounter("cartcheck_sweep_carts_total", "Carts validated by sweeps."),
		priceCache:  NewCounterVec("cartcheck_price_cache_total", "Price cache lookups by result.", []string{"result"}),
		dbStats:     NewGaugeVec("cartcheck_db_pool", "Database pool statistics.", []string{"stat"}),
		redisUp:     NewGauge("cartcheck_redis_up", "1 when the price cache answered the last ping."),
		redisPing:   NewGauge("cartcheck_redis_ping_seconds", "Latency of the last price cache ping."),
		scrapeEvery: scrapeEvery,
	}
}

// ObservePass records one validation pass. A non-nil err marks the pass as faulted.
func (m *Metrics) ObservePass(operation, store string, ds []diag.Diagnostic, err error, dur time.Duration) {
	if m == nil {
		return
	}
	outcome := "valid"
	switch {
	case err != nil:
		outcome = "fault"
		code := string(faults.CodeOf(err))
		if code == "" {
			code = string(faults.CodeInternal)
		}
		m.passFaults.Inc(operation, code)
	case diag.HasErrors(ds):
		outcome = "invalid"
	case len(ds) > 0:
		outcome = "need_info"
	}
	m.passes.Inc(operation, store, outcome)
	m.passLatency.Observe(dur.Seconds(), operation, outcome)
	for i := range ds {
		m.diagnostics.Inc(ds[i].ID, string(ds[i].Kind))
	}
}

func (m *Metrics) IncSweepCart() {
	if m == nil {
		return
	}
	m.sweepCarts.Inc()
}

// ObservePriceCache records a cache "hit", "miss" or "error".
func (m *Metrics) ObservePriceCache(result string) {
	if m == nil {
		return
	}
	m.priceCache.Inc(result)
}

func (m *Metrics) PriceCacheCount(result string) float64 {
	if m == nil {
		return 0
	}
	return m.priceCache.Value(result)
}

// PassCount returns how many passes ended with outcome.
func (m *Metrics) PassCount(operation, store, outcome string) float64 {
	if m == nil {
		return 0
	}
	return m.passes.Value(operation, store, outcome)
}

func (m *Metrics) DiagnosticCount(id string, kind diag.Kind) float64 {
	if m == nil {
		return 0
	}
	return m.diagnostics.Value(id, string(kind))
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.passes, m.passLatency, m.passFaults, m.diagnostics, m.sweepCarts,
		m.priceCache, m.dbStats, m.redisUp, m.redisPing,
	}
	for _, wr := range writers {
		if err := wr.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.scrapeEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
				m.dbStats.Set(float64(stats.InUse), "in_use")
				m.dbStats.Set(float64(stats.Idle), "idle")
				m.dbStats.Set(float64(stats.WaitCount), "wait_count")
				m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
			}
		}
	}()
}

// StartRedisCollector pings rdb on every scrape tick. The caller owns rdb.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb redis.UniversalClient) {
	if m == nil || rdb == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.scrapeEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
