package observability

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	LotsProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lots_processed_total",
			Help: "Lots parsed and merged into a record",
		},
	)

	LotsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lots_failed_total",
			Help: "Lot failures by pipeline stage",
		},
		[]string{"stage"},
	)

	LLMRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "LLM calls by operation and outcome",
		},
		[]string{"operation", "status"},
	)

	LLMTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_tokens_total",
			Help: "Tokens reported by the LLM API",
		},
		[]string{"operation"},
	)

	PageCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "page_cache_total",
			Help: "Page cache lookups by result",
		},
		[]string{"result"},
	)
)

// Register adds the collectors to reg.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{LotsProcessed, LotsFailed, LLMRequests, LLMTokens, PageCacheTotal} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

// Start registers the collectors and serves /metrics on port in the
// background.
func Start(port string, log *zap.Logger) error {
	if err := Register(prometheus.DefaultRegisterer); err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(":"+port, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	return nil
}
