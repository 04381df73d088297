package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rgehrsitz/goalcalc/internal/domain"
)

// Recorder implements analyzer.Recorder using Prometheus
type Recorder struct {
	analyses         *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	simDuration      prometheus.Histogram
	solverEvals      prometheus.Histogram
	solverCacheHits  prometheus.Counter
}

// New creates a recorder whose collectors are registered with reg.
// A nil reg uses the default Prometheus registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		analyses: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goalcalc_analyses_total",
				Help: "Completed goal analyses by status",
			},
			[]string{"status"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goalcalc_errors_total",
				Help: "Failed goal analyses by error kind",
			},
			[]string{"kind"},
		),
		analysisDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "goalcalc_analysis_duration_seconds",
			Help:    "Wall-clock time of a full analysis",
			Buckets: prometheus.DefBuckets,
		}),
		simDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "goalcalc_simulation_duration_seconds",
			Help:    "Wall-clock time of the projection simulation",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		solverEvals: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "goalcalc_solver_evaluations",
			Help:    "Simulator invocations per required-contribution solve",
			Buckets: prometheus.LinearBuckets(0, 5, 8),
		}),
		solverCacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "goalcalc_solver_cache_hits_total",
			Help: "Solver iterations answered from the per-solve memo",
		}),
	}
}

// ObserveAnalysis records a completed analysis
func (r *Recorder) ObserveAnalysis(status domain.Status, elapsed time.Duration) {
	r.analyses.WithLabelValues(string(status)).Inc()
	r.analysisDuration.Observe(elapsed.Seconds())
}

// ObserveSimulation records projection simulation latency
func (r *Recorder) ObserveSimulation(elapsed time.Duration) {
	r.simDuration.Observe(elapsed.Seconds())
}

// ObserveSolver records solver effort
func (r *Recorder) ObserveSolver(_, evaluations, cacheHits int) {
	r.solverEvals.Observe(float64(evaluations))
	r.solverCacheHits.Add(float64(cacheHits))
}

// ObserveError records a failed analysis
func (r *Recorder) ObserveError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
