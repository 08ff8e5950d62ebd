package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/maintops/crewsched/core/metrics"
)

// PromSink records solve outcomes in Prometheus metrics.
type PromSink struct {
	solves     *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	unassigned prometheus.Counter
	objective  prometheus.Gauge
	nodes      prometheus.Histogram
}

// NewPromSink registers solve metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.SolveSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.SolveSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	solves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_solves_total",
		Help: "Total number of optimization runs by status",
	}, []string{"status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "schedule_solve_duration_seconds",
		Help:    "Wall-clock duration of optimization runs",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})
	unassigned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_work_orders_unassigned_total",
		Help: "Work orders left without a slot across all solves",
	})
	objective := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_last_objective_value",
		Help: "Objective value of the most recent solve",
	})
	nodes := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_search_nodes",
		Help:    "Branch-and-bound nodes explored per solve",
		Buckets: prometheus.ExponentialBuckets(64, 4, 10),
	})

	s := &PromSink{solves: solves, duration: duration, unassigned: unassigned, objective: objective, nodes: nodes}
	for _, c := range []prometheus.Collector{solves, duration, unassigned, objective, nodes} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return s, nil
}

// RecordSolve implements coremetrics.SolveSink.
func (s *PromSink) RecordSolve(rec coremetrics.SolveRecord) error {
	status := rec.Status.String()
	s.solves.WithLabelValues(status).Inc()
	s.duration.WithLabelValues(status).Observe(rec.Duration.Seconds())
	s.unassigned.Add(float64(rec.Unassigned))
	s.objective.Set(rec.Objective)
	s.nodes.Observe(float64(rec.Nodes))
	return nil
}
