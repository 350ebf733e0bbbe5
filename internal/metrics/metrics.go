// Package metrics exposes ledger activity as Prometheus metrics.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/lendingledger/internal/ledger"
	"github.com/mmynk/lendingledger/internal/models"
)

var _ ledger.Recorder = (*Metrics)(nil)

// Metrics records return outcomes and failures.
type Metrics struct {
	returns  *prometheus.CounterVec
	fines    prometheus.Counter
	daysLate prometheus.Histogram
	failures *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		returns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "returns_total",
			Help:      "Books returned, by whether they came back on time.",
		}, []string{"timeliness"}),
		fines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "fines_total",
			Help:      "Sum of overdue fines applied, in fine units.",
		}),
		daysLate: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ledger",
			Name:      "days_late",
			Help:      "Days overdue of late returns.",
			Buckets:   []float64{1, 2, 3, 7, 14, 30, 60},
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "failures_total",
			Help:      "Failed ledger operations, by operation and error kind.",
		}, []string{"op", "kind"}),
	}
	reg.MustRegister(m.returns, m.fines, m.daysLate, m.failures)
	return m
}

// ObserveReturn implements ledger.Recorder.
func (m *Metrics) ObserveReturn(outcome models.ReturnOutcome) {
	if outcome.OnTime {
		m.returns.WithLabelValues("on_time").Inc()
		return
	}
	m.returns.WithLabelValues("late").Inc()
	m.fines.Add(float64(outcome.FineAmount))
	m.daysLate.Observe(float64(outcome.DaysLate))
}

// ObserveFailure implements ledger.Recorder.
func (m *Metrics) ObserveFailure(op string, err error) {
	m.failures.WithLabelValues(op, kindOf(err)).Inc()
}

func kindOf(err error) string {
	var storageErr *ledger.StorageError
	switch {
	case errors.As(err, &storageErr):
		return "storage"
	case errors.Is(err, ledger.ErrBookNotFound),
		errors.Is(err, ledger.ErrNoActiveLoan),
		errors.Is(err, ledger.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, ledger.ErrInvalidInput):
		return "invalid_input"
	default:
		return "conflict"
	}
}
