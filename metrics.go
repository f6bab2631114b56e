package store

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors shared by instrumented repositories. Register
// it once per registry.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repository_operations_total",
			Help:      "Repository operations by storage, operation and outcome.",
		}, []string{"storage", "op", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "repository_operation_duration_seconds",
			Help:      "Repository operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"storage", "op"}),
	}
}

func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.operations.Describe(ch)
	m.duration.Describe(ch)
}

func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.operations.Collect(ch)
	m.duration.Collect(ch)
}

func (m *Metrics) observe(storage, op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = KindOf(err).String()
	}

	m.operations.WithLabelValues(storage, op, outcome).Inc()
	m.duration.WithLabelValues(storage, op).Observe(time.Since(start).Seconds())
}

type instrumentedRepository[K comparable, T any] struct {
	next    Repository[K, T]
	storage string
	metrics *Metrics
}

// Instrument wraps repo so that every call is counted and timed under the
// given storage label.
func Instrument[K comparable, T any](repo Repository[K, T], storage string, metrics *Metrics) Repository[K, T] {
	return &instrumentedRepository[K, T]{next: repo, storage: storage, metrics: metrics}
}

func (r *instrumentedRepository[K, T]) FindAll(ctx context.Context) (res []T, err error) {
	defer r.observe("find_all", time.Now(), &err)
	return r.next.FindAll(ctx)
}

func (r *instrumentedRepository[K, T]) FindOne(ctx context.Context, id K) (res *T, err error) {
	defer r.observe("find_one", time.Now(), &err)
	return r.next.FindOne(ctx, id)
}

func (r *instrumentedRepository[K, T]) InsertOne(ctx context.Context, entity *T) (id K, err error) {
	defer r.observe("insert_one", time.Now(), &err)
	return r.next.InsertOne(ctx, entity)
}

func (r *instrumentedRepository[K, T]) UpdateOne(ctx context.Context, id K, entity *T) (res *T, err error) {
	defer r.observe("update_one", time.Now(), &err)
	return r.next.UpdateOne(ctx, id, entity)
}

func (r *instrumentedRepository[K, T]) DeleteOne(ctx context.Context, id K) (n int64, err error) {
	defer r.observe("delete_one", time.Now(), &err)
	return r.next.DeleteOne(ctx, id)
}

func (r *instrumentedRepository[K, T]) observe(op string, start time.Time, err *error) {
	r.metrics.observe(r.storage, op, start, *err)
}
