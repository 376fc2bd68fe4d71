package metrics

import (
	"context"

	"github.com/elC0mpa/ebs-reclaimer/model"
	"github.com/prometheus/client_golang/prometheus"
)

type service struct {
	registry *prometheus.Registry

	inspected   *prometheus.CounterVec
	deleted     *prometheus.CounterVec
	skipped     *prometheus.CounterVec
	failures    *prometheus.CounterVec
	reclaimed   prometheus.Counter
	runs        *prometheus.CounterVec
	duration    prometheus.Gauge
	lastSuccess prometheus.Gauge
}

type MetricsService interface {
	Observe(report *model.Report)
	Push(ctx context.Context, url string) error
	Registry() *prometheus.Registry
}
