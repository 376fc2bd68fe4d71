package metrics

import (
	"context"
	"fmt"

	"github.com/elC0mpa/ebs-reclaimer/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	namespace = "ebs_reclaimer"
	jobName   = "ebs_reclaimer"
)

// NewService registers run metrics on a private registry so a batch job can
// push exactly what it produced. A nil registry creates a fresh one.
func NewService(registry *prometheus.Registry) *service {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	s := &service{
		registry: registry,
		inspected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resources_inspected_total",
			Help:      "Volumes and snapshots inspected.",
		}, []string{"resource"}),
		deleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resources_deleted_total",
			Help:      "Volumes and snapshots deleted, including ones already gone.",
		}, []string{"resource"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resources_skipped_total",
			Help:      "Volumes and snapshots kept, by reason.",
		}, []string{"resource", "reason"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delete_failures_total",
			Help:      "Delete calls that failed, by kind.",
		}, []string{"resource", "kind"}),
		reclaimed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reclaimed_gib_total",
			Help:      "Provisioned GiB of deleted resources.",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed runs by final state.",
		}, []string{"state", "dry_run"}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Wall-clock duration of the last run.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time the last run finished in state done.",
		}),
	}

	registry.MustRegister(s.inspected, s.deleted, s.skipped, s.failures, s.reclaimed, s.runs, s.duration, s.lastSuccess)
	return s
}

func (s *service) Registry() *prometheus.Registry {
	return s.registry
}

// Observe folds a finished report into the counters
func (s *service) Observe(report *model.Report) {
	if report == nil {
		return
	}

	s.inspected.WithLabelValues(model.ResourceVolume).Add(float64(report.VolumesInspected))
	s.inspected.WithLabelValues(model.ResourceSnapshot).Add(float64(report.SnapshotsInspected))
	s.deleted.WithLabelValues(model.ResourceVolume).Add(float64(len(report.VolumesDeleted)))
	s.deleted.WithLabelValues(model.ResourceSnapshot).Add(float64(len(report.SnapshotsDeleted)))

	for _, skip := range report.VolumesSkipped {
		s.skipped.WithLabelValues(model.ResourceVolume, string(skip.Reason)).Inc()
	}
	for _, skip := range report.SnapshotsSkipped {
		s.skipped.WithLabelValues(model.ResourceSnapshot, string(skip.Reason)).Inc()
	}
	for _, f := range report.Failures {
		s.failures.WithLabelValues(f.ResourceType, f.Kind).Inc()
	}

	s.reclaimed.Add(float64(report.ReclaimedGiB))
	s.runs.WithLabelValues(string(report.State), fmt.Sprint(report.DryRun)).Inc()
	s.duration.Set(report.DurationSeconds)
	if report.State == model.RunStateDone {
		s.lastSuccess.Set(float64(report.StartedAt.Unix()) + report.DurationSeconds)
	}
}

// Push sends the registry to a Prometheus Pushgateway
func (s *service) Push(ctx context.Context, url string) error {
	if err := push.New(url, jobName).Gatherer(s.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", url, err)
	}
	return nil
}
