package metrics

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	SuccessfulActions *prometheus.CounterVec
	FailedActions     *prometheus.CounterVec
	FollowRequests    *prometheus.CounterVec
	GuardDecisions    *prometheus.CounterVec
	SessionRefresh    *prometheus.CounterVec
	NotificationsSent *prometheus.CounterVec
	BackendLatency    *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SuccessfulActions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "devlink_successful_actions_total",
				Help: "Total number of server actions that succeeded",
			},
			[]string{"action"},
		),
		FailedActions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "devlink_failed_actions_total",
				Help: "Total number of server actions that failed validation or the backend call",
			},
			[]string{"action"},
		),
		FollowRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "devlink_follow_requests_total",
				Help: "Total number of successful follow and unfollow requests",
			},
			[]string{"op"},
		),
		GuardDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "devlink_guard_decisions_total",
				Help: "Route guard outcomes",
			},
			[]string{"decision"},
		),
		SessionRefresh: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "devlink_session_refresh_total",
				Help: "Session refresh attempts by result",
			},
			[]string{"result"},
		),
		NotificationsSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "devlink_notifications_pushed_total",
				Help: "Notifications pushed, by delivery (live or stored)",
			},
			[]string{"delivery"},
		),
		BackendLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "devlink_backend_request_seconds",
				Help:    "Latency of backend API calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.SuccessfulActions,
			m.FailedActions,
			m.FollowRequests,
			m.GuardDecisions,
			m.SessionRefresh,
			m.NotificationsSent,
			m.BackendLatency,
		)
	}
	return m
}

// Discard returns unregistered collectors.
func Discard() *Metrics {
	return New(nil)
}
