package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PollsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "pollboard", Name: "polls_created_total", Help: "Number of polls created."},
	)
	PollsUpdated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "pollboard", Name: "polls_updated_total", Help: "Number of polls updated."},
	)
	PollsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "pollboard", Name: "polls_deleted_total", Help: "Number of polls deleted."},
	)
	VotesRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "pollboard", Name: "votes_recorded_total", Help: "Number of votes recorded."},
	)
	AuthFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "pollboard", Name: "auth_failures_total", Help: "Number of failed auth operations by kind."},
		[]string{"operation"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "pollboard", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "pollboard", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(PollsCreated)
	reg.MustRegister(PollsUpdated)
	reg.MustRegister(PollsDeleted)
	reg.MustRegister(VotesRecorded)
	reg.MustRegister(AuthFailures)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
