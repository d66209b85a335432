// Package metrics holds the Prometheus collectors for derived-state
// maintenance: read-state fan-out, invitation lifecycle and thread cascades.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ReclaimLazy  = "lazy"
	ReclaimSweep = "sweep"
)

var (
	RepliesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "campus",
		Name:      "replies_created_total",
		Help:      "Replies inserted together with their read-state fan-out",
	})

	FanoutRows = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "campus",
		Name:      "reply_read_state_rows_total",
		Help:      "Per-user reply read-state rows written by fan-out",
	})

	MissingReadState = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "campus",
		Name:      "reply_read_state_missing_total",
		Help:      "Attempts to mark a reply read for a user with no read-state row",
	})

	InvitationsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "campus",
		Name:      "invitations_issued_total",
		Help:      "Invitation codes generated",
	})

	InvitationsReclaimed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campus",
		Name:      "invitations_reclaimed_total",
		Help:      "Expired invitation codes deleted, by path",
	}, []string{"path"})

	InvitationsOutstanding = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "campus",
		Name:      "invitations_outstanding",
		Help:      "Unexpired invitation codes at the last count",
	})

	PostsReassigned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "campus",
		Name:      "thread_posts_reassigned_total",
		Help:      "Posts moved to the default thread by thread deletion",
	})
)
