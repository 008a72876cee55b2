package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	moderationTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediawall_moderation_transitions_total",
			Help: "Moderation transitions by content kind, action and result",
		},
		[]string{"kind", "action", "result"},
	)

	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediawall_submissions_total",
			Help: "Public submissions by kind and result",
		},
		[]string{"kind", "result"},
	)
)

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
