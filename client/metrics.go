package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mutationsConfirmedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "habitloop_client",
			Name:      "mutations_confirmed_total",
			Help:      "Optimistic mutations confirmed by the service.",
		},
		[]string{"op"},
	)

	mutationsRolledBackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "habitloop_client",
			Name:      "mutations_rolled_back_total",
			Help:      "Optimistic mutations rolled back after a remote failure.",
		},
		[]string{"op"},
	)
)
