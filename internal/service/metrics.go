package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Checkout outcome label values.
const (
	outcomeSubmitted = "submitted"
	outcomeRejected  = "rejected"
	outcomeFailed    = "failed"
)

// CheckoutOutcomes counts checkout attempts by result. Failed attempts are
// those where the order store returned an error.
var CheckoutOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "storefront_checkout_outcomes_total",
	Help: "Total number of checkout attempts by outcome",
}, []string{"outcome"})
