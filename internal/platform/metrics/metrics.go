// Package metrics holds the Prometheus collectors exported on /-/metrics.
// OpenTelemetry covers request-level telemetry; these counters track the
// quest game itself.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "questboard"

// Label names.
const (
	LabelService   = "service"
	LabelOperation = "operation"
	LabelKind      = "kind"
	LabelAction    = "action"
	LabelResult    = "result"
	LabelTier      = "tier"
)

// Result label values.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

var (
	// APIErrorsTotal counts normalized backend errors.
	APIErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_errors_total",
			Help:      "Backend API failures by service, operation and error kind.",
		},
		[]string{LabelService, LabelOperation, LabelKind},
	)

	// QuestActionsTotal counts start, complete and abandon attempts.
	QuestActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quest_actions_total",
			Help:      "Quest actions by outcome.",
		},
		[]string{LabelAction, LabelResult},
	)

	// ItemsPurchasedTotal counts successful purchases by rarity tier.
	ItemsPurchasedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_purchased_total",
			Help:      "Items bought, by rarity tier.",
		},
		[]string{LabelTier},
	)

	// GlorySpentTotal sums glory debited by purchases.
	GlorySpentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "glory_spent_total",
			Help:      "Glory spent on items.",
		},
	)
)
