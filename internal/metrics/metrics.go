// Package metrics exports prometheus counters for the chest and onboarding
// flows.
package metrics

import (
	"farm_miniapp/internal/chest"
	"farm_miniapp/internal/onboarding"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	labelEvent = "event"
	labelFrom  = "from"
	labelTo    = "to"
)

var (
	chestTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farm_chest_transitions_total",
		Help: "Daily reward chest state transitions",
	}, []string{labelEvent, labelFrom, labelTo})

	onboardingSteps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farm_onboarding_steps_total",
		Help: "Onboarding wizard step changes",
	}, []string{labelFrom, labelTo})

	payments = promauto.NewCounter(prometheus.CounterOpts{
		Name: "farm_purchases_total",
		Help: "Guest farms upgraded after a successful payment",
	})
)

func ObserveChest(t chest.Transition) {
	chestTransitions.With(prometheus.Labels{
		labelEvent: t.Event.String(),
		labelFrom:  t.From.String(),
		labelTo:    t.To.String(),
	}).Inc()
}

func ObserveStep(c onboarding.StepChange) {
	onboardingSteps.With(prometheus.Labels{
		labelFrom: c.From.String(),
		labelTo:   c.To.String(),
	}).Inc()
}

func ObservePurchase() {
	payments.Inc()
}
