package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	turnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_turns_total",
		Help: "Conversation turns by outcome and by which resolver produced the action.",
	}, []string{"outcome", "source"})

	fallbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_rule_fallback_total",
		Help: "Turns resolved without a usable model guess, by reason.",
	}, []string{"reason"})

	replaysTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assistant_turn_replays_total",
		Help: "Re-delivered turns answered from the turn ledger.",
	})

	rejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_executor_rejections_total",
		Help: "Actions rejected before reaching the store, by stage.",
	}, []string{"stage"})
)
