// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus collectors for the favorites bot.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values shared by several collectors.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	// Command metrics
	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "favbot_commands_total",
		Help: "Chat commands handled by command and outcome",
	}, []string{"command", "outcome"}) // outcome=success|failure|panic

	commandDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "favbot_command_duration_seconds",
		Help:    "Wall time spent handling a chat command, including interactive waits",
		Buckets: []float64{0.005, 0.05, 0.25, 1, 2.5, 5, 10, 15},
	}, []string{"command"})

	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "favbot_events_total",
		Help: "Inbound chat events by routing decision",
	}, []string{"route"}) // route=command|reply|ignored

	// Interactive selection metrics
	selectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "favbot_selections_total",
		Help: "Interactive selections by action and outcome",
	}, []string{"action", "outcome"}) // outcome=resolved|timeout|error|busy

	selectionInvalidReplies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "favbot_selection_invalid_replies_total",
		Help: "Replies rejected during interactive selection",
	}, []string{"reason"}) // reason=not_a_number|out_of_range

	activeSelections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "favbot_selections_active",
		Help: "Interactive selections currently waiting for a reply",
	})

	// Remote sync metrics
	remoteRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "favbot_remote_requests_total",
		Help: "Requests to the remote config endpoint by operation and outcome",
	}, []string{"operation", "outcome"}) // operation=fetch|push

	remoteRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "favbot_remote_request_duration_seconds",
		Help:    "Latency of requests to the remote config endpoint",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	lastSyncTimestamp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "favbot_remote_last_success_timestamp_seconds",
		Help: "Unix time of the last successful remote operation",
	}, []string{"operation"})

	// Local store metrics
	storeOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "favbot_store_operations_total",
		Help: "Local document store operations by outcome",
	}, []string{"operation", "outcome"}) // outcome=success|missing|corrupt|failure

	favoritesCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "favbot_favorites",
		Help: "Number of favorites in the last loaded or saved document",
	})

	// Outbound delivery metrics
	repliesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "favbot_replies_total",
		Help: "Outbound chat replies by sink and outcome",
	}, []string{"sink", "outcome"})

	outboxDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "favbot_outbox_dropped_total",
		Help: "Queued replies dropped because a session outbox was full",
	})

	configReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "favbot_config_reloads_total",
		Help: "Configuration hot reload attempts by outcome",
	}, []string{"outcome"})
)

func RecordCommand(command, outcome string, d time.Duration) {
	commandsTotal.WithLabelValues(command, outcome).Inc()
	commandDuration.WithLabelValues(command).Observe(d.Seconds())
}

func IncEvent(route string) { eventsTotal.WithLabelValues(route).Inc() }

// RecordSelection counts a finished interactive selection.
func RecordSelection(action, outcome string) {
	selectionsTotal.WithLabelValues(action, outcome).Inc()
}

func IncSelectionInvalidReply(reason string) {
	selectionInvalidReplies.WithLabelValues(reason).Inc()
}

// SelectionStarted marks a selection as waiting and returns the matching release func.
func SelectionStarted() func() {
	activeSelections.Inc()
	return activeSelections.Dec
}

// RecordRemoteRequest records outcome and latency of one remote call.
func RecordRemoteRequest(operation string, err error, d time.Duration) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	} else {
		lastSyncTimestamp.WithLabelValues(operation).SetToCurrentTime()
	}
	remoteRequestsTotal.WithLabelValues(operation, outcome).Inc()
	remoteRequestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func IncStoreOperation(operation, outcome string) {
	storeOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

func SetFavoritesCount(n int) { favoritesCount.Set(float64(n)) }

func IncReply(sink string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	repliesTotal.WithLabelValues(sink, outcome).Inc()
}

func IncOutboxDropped() { outboxDropped.Inc() }

func IncConfigReload(outcome string) { configReloadsTotal.WithLabelValues(outcome).Inc() }
