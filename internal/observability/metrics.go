package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	activitiesTracked = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitness",
		Subsystem: "activity",
		Name:      "tracked_total",
		Help:      "Activities persisted by the track operation.",
	})
	eventPublishFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness",
		Subsystem: "activity",
		Name:      "event_publish_failures_total",
		Help:      "Activity events that could not be handed to the broker.",
	}, []string{"event"})
	recommendationsGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness",
		Subsystem: "recommendation",
		Name:      "generated_total",
		Help:      "Recommendations persisted by the worker, by outcome (parsed or fallback).",
	}, []string{"outcome"})
	identitySyncs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness",
		Subsystem: "gateway",
		Name:      "identity_syncs_total",
		Help:      "Identity bridge decisions per request.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(activitiesTracked, eventPublishFailures, recommendationsGenerated, identitySyncs)
}

// RecordActivityTracked counts a persisted activity.
func RecordActivityTracked() {
	activitiesTracked.Inc()
}

// RecordPublishFailure counts a swallowed publish error for the given event name.
func RecordPublishFailure(event string) {
	eventPublishFailures.WithLabelValues(event).Inc()
}

// RecordRecommendation counts a persisted recommendation.
func RecordRecommendation(outcome string) {
	recommendationsGenerated.WithLabelValues(outcome).Inc()
}

// RecordIdentitySync counts what the gateway did for a request: "registered",
// "existing", "anonymous" or "error".
func RecordIdentitySync(result string) {
	identitySyncs.WithLabelValues(result).Inc()
}
