// Package metrics provides the centralized Prometheus metrics registry for
// the bid pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	BidsScoredTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bidsight",
		Name:      "bids_scored_total",
		Help:      "Total number of bids scored, by trigger",
	}, []string{"trigger"}) // on_demand, refresh

	PredictionWritebacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bidsight",
		Name:      "prediction_writebacks_total",
		Help:      "Total number of predictions persisted onto bid records",
	})

	RecommendationsGeneratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bidsight",
		Name:      "recommendations_generated_total",
		Help:      "Total number of recommendation strings generated",
	})

	AIBlendedPredictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bidsight",
		Name:      "ai_blended_predictions_total",
		Help:      "Total number of predictions blended with the AI advisor",
	})
)

// Gauge metrics
var (
	OpenBids = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bidsight",
		Name:      "open_bids",
		Help:      "Number of bids still in play",
	})
	DecidedBids = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bidsight",
		Name:      "decided_bids",
		Help:      "Number of bids with a terminal outcome",
	})
	PortfolioAvgWinProbability = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bidsight",
		Name:      "portfolio_avg_win_probability",
		Help:      "Average win probability (percent) across scored bids",
	})
)

// Histogram metrics
var (
	RefreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bidsight",
		Name:      "prediction_refresh_duration_seconds",
		Help:      "Duration of open-bid prediction refresh runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300},
	})
	DashboardBuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bidsight",
		Name:      "dashboard_build_duration_seconds",
		Help:      "Duration of dashboard summary builds in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(BidsScoredTotal)
		registry.MustRegister(PredictionWritebacksTotal)
		registry.MustRegister(RecommendationsGeneratedTotal)
		registry.MustRegister(AIBlendedPredictionsTotal)

		// Register gauge metrics
		registry.MustRegister(OpenBids)
		registry.MustRegister(DecidedBids)
		registry.MustRegister(PortfolioAvgWinProbability)

		// Register histogram metrics
		registry.MustRegister(RefreshDuration)
		registry.MustRegister(DashboardBuildDuration)

		// Register job metrics
		registry.MustRegister(ScheduledJobRunsTotal)
		registry.MustRegister(ScheduledJobDuration)
		registry.MustRegister(RelationshipScoreUpdatesTotal)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler. The ml and ai packages
// register with the default registry, so both gatherers are exposed.
func Handler() http.Handler {
	gatherers := prometheus.Gatherers{GetRegistry(), prometheus.DefaultGatherer}
	return promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})
}

// RecordBidScored records one scored bid.
func RecordBidScored(trigger string) {
	BidsScoredTotal.WithLabelValues(trigger).Inc()
}

// RecordPredictionWriteback records a prediction persisted onto a bid.
func RecordPredictionWriteback() {
	PredictionWritebacksTotal.Inc()
}

// RecordRecommendations records generated recommendation strings.
func RecordRecommendations(count int) {
	RecommendationsGeneratedTotal.Add(float64(count))
}

// RecordAIBlend records a prediction blended with the AI advisor.
func RecordAIBlend() {
	AIBlendedPredictionsTotal.Inc()
}

// UpdateOpenBids updates the open bid gauge.
func UpdateOpenBids(count float64) {
	OpenBids.Set(count)
}

// UpdateDecidedBids updates the decided bid gauge.
func UpdateDecidedBids(count float64) {
	DecidedBids.Set(count)
}

// UpdateAvgWinProbability updates the portfolio win probability gauge.
func UpdateAvgWinProbability(percent float64) {
	PortfolioAvgWinProbability.Set(percent)
}

// RecordRefreshDuration records a prediction refresh run duration.
func RecordRefreshDuration(durationSeconds float64) {
	RefreshDuration.Observe(durationSeconds)
}

// RecordDashboardBuild records a dashboard summary build duration.
func RecordDashboardBuild(durationSeconds float64) {
	DashboardBuildDuration.Observe(durationSeconds)
}
