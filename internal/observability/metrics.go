package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "earn_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpResponseTime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "earn_http_response_time_seconds",
			Help:    "Histogram of response times",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// AdAttempts counts ad display requests by surface and outcome.
	AdAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "earn_ad_attempts_total",
			Help: "Ad display attempts by surface and outcome",
		},
		[]string{"surface", "outcome"},
	)

	// RewardsCredited counts credited ad rewards by kind.
	RewardsCredited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "earn_rewards_credited_total",
			Help: "Rewards credited to ledgers by kind",
		},
		[]string{"kind"},
	)

	// Withdrawals counts withdrawal submissions by result.
	Withdrawals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "earn_withdrawals_total",
			Help: "Withdrawal submissions by result",
		},
		[]string{"result"},
	)

	// ReferralCredits counts referral credit attempts by result.
	ReferralCredits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "earn_referral_credits_total",
			Help: "Referral credit attempts by result",
		},
		[]string{"result"},
	)

	// BridgeDeliveries counts host bridge deliveries by sink and result.
	BridgeDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "earn_bridge_deliveries_total",
			Help: "Host bridge deliveries by sink and result",
		},
		[]string{"sink", "result"},
	)
)

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, route string, status int, latency time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpResponseTime.WithLabelValues(method, route).Observe(latency.Seconds())
}

// MetricsHandler exposes the default registry for scraping.
func MetricsHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
