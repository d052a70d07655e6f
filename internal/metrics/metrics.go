package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hellopiggy_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	CampaignsReserved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hellopiggy_campaigns_reserved_total",
		Help: "Campaigns created by sellers",
	})

	CampaignsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hellopiggy_campaigns_confirmed_total",
		Help: "Campaigns moved to the confirmed status",
	})

	CapacityRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hellopiggy_capacity_rejections_total",
		Help: "Reservations or confirmations refused for capacity",
	}, []string{"stage"})

	ReviewsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hellopiggy_reviews_submitted_total",
		Help: "Reviews submitted through the public form",
	})

	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hellopiggy_uploads_total",
		Help: "Image uploads by result",
	}, []string{"result"})

	RankSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hellopiggy_rank_searches_total",
		Help: "Keyword rank searches by outcome",
	}, []string{"status"})

	ProductsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hellopiggy_products_started_total",
		Help: "Products flipped to in-progress by the worker",
	})
)
