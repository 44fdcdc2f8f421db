package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Application-level counters exposed alongside the standard HTTP metrics on
// /metrics.
var (
	// MailSendFailures counts outbound SMTP sends that returned an error,
	// labelled by the kind of message that failed.
	MailSendFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hearth_mail_send_failures_total",
		Help: "Number of failed outbound mail deliveries.",
	}, []string{"kind"})

	// RateLimitRejections counts requests rejected by the Redis rate limiter.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hearth_rate_limit_rejections_total",
		Help: "Number of requests rejected by the rate limiter.",
	}, []string{"resource"})

	// RedisErrors counts failed Redis commands issued by the session store
	// and rate limiter.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hearth_redis_errors_total",
		Help: "Number of Redis command errors.",
	}, []string{"command"})
)
