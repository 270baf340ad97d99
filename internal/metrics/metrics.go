package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "backup_auth"

// Metrics holds all application metrics.
type Metrics struct {
	gatherer prometheus.Gatherer

	backupIDCommits      *prometheus.CounterVec
	credentialsIssued    *prometheus.CounterVec
	receiptRedemptions   *prometheus.CounterVec
	voucherAnomalies     prometheus.Counter
	expiredVouchersClear prometheus.Counter
	rateLimited          *prometheus.CounterVec
	grpcRequests         *prometheus.CounterVec
	grpcRequestDuration  *prometheus.HistogramVec
}

// New creates metrics registered on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// NewWithRegistry creates metrics on a custom registry, mostly for tests.
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: gatherer,
		backupIDCommits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "backup_id_commits_total",
				Help:      "Backup-id commit attempts by outcome",
			},
			[]string{"outcome"},
		),
		credentialsIssued: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "credentials_issued_total",
				Help:      "Backup credentials issued by credential type and level",
			},
			[]string{"credential_type", "level"},
		),
		receiptRedemptions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "receipt_redemptions_total",
				Help:      "Receipt redemption attempts by outcome",
			},
			[]string{"outcome"},
		),
		voucherAnomalies: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "voucher_shortened_total",
				Help:      "Voucher extensions that carried an earlier expiration than the stored voucher",
			},
		),
		expiredVouchersClear: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "expired_vouchers_cleared_total",
				Help:      "Expired vouchers removed from accounts",
			},
		),
		rateLimited: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limited_total",
				Help:      "Requests rejected by a rate limiter",
			},
			[]string{"descriptor"},
		),
		grpcRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "grpc_requests_total",
				Help:      "gRPC requests by method and status code",
			},
			[]string{"method", "code"},
		),
		grpcRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "grpc_request_duration_seconds",
				Help:      "gRPC request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
}

// RecordBackupIDCommit counts a commit attempt.
func (m *Metrics) RecordBackupIDCommit(outcome string) {
	m.backupIDCommits.WithLabelValues(outcome).Inc()
}

// RecordCredentialsIssued counts n credentials of one type and level.
func (m *Metrics) RecordCredentialsIssued(credentialType, level string, n int) {
	m.credentialsIssued.WithLabelValues(credentialType, level).Add(float64(n))
}

// RecordReceiptRedemption counts a redemption attempt.
func (m *Metrics) RecordReceiptRedemption(outcome string) {
	m.receiptRedemptions.WithLabelValues(outcome).Inc()
}

// RecordVoucherShortened counts a same-level voucher extension with an earlier expiration.
func (m *Metrics) RecordVoucherShortened() {
	m.voucherAnomalies.Inc()
}

// RecordExpiredVoucherCleared counts a removed expired voucher.
func (m *Metrics) RecordExpiredVoucherCleared() {
	m.expiredVouchersClear.Inc()
}

// RecordRateLimited counts a rejection by the limiter for descriptor.
func (m *Metrics) RecordRateLimited(descriptor string) {
	m.rateLimited.WithLabelValues(descriptor).Inc()
}

// RecordGRPCRequest records a completed gRPC request.
func (m *Metrics) RecordGRPCRequest(method, code string, duration time.Duration) {
	m.grpcRequests.WithLabelValues(method, code).Inc()
	m.grpcRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// Handler serves the metrics of this instance's gatherer.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
