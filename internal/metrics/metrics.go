package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Call outcomes used as the status label of ContractCalls.
const (
	StatusSuccess     = "success"
	StatusPackError   = "pack_error"
	StatusRemoteError = "remote_error"
	StatusUnpackError = "unpack_error"
)

var (
	EndpointResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "endpoint_responses_total",
		Help: "The total number of endpoint responses",
	}, []string{"endpoint", "status_code"})

	// Contract call metrics
	ContractCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contract_calls_total",
		Help: "Total number of read-only contract calls by outcome",
	}, []string{"contract", "method", "status"})

	ContractCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "contract_call_duration_ms",
		Help:    "Duration of eth_call round trips in milliseconds",
		Buckets: prometheus.ExponentialBuckets(1, 2, 15), // 1ms to ~32s
	}, []string{"contract", "method"})

	ContractInstancesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contract_instances_created_total",
		Help: "Number of contract instances built from artifacts",
	}, []string{"contract"})

	ValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "validation_failures_total",
		Help: "Number of operations rejected before any network access",
	}, []string{"rule"})
)
