// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-jwt.
//
// go-jwt is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.


// Package metrics exposes Prometheus metrics for token signing,
// verification and request authentication.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jeremyhahn/go-jwt/pkg/jwterr"
)

const (
	// Namespace is the Prometheus namespace for all go-jwt metrics
	Namespace = "jwt"

	// Label names
	LabelOperation = "operation"
	LabelAlgorithm = "algorithm"
	LabelStatus    = "status"
	LabelErrorType = "error_type"

	// Status values
	StatusSuccess = "success"
	StatusError   = "error"

	// Operation names
	OpSign         = "sign"
	OpVerify       = "verify"
	OpDecode       = "decode"
	OpAuthenticate = "authenticate"
)

var (
	// OperationsTotal counts token operations by type, algorithm and status.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Total number of token operations by type, algorithm, and status",
		},
		[]string{LabelOperation, LabelAlgorithm, LabelStatus},
	)

	// OperationDuration tracks operation latency in seconds. The low buckets
	// cover HMAC, the high ones remote signers.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of token operations in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{LabelOperation, LabelAlgorithm},
	)

	// ErrorsTotal counts failures by the jwterr kind of the error, e.g.
	// "token_expired" or "signature_verification".
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "errors_total",
			Help:      "Total number of errors by operation, algorithm, and error type",
		},
		[]string{LabelOperation, LabelAlgorithm, LabelErrorType},
	)

	enabled atomic.Bool
)

func init() {
	enabled.Store(true)
}

// RecordOperation records one operation and its duration in seconds.
func RecordOperation(operation, algorithm, status string, duration float64) {
	if !enabled.Load() {
		return
	}
	OperationsTotal.WithLabelValues(operation, algorithm, status).Inc()
	OperationDuration.WithLabelValues(operation, algorithm).Observe(duration)
}

// RecordError increments the error counter.
func RecordError(operation, algorithm, errorType string) {
	if !enabled.Load() {
		return
	}
	ErrorsTotal.WithLabelValues(operation, algorithm, errorType).Inc()
}

// Observe records the outcome of an operation: success, or an error
// classified by its jwterr kind.
func Observe(operation, algorithm string, duration float64, err error) {
	if err == nil {
		RecordOperation(operation, algorithm, StatusSuccess, duration)
		return
	}
	RecordOperation(operation, algorithm, StatusError, duration)
	RecordError(operation, algorithm, ErrorType(err))
}

// ErrorType returns the label value for err.
func ErrorType(err error) string {
	return jwterr.KindOf(err).String()
}

// Enable turns recording on.
func Enable() {
	enabled.Store(true)
}

// Disable turns recording off. Recorded values are kept.
func Disable() {
	enabled.Store(false)
}

// IsEnabled reports whether recording is on.
func IsEnabled() bool {
	return enabled.Load()
}
