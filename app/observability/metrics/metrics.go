package metrics

import (
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "FlowDesk"

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	GateDecisionsTotal     metric.Int64Counter
	LoginAttemptsTotal     metric.Int64Counter
	LoginDurationSeconds   metric.Float64Histogram
	DbQueryDurationSeconds metric.Float64Histogram
	DbQueryErrorsTotal     metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	initErr    error
	once       sync.Once
)

// New creates every instrument on meter.
func New(meter metric.Meter) (*AppMetrics, error) {
	var err error
	m := &AppMetrics{}

	m.GateDecisionsTotal, err = meter.Int64Counter(
		"gate_decisions_total",
		metric.WithDescription("Access gate decisions by outcome and the stage reached"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gate_decisions_total: %w", err)
	}

	m.LoginAttemptsTotal, err = meter.Int64Counter(
		"login_attempts_total",
		metric.WithDescription("Login attempts by outcome"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create login_attempts_total: %w", err)
	}

	m.LoginDurationSeconds, err = meter.Float64Histogram(
		"login_duration_seconds",
		metric.WithDescription("Duration of login requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create login_duration_seconds: %w", err)
	}

	m.DbQueryDurationSeconds, err = meter.Float64Histogram(
		"db_query_duration_seconds",
		metric.WithDescription("Duration of database queries in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create db_query_duration_seconds: %w", err)
	}

	m.DbQueryErrorsTotal, err = meter.Int64Counter(
		"db_query_errors_total",
		metric.WithDescription("Total number of database query errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create db_query_errors_total: %w", err)
	}

	return m, nil
}

// Noop returns instruments that record nothing.
func Noop() *AppMetrics {
	m, _ := New(noop.NewMeterProvider().Meter(meterName))
	return m
}

// InitAppMetrics creates the global instruments once, from the global MeterProvider.
func InitAppMetrics() error {
	once.Do(func() {
		appMetrics, initErr = New(otel.GetMeterProvider().Meter(meterName))
	})
	return initErr
}

// Get returns the global instruments.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
