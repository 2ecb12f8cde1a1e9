package telemetry

import (
	"context"
	"database/sql"

	"go.opentelemetry.io/otel/metric"
)

// PoolStatser is satisfied by *sql.DB
type PoolStatser interface {
	Stats() sql.DBStats
}

// RegisterDBPoolMetrics reports connection pool statistics on every metric
// collection. Unregister the returned registration before closing the pool.
func RegisterDBPoolMetrics(meter metric.Meter, db PoolStatser) (metric.Registration, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	in := NewInstruments(meter)
	conns := in.ObservableGauge("db_pool_connections", "Connections in the pool by state", "{connection}")
	maxOpen := in.ObservableGauge("db_pool_connections_max", "Configured maximum of open connections", "{connection}")
	waits := in.ObservableCounter("db_pool_wait_total", "Connections waited for because the pool was exhausted", "{wait}")
	waitTime := in.ObservableCounter("db_pool_wait_duration_ms", "Total time spent waiting for a connection", "ms")
	closed := in.ObservableCounter("db_pool_closed_total", "Connections closed by the idle and lifetime limits", "{connection}")

	reg := in.Observe(func(_ context.Context, o metric.Observer) error {
		s := db.Stats()
		o.ObserveInt64(conns, int64(s.OpenConnections), metric.WithAttributes(AttrDBState.String("open")))
		o.ObserveInt64(conns, int64(s.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		o.ObserveInt64(conns, int64(s.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(maxOpen, int64(s.MaxOpenConnections))
		o.ObserveInt64(waits, s.WaitCount)
		o.ObserveInt64(waitTime, s.WaitDuration.Milliseconds())
		o.ObserveInt64(closed, s.MaxIdleClosed+s.MaxIdleTimeClosed+s.MaxLifetimeClosed)
		return nil
	}, conns, maxOpen, waits, waitTime, closed)

	if err := in.Err(); err != nil {
		return nil, err
	}
	return reg, nil
}
