package auth

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the session-manager counters. A nil *Metrics is valid and
// records nothing, which keeps tests and tooling free of meter setup.
type Metrics struct {
	logins        metric.Int64Counter
	loginFailures metric.Int64Counter
	refreshes     metric.Int64Counter
	revocations   metric.Int64Counter
	evictions     metric.Int64Counter
	hijackFlags   metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var m Metrics
	var err error
	if m.logins, err = meter.Int64Counter("auth.logins",
		metric.WithDescription("Successful logins")); err != nil {
		return nil, err
	}
	if m.loginFailures, err = meter.Int64Counter("auth.login_failures",
		metric.WithDescription("Failed login attempts")); err != nil {
		return nil, err
	}
	if m.refreshes, err = meter.Int64Counter("auth.refreshes",
		metric.WithDescription("Successful token refreshes")); err != nil {
		return nil, err
	}
	if m.revocations, err = meter.Int64Counter("auth.revocations",
		metric.WithDescription("Sessions revoked by logout or password change")); err != nil {
		return nil, err
	}
	if m.evictions, err = meter.Int64Counter("auth.session_evictions",
		metric.WithDescription("Sessions evicted by the concurrent-session cap")); err != nil {
		return nil, err
	}
	if m.hijackFlags, err = meter.Int64Counter("auth.hijack_flags",
		metric.WithDescription("Requests flagged by the IP-change policy")); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Metrics) Login(ctx context.Context) {
	if m != nil {
		m.logins.Add(ctx, 1)
	}
}

func (m *Metrics) LoginFailure(ctx context.Context) {
	if m != nil {
		m.loginFailures.Add(ctx, 1)
	}
}

func (m *Metrics) Refresh(ctx context.Context) {
	if m != nil {
		m.refreshes.Add(ctx, 1)
	}
}

func (m *Metrics) Revocation(ctx context.Context) {
	if m != nil {
		m.revocations.Add(ctx, 1)
	}
}

func (m *Metrics) SessionEvicted(ctx context.Context) {
	if m != nil {
		m.evictions.Add(ctx, 1)
	}
}

func (m *Metrics) HijackFlagged(ctx context.Context, mode string) {
	if m != nil {
		m.hijackFlags.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", mode)))
	}
}
