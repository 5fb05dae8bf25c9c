package core

import (
	"context"
	"time"
)

// AuditStatus marks an audit entry as a success or failure.
type AuditStatus string

// Audit entry statuses.
const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusError   AuditStatus = "error"
)

// AuditEntry describes one service operation outcome.
type AuditEntry struct {
	Operation  string      `json:"operation"`
	TenantID   int64       `json:"tenant_id"`
	EntityID   int64       `json:"entity_id"`
	Status     AuditStatus `json:"status"`
	Detail     string      `json:"detail,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// AuditRecorder receives audit entries for every service operation.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

// MetricsRecorder observes operation outcomes and latencies.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// Tracer starts spans around service operations.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan terminates a span, recording the operation error if any.
type TraceSpan interface {
	End(err error)
}

// ServiceOption configures optional service collaborators.
type ServiceOption func(*Service)

// WithAuditRecorder wires an audit sink into the service.
func WithAuditRecorder(recorder AuditRecorder) ServiceOption {
	return func(s *Service) { s.audit = recorder }
}

// WithMetricsRecorder wires a metrics recorder into the service.
func WithMetricsRecorder(recorder MetricsRecorder) ServiceOption {
	return func(s *Service) { s.metrics = recorder }
}

// WithTracer wires a tracer into the service.
func WithTracer(tracer Tracer) ServiceOption {
	return func(s *Service) { s.tracer = tracer }
}

// WithClock overrides the service time source (tests).
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// instrument opens a span and returns a finish callback that records metrics
// and audit entries for the operation.
func (s *Service) instrument(ctx context.Context, operation string, tenantID, entityID int64) (context.Context, func(err error)) {
	started := s.now()
	var span TraceSpan
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operation)
	}
	return ctx, func(err error) {
		if span != nil {
			span.End(err)
		}
		if s.metrics != nil {
			s.metrics.Observe(ctx, operation, err == nil, s.now().Sub(started))
		}
		if s.audit != nil {
			entry := AuditEntry{
				Operation:  operation,
				TenantID:   tenantID,
				EntityID:   entityID,
				Status:     AuditStatusSuccess,
				OccurredAt: s.now(),
			}
			if err != nil {
				entry.Status = AuditStatusError
				entry.Detail = err.Error()
			}
			s.audit.Record(ctx, entry)
		}
	}
}
