package domain

import (
	"context"
	"time"
)

// EventKind names a lifecycle notification emitted after a committed
// transition or reconcile.
type EventKind string

// Lifecycle event kinds.
const (
	EventStatusAdvanced  EventKind = "status_advanced"
	EventStatusRewound   EventKind = "status_rewound"
	EventGroupDissolved  EventKind = "group_dissolved"
	EventDatesReconciled EventKind = "dates_reconciled"
)

// LifecycleEvent is the notification handed to the activity-log collaborator
// after every successful transition or date reconciliation.
type LifecycleEvent struct {
	Kind       EventKind   `json:"kind"`
	TenantID   int64       `json:"tenant_id"`
	GroupID    int64       `json:"group_id"`
	Status     GroupStatus `json:"status"`
	Actor      string      `json:"actor"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// EventSink receives lifecycle events. Delivery is best-effort: a sink error
// must never roll back or block the lifecycle transaction that produced the
// event.
type EventSink interface {
	Record(ctx context.Context, event LifecycleEvent) error
}
