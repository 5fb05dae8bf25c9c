package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync/atomic"

	"broodcore/pkg/domain"
)

var _ domain.EventSink = (*Journal)(nil)

// Journal records lifecycle events as immutable JSON entries in an archive
// Store. Keys are scoped per tenant and group so the history of a single
// group can be listed with one prefix scan.
type Journal struct {
	store Store
	seq   atomic.Uint64
}

// NewJournal returns a Journal writing to the supplied store.
func NewJournal(store Store) *Journal {
	return &Journal{store: store}
}

// Record archives a single lifecycle event.
func (j *Journal) Record(ctx context.Context, event domain.LifecycleEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode lifecycle event: %w", err)
	}
	key := j.eventKey(event)
	if _, err := j.store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("archive lifecycle event: %w", err)
	}
	return nil
}

// ListGroupEvents returns the archived events for one group ordered by
// occurrence.
func (j *Journal) ListGroupEvents(ctx context.Context, tenantID, groupID int64) ([]domain.LifecycleEvent, error) {
	prefix := fmt.Sprintf("tenants/%d/groups/%d/events/", tenantID, groupID)
	infos, err := j.store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	events := make([]domain.LifecycleEvent, 0, len(infos))
	for _, info := range infos {
		data, err := j.store.Get(ctx, info.Key)
		if err != nil {
			return nil, err
		}
		var ev domain.LifecycleEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decode lifecycle event %s: %w", info.Key, err)
		}
		events = append(events, ev)
	}
	sort.SliceStable(events, func(i, k int) bool {
		return events[i].OccurredAt.Before(events[k].OccurredAt)
	})
	return events, nil
}

// eventKey embeds the occurrence timestamp plus a process-local sequence so
// events landing in the same nanosecond still get distinct keys.
func (j *Journal) eventKey(event domain.LifecycleEvent) string {
	seq := j.seq.Add(1)
	return fmt.Sprintf("tenants/%d/groups/%d/events/%020d-%06d-%s.json",
		event.TenantID, event.GroupID, event.OccurredAt.UTC().UnixNano(), seq, event.Kind)
}
