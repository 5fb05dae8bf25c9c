package core

import (
	"context"
	"fmt"
	"time"

	"broodcore/internal/infra/persistence/memory"
	"broodcore/pkg/domain"
)

// Service is the transactional façade over the lifecycle engine. It loads
// tenant-scoped records, hands them to the pure transition logic, persists
// the outcome inside one unit of work, and emits lifecycle events after
// commit.
type Service struct {
	store   domain.PersistentStore
	events  domain.EventSink
	audit   AuditRecorder
	metrics MetricsRecorder
	tracer  Tracer
	now     func() time.Time
}

// NewService constructs a service backed by the supplied store.
func NewService(store domain.PersistentStore, opts ...ServiceOption) *Service {
	s := &Service{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService creates a service over a fresh in-memory store with the
// given rules engine.
func NewInMemoryService(engine *domain.RulesEngine, opts ...ServiceOption) *Service {
	return NewService(memory.NewStore(engine), opts...)
}

// WithEventSink wires the lifecycle event side channel. Sink failures are
// recorded in the audit trail but never fail the operation.
func WithEventSink(sink domain.EventSink) ServiceOption {
	return func(s *Service) { s.events = sink }
}

// Store returns the underlying storage implementation.
func (s *Service) Store() domain.PersistentStore {
	return s.store
}

func notFound(tenantID, groupID int64) error {
	return domain.NewLifecycleError(domain.KindGroupNotFound, "group %d not found for tenant %d", groupID, tenantID)
}

func (s *Service) emit(ctx context.Context, kind domain.EventKind, g domain.OffspringGroup, actor string) {
	if s.events == nil {
		return
	}
	event := domain.LifecycleEvent{
		Kind:       kind,
		TenantID:   g.TenantID,
		GroupID:    g.ID,
		Status:     g.Status,
		Actor:      actor,
		OccurredAt: s.now(),
	}
	if err := s.events.Record(ctx, event); err != nil && s.audit != nil {
		s.audit.Record(ctx, AuditEntry{
			Operation:  "emit_lifecycle_event",
			TenantID:   g.TenantID,
			EntityID:   g.ID,
			Status:     AuditStatusError,
			Detail:     err.Error(),
			OccurredAt: s.now(),
		})
	}
}

// AdvanceGroupStatus moves a group forward in the status graph. An empty
// target advances to the next status; an explicit target must be a known
// status strictly forward of the current one and must satisfy its own entry
// gate.
func (s *Service) AdvanceGroupStatus(ctx context.Context, tenantID, groupID int64, target string, actor string) (domain.OffspringGroup, domain.Result, error) {
	ctx, finish := s.instrument(ctx, "advance_group_status", tenantID, groupID)
	var updated domain.OffspringGroup
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		g, ok := tx.FindGroup(tenantID, groupID)
		if !ok {
			return notFound(tenantID, groupID)
		}
		stats := collectStats(tx.ListGroupOffspring(tenantID, groupID))
		var targetStatus *domain.GroupStatus
		if target != "" {
			t := domain.GroupStatus(target)
			targetStatus = &t
		}
		next, err := advanceStatus(g, stats, targetStatus)
		if err != nil {
			return err
		}
		updated, err = tx.UpdateGroup(tenantID, groupID, func(g *domain.OffspringGroup) error {
			s.applyStatus(g, next)
			return nil
		})
		return err
	})
	finish(err)
	if err != nil {
		return domain.OffspringGroup{}, res, err
	}
	s.emit(ctx, domain.EventStatusAdvanced, updated, actor)
	return updated, res, nil
}

// RewindGroupStatus moves a group one status back. Gating dates are
// historical facts and survive the rewind; only the date-patch operation
// clears dates.
func (s *Service) RewindGroupStatus(ctx context.Context, tenantID, groupID int64, actor string) (domain.OffspringGroup, domain.Result, error) {
	ctx, finish := s.instrument(ctx, "rewind_group_status", tenantID, groupID)
	var updated domain.OffspringGroup
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		g, ok := tx.FindGroup(tenantID, groupID)
		if !ok {
			return notFound(tenantID, groupID)
		}
		stats := collectStats(tx.ListGroupOffspring(tenantID, groupID))
		prev, err := rewindStatus(g, stats)
		if err != nil {
			return err
		}
		updated, err = tx.UpdateGroup(tenantID, groupID, func(g *domain.OffspringGroup) error {
			g.Status = prev
			return nil
		})
		return err
	})
	finish(err)
	if err != nil {
		return domain.OffspringGroup{}, res, err
	}
	s.emit(ctx, domain.EventStatusRewound, updated, actor)
	return updated, res, nil
}

// DissolveGroup closes out a group that has no live offspring left.
// Dissolution is permanent; no transition leaves the dissolved status.
func (s *Service) DissolveGroup(ctx context.Context, tenantID, groupID int64, actor string) (domain.OffspringGroup, domain.Result, error) {
	ctx, finish := s.instrument(ctx, "dissolve_group", tenantID, groupID)
	var updated domain.OffspringGroup
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		g, ok := tx.FindGroup(tenantID, groupID)
		if !ok {
			return notFound(tenantID, groupID)
		}
		stats := collectStats(tx.ListGroupOffspring(tenantID, groupID))
		next, err := dissolveStatus(g, stats)
		if err != nil {
			return err
		}
		updated, err = tx.UpdateGroup(tenantID, groupID, func(g *domain.OffspringGroup) error {
			g.Status = next
			return nil
		})
		return err
	})
	finish(err)
	if err != nil {
		return domain.OffspringGroup{}, res, err
	}
	s.emit(ctx, domain.EventGroupDissolved, updated, actor)
	return updated, res, nil
}

// PatchGroupDates applies a partial date patch and reconciles the group's
// status, cascading automatic forward steps while each next gate is
// satisfied. The patch and any resulting status changes commit atomically.
func (s *Service) PatchGroupDates(ctx context.Context, tenantID, groupID int64, patch domain.DatePatch, actor string) (domain.OffspringGroup, domain.Result, error) {
	ctx, finish := s.instrument(ctx, "patch_group_dates", tenantID, groupID)
	var updated domain.OffspringGroup
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, ok := tx.FindGroup(tenantID, groupID); !ok {
			return notFound(tenantID, groupID)
		}
		stats := collectStats(tx.ListGroupOffspring(tenantID, groupID))
		var err error
		updated, err = tx.UpdateGroup(tenantID, groupID, func(g *domain.OffspringGroup) error {
			if err := patch.Apply(g); err != nil {
				return err
			}
			if next, steps := reconcileStatus(*g, stats); steps > 0 {
				s.applyStatus(g, next)
			}
			return nil
		})
		return err
	})
	finish(err)
	if err != nil {
		return domain.OffspringGroup{}, res, err
	}
	s.emit(ctx, domain.EventDatesReconciled, updated, actor)
	return updated, res, nil
}

// applyStatus writes the new status and stamps the completion date the first
// time the group enters COMPLETE.
func (s *Service) applyStatus(g *domain.OffspringGroup, next domain.GroupStatus) {
	g.Status = next
	if next == domain.StatusComplete && g.CompletedAt == nil {
		completed := s.now()
		g.CompletedAt = &completed
	}
}

// GroupDetail returns the group plus its offspring and milestones from one
// consistent snapshot.
func (s *Service) GroupDetail(ctx context.Context, tenantID, groupID int64) (domain.OffspringGroup, []domain.Offspring, []domain.BreedingMilestone, error) {
	_, finish := s.instrument(ctx, "group_detail", tenantID, groupID)
	var (
		group      domain.OffspringGroup
		offspring  []domain.Offspring
		milestones []domain.BreedingMilestone
	)
	err := s.store.View(ctx, func(view domain.TransactionView) error {
		g, ok := view.FindGroup(tenantID, groupID)
		if !ok {
			return notFound(tenantID, groupID)
		}
		group = g
		offspring = view.ListGroupOffspring(tenantID, groupID)
		milestones = view.ListGroupMilestones(tenantID, groupID)
		return nil
	})
	finish(err)
	if err != nil {
		return domain.OffspringGroup{}, nil, nil, err
	}
	return group, offspring, milestones, nil
}

// CreateGroup persists a new offspring group. Status defaults to PENDING.
func (s *Service) CreateGroup(ctx context.Context, group domain.OffspringGroup) (domain.OffspringGroup, domain.Result, error) {
	ctx, finish := s.instrument(ctx, "create_group", group.TenantID, 0)
	var created domain.OffspringGroup
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateGroup(group)
		return err
	})
	finish(err)
	return created, res, err
}

// UpdateGroup mutates a group using the provided mutator. Status changes must
// go through the lifecycle operations; the transition rule blocks any edit
// that leaves a terminal status or writes an unknown one.
func (s *Service) UpdateGroup(ctx context.Context, tenantID, groupID int64, mutator func(*domain.OffspringGroup) error) (domain.OffspringGroup, domain.Result, error) {
	ctx, finish := s.instrument(ctx, "update_group", tenantID, groupID)
	var updated domain.OffspringGroup
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var err error
		updated, err = tx.UpdateGroup(tenantID, groupID, mutator)
		return err
	})
	finish(err)
	return updated, res, err
}

// DeleteGroup soft-deletes a group, hiding it from all lifecycle operations.
func (s *Service) DeleteGroup(ctx context.Context, tenantID, groupID int64) (domain.Result, error) {
	ctx, finish := s.instrument(ctx, "delete_group", tenantID, groupID)
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.SoftDeleteGroup(tenantID, groupID)
	})
	finish(err)
	return res, err
}

// CreateOffspring persists a new offspring in a group.
func (s *Service) CreateOffspring(ctx context.Context, offspring domain.Offspring) (domain.Offspring, domain.Result, error) {
	ctx, finish := s.instrument(ctx, "create_offspring", offspring.TenantID, offspring.GroupID)
	var created domain.Offspring
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateOffspring(offspring)
		return err
	})
	finish(err)
	return created, res, err
}

// UpdateOffspring mutates an offspring record. Life- and placement-state
// changes go through here; the group-level rewind policy defers to these
// per-individual facts.
func (s *Service) UpdateOffspring(ctx context.Context, tenantID, offspringID int64, mutator func(*domain.Offspring) error) (domain.Offspring, domain.Result, error) {
	ctx, finish := s.instrument(ctx, "update_offspring", tenantID, offspringID)
	var updated domain.Offspring
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var err error
		updated, err = tx.UpdateOffspring(tenantID, offspringID, mutator)
		return err
	})
	finish(err)
	return updated, res, err
}

// CreateMilestone persists a breeding milestone for a group.
func (s *Service) CreateMilestone(ctx context.Context, milestone domain.BreedingMilestone) (domain.BreedingMilestone, domain.Result, error) {
	ctx, finish := s.instrument(ctx, "create_milestone", milestone.TenantID, milestone.GroupID)
	var created domain.BreedingMilestone
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateMilestone(milestone)
		return err
	})
	finish(err)
	return created, res, err
}

// RecordWeights batch-records weight observations for a group. Every
// referenced offspring must belong to the group; membership is checked
// against the same snapshot the inserts commit into. This is input
// validation, not a lifecycle transition.
func (s *Service) RecordWeights(ctx context.Context, tenantID, groupID int64, observations []domain.WeightObservation) ([]domain.WeightObservation, domain.Result, error) {
	ctx, finish := s.instrument(ctx, "record_weights", tenantID, groupID)
	var recorded []domain.WeightObservation
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if _, ok := tx.FindGroup(tenantID, groupID); !ok {
			return notFound(tenantID, groupID)
		}
		members := make(map[int64]struct{})
		for _, o := range tx.ListGroupOffspring(tenantID, groupID) {
			members[o.ID] = struct{}{}
		}
		for _, obs := range observations {
			if _, ok := members[obs.OffspringID]; !ok {
				return domain.ValidationError{Detail: fmt.Sprintf("offspring %d does not belong to group %d", obs.OffspringID, groupID)}
			}
		}
		recorded = make([]domain.WeightObservation, 0, len(observations))
		for _, obs := range observations {
			obs.TenantID = tenantID
			obs.GroupID = groupID
			saved, err := tx.RecordWeight(obs)
			if err != nil {
				return err
			}
			recorded = append(recorded, saved)
		}
		return nil
	})
	finish(err)
	if err != nil {
		return nil, res, err
	}
	return recorded, res, nil
}
