package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"broodcore/pkg/domain"
)

type captureSink struct {
	events []domain.LifecycleEvent
	err    error
}

func (c *captureSink) Record(_ context.Context, e domain.LifecycleEvent) error {
	if c.err != nil {
		return c.err
	}
	c.events = append(c.events, e)
	return nil
}

type captureAudit struct {
	entries []AuditEntry
}

func (c *captureAudit) Record(_ context.Context, entry AuditEntry) {
	c.entries = append(c.entries, entry)
}

func newTestService(t *testing.T, opts ...ServiceOption) *Service {
	t.Helper()
	return NewInMemoryService(NewDefaultRulesEngine(), opts...)
}

func mustCreateGroup(t *testing.T, svc *Service, tenantID int64) domain.OffspringGroup {
	t.Helper()
	g := domain.OffspringGroup{Name: "clutch"}
	g.TenantID = tenantID
	created, _, err := svc.CreateGroup(context.Background(), g)
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if created.Status != domain.StatusPending {
		t.Fatalf("new group should start pending, got %s", created.Status)
	}
	return created
}

func mustCreateOffspring(t *testing.T, svc *Service, tenantID, groupID int64, name string) domain.Offspring {
	t.Helper()
	o := domain.Offspring{GroupID: groupID, Name: name}
	o.TenantID = tenantID
	created, _, err := svc.CreateOffspring(context.Background(), o)
	if err != nil {
		t.Fatalf("create offspring %s: %v", name, err)
	}
	return created
}

// setDates writes milestone dates directly, without triggering reconcile.
func setDates(t *testing.T, svc *Service, tenantID, groupID int64, mutate func(*domain.OffspringGroup)) {
	t.Helper()
	if _, _, err := svc.UpdateGroup(context.Background(), tenantID, groupID, func(g *domain.OffspringGroup) error {
		mutate(g)
		return nil
	}); err != nil {
		t.Fatalf("set dates: %v", err)
	}
}

func placeOffspring(t *testing.T, svc *Service, tenantID, offspringID int64) {
	t.Helper()
	placed := time.Now().UTC()
	if _, _, err := svc.UpdateOffspring(context.Background(), tenantID, offspringID, func(o *domain.Offspring) error {
		o.PlacementState = domain.PlacementPlaced
		o.PlacedAt = &placed
		return nil
	}); err != nil {
		t.Fatalf("place offspring: %v", err)
	}
}

func TestAdvanceGroupStatusFullLifecycle(t *testing.T) {
	ctx := context.Background()
	sink := &captureSink{}
	svc := newTestService(t, WithEventSink(sink))
	group := mustCreateGroup(t, svc, 1)
	first := mustCreateOffspring(t, svc, 1, group.ID, "first")
	second := mustCreateOffspring(t, svc, 1, group.ID, "second")

	birth := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	setDates(t, svc, 1, group.ID, func(g *domain.OffspringGroup) {
		g.ActualBirthOn = &birth
	})
	g, _, err := svc.AdvanceGroupStatus(ctx, 1, group.ID, "", "keeper@example.com")
	if err != nil {
		t.Fatalf("advance to birthed: %v", err)
	}
	if g.Status != domain.StatusBirthed {
		t.Fatalf("want birthed, got %s", g.Status)
	}

	weaned := birth.AddDate(0, 0, 42)
	setDates(t, svc, 1, group.ID, func(g *domain.OffspringGroup) { g.WeanedAt = &weaned })
	if g, _, err = svc.AdvanceGroupStatus(ctx, 1, group.ID, "", "keeper@example.com"); err != nil || g.Status != domain.StatusWeaned {
		t.Fatalf("advance to weaned: %v (%s)", err, g.Status)
	}

	start := weaned.AddDate(0, 0, 14)
	setDates(t, svc, 1, group.ID, func(g *domain.OffspringGroup) { g.PlacementStartAt = &start })
	if g, _, err = svc.AdvanceGroupStatus(ctx, 1, group.ID, "", "keeper@example.com"); err != nil || g.Status != domain.StatusPlacement {
		t.Fatalf("advance to placement: %v (%s)", err, g.Status)
	}

	// Completion blocked while live offspring remain unplaced.
	done := start.AddDate(0, 0, 30)
	setDates(t, svc, 1, group.ID, func(g *domain.OffspringGroup) { g.PlacementCompletedAt = &done })
	if _, _, err := svc.AdvanceGroupStatus(ctx, 1, group.ID, "", "keeper@example.com"); lifecycleKind(t, err) != domain.KindOffspringNotPlaced {
		t.Fatalf("advance to complete with unplaced offspring: %v", err)
	}

	placeOffspring(t, svc, 1, first.ID)
	placeOffspring(t, svc, 1, second.ID)
	g, _, err = svc.AdvanceGroupStatus(ctx, 1, group.ID, "", "keeper@example.com")
	if err != nil {
		t.Fatalf("advance to complete: %v", err)
	}
	if g.Status != domain.StatusComplete {
		t.Fatalf("want complete, got %s", g.Status)
	}
	if g.CompletedAt == nil {
		t.Fatalf("completion timestamp not stamped")
	}

	if len(sink.events) != 4 {
		t.Fatalf("expected 4 lifecycle events, got %d", len(sink.events))
	}
	for _, ev := range sink.events {
		if ev.Kind != domain.EventStatusAdvanced {
			t.Fatalf("unexpected event kind %s", ev.Kind)
		}
		if ev.Actor != "keeper@example.com" || ev.TenantID != 1 || ev.GroupID != group.ID {
			t.Fatalf("event fields wrong: %+v", ev)
		}
	}
}

func TestAdvanceGroupStatusTenantIsolation(t *testing.T) {
	svc := newTestService(t)
	group := mustCreateGroup(t, svc, 1)
	_, _, err := svc.AdvanceGroupStatus(context.Background(), 2, group.ID, "", "")
	if lifecycleKind(t, err) != domain.KindGroupNotFound {
		t.Fatalf("cross-tenant access: want GROUP_NOT_FOUND, got %v", err)
	}
}

func TestAdvanceGroupStatusSoftDeletedGroupIsInvisible(t *testing.T) {
	svc := newTestService(t)
	group := mustCreateGroup(t, svc, 1)
	if _, err := svc.DeleteGroup(context.Background(), 1, group.ID); err != nil {
		t.Fatalf("delete group: %v", err)
	}
	_, _, err := svc.AdvanceGroupStatus(context.Background(), 1, group.ID, "", "")
	if lifecycleKind(t, err) != domain.KindGroupNotFound {
		t.Fatalf("deleted group: want GROUP_NOT_FOUND, got %v", err)
	}
}

func TestAdvanceGroupStatusFailedGateLeavesGroupUntouched(t *testing.T) {
	svc := newTestService(t)
	group := mustCreateGroup(t, svc, 1)
	if _, _, err := svc.AdvanceGroupStatus(context.Background(), 1, group.ID, "", ""); err == nil {
		t.Fatalf("expected gate failure")
	}
	g, _, _, err := svc.GroupDetail(context.Background(), 1, group.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if g.Status != domain.StatusPending {
		t.Fatalf("failed advance must not move the group, got %s", g.Status)
	}
}

func TestRewindGroupStatusKeepsDates(t *testing.T) {
	svc := newTestService(t)
	group := mustCreateGroup(t, svc, 1)
	mustCreateOffspring(t, svc, 1, group.ID, "only")
	birth := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	setDates(t, svc, 1, group.ID, func(g *domain.OffspringGroup) { g.ActualBirthOn = &birth })
	if _, _, err := svc.AdvanceGroupStatus(context.Background(), 1, group.ID, "", ""); err != nil {
		t.Fatalf("advance: %v", err)
	}

	g, _, err := svc.RewindGroupStatus(context.Background(), 1, group.ID, "")
	if err != nil {
		t.Fatalf("rewind: %v", err)
	}
	if g.Status != domain.StatusPending {
		t.Fatalf("want pending, got %s", g.Status)
	}
	if g.ActualBirthOn == nil {
		t.Fatalf("rewind must not clear the birth date")
	}
}

func TestRewindFromCompleteThenReadvanceKeepsCompletedAt(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	group := mustCreateGroup(t, svc, 1)
	o := mustCreateOffspring(t, svc, 1, group.ID, "only")

	birth := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	setDates(t, svc, 1, group.ID, func(g *domain.OffspringGroup) {
		g.ActualBirthOn = &birth
		weaned := birth.AddDate(0, 0, 42)
		g.WeanedAt = &weaned
		start := birth.AddDate(0, 0, 56)
		g.PlacementStartAt = &start
		done := birth.AddDate(0, 0, 90)
		g.PlacementCompletedAt = &done
	})
	placeOffspring(t, svc, 1, o.ID)
	g, _, err := svc.AdvanceGroupStatus(ctx, 1, group.ID, string(domain.StatusComplete), "")
	if err != nil {
		t.Fatalf("advance to complete: %v", err)
	}
	firstCompleted := g.CompletedAt
	if firstCompleted == nil {
		t.Fatalf("completion timestamp not stamped")
	}

	// Rewind from COMPLETE is prevented while the offspring remains placed.
	if _, _, err := svc.RewindGroupStatus(ctx, 1, group.ID, ""); lifecycleKind(t, err) != domain.KindCannotRewind {
		t.Fatalf("rewind with placed offspring: %v", err)
	}
	if _, _, err := svc.UpdateOffspring(ctx, 1, o.ID, func(o *domain.Offspring) error {
		o.PlacementState = domain.PlacementUnplaced
		o.PlacedAt = nil
		return nil
	}); err != nil {
		t.Fatalf("unplace: %v", err)
	}

	g, _, err = svc.RewindGroupStatus(ctx, 1, group.ID, "")
	if err != nil {
		t.Fatalf("rewind from complete: %v", err)
	}
	if g.Status != domain.StatusPlacement {
		t.Fatalf("want placement, got %s", g.Status)
	}
	if g.CompletedAt == nil || !g.CompletedAt.Equal(*firstCompleted) {
		t.Fatalf("rewind must keep the original completion timestamp")
	}

	placeOffspring(t, svc, 1, o.ID)
	g, _, err = svc.AdvanceGroupStatus(ctx, 1, group.ID, "", "")
	if err != nil {
		t.Fatalf("re-advance: %v", err)
	}
	if !g.CompletedAt.Equal(*firstCompleted) {
		t.Fatalf("re-entering complete must not restamp the completion timestamp")
	}
}

func TestDissolveGroupRequiresNoLiveOffspring(t *testing.T) {
	ctx := context.Background()
	sink := &captureSink{}
	svc := newTestService(t, WithEventSink(sink))
	group := mustCreateGroup(t, svc, 1)
	o := mustCreateOffspring(t, svc, 1, group.ID, "only")

	if _, _, err := svc.DissolveGroup(ctx, 1, group.ID, ""); lifecycleKind(t, err) != domain.KindLiveOffspringExist {
		t.Fatalf("dissolve with live offspring: %v", err)
	}

	if _, _, err := svc.UpdateOffspring(ctx, 1, o.ID, func(o *domain.Offspring) error {
		o.LifeState = domain.LifeDeceased
		return nil
	}); err != nil {
		t.Fatalf("mark deceased: %v", err)
	}

	g, _, err := svc.DissolveGroup(ctx, 1, group.ID, "vet@example.com")
	if err != nil {
		t.Fatalf("dissolve: %v", err)
	}
	if g.Status != domain.StatusDissolved {
		t.Fatalf("want dissolved, got %s", g.Status)
	}

	// Dissolution is permanent.
	if _, _, err := svc.DissolveGroup(ctx, 1, group.ID, ""); lifecycleKind(t, err) != domain.KindCannotDissolveDissolved {
		t.Fatalf("double dissolve: %v", err)
	}
	if _, _, err := svc.AdvanceGroupStatus(ctx, 1, group.ID, "", ""); lifecycleKind(t, err) != domain.KindCannotAdvanceDissolved {
		t.Fatalf("advance dissolved: %v", err)
	}
	if _, _, err := svc.RewindGroupStatus(ctx, 1, group.ID, ""); lifecycleKind(t, err) != domain.KindCannotRewindDissolved {
		t.Fatalf("rewind dissolved: %v", err)
	}

	if len(sink.events) != 1 || sink.events[0].Kind != domain.EventGroupDissolved {
		t.Fatalf("expected one dissolve event, got %+v", sink.events)
	}
}

func TestPatchGroupDatesCascadesStatus(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	group := mustCreateGroup(t, svc, 1)
	mustCreateOffspring(t, svc, 1, group.ID, "a")
	mustCreateOffspring(t, svc, 1, group.ID, "b")

	birth := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	weaned := birth.AddDate(0, 0, 42)
	start := birth.AddDate(0, 0, 56)
	g, _, err := svc.PatchGroupDates(ctx, 1, group.ID, domain.DatePatch{
		domain.FieldActualBirthOn:    {Value: &birth},
		domain.FieldWeanedAt:         {Value: &weaned},
		domain.FieldPlacementStartAt: {Value: &start},
	}, "keeper@example.com")
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if g.Status != domain.StatusPlacement {
		t.Fatalf("patch should cascade to placement, got %s", g.Status)
	}
}

func TestPatchGroupDatesStopsAtUnplacedOffspring(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	group := mustCreateGroup(t, svc, 1)
	mustCreateOffspring(t, svc, 1, group.ID, "a")

	birth := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	weaned := birth.AddDate(0, 0, 42)
	start := birth.AddDate(0, 0, 56)
	done := birth.AddDate(0, 0, 90)
	g, _, err := svc.PatchGroupDates(ctx, 1, group.ID, domain.DatePatch{
		domain.FieldActualBirthOn:        {Value: &birth},
		domain.FieldWeanedAt:             {Value: &weaned},
		domain.FieldPlacementStartAt:     {Value: &start},
		domain.FieldPlacementCompletedAt: {Value: &done},
	}, "")
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	// The complete gate fails on the unplaced offspring; the cascade stops
	// silently at placement rather than erroring.
	if g.Status != domain.StatusPlacement {
		t.Fatalf("want placement, got %s", g.Status)
	}
}

func TestPatchGroupDatesUnknownFieldRejectedAtomically(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	group := mustCreateGroup(t, svc, 1)
	mustCreateOffspring(t, svc, 1, group.ID, "a")

	birth := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	_, _, err := svc.PatchGroupDates(ctx, 1, group.ID, domain.DatePatch{
		domain.FieldActualBirthOn: {Value: &birth},
		"hatch_day":               {Value: &birth},
	}, "")
	var verr domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	g, _, _, err := svc.GroupDetail(ctx, 1, group.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if g.ActualBirthOn != nil || g.Status != domain.StatusPending {
		t.Fatalf("rejected patch must not partially apply: %+v", g)
	}
}

func TestPatchGroupDatesClearingDateDoesNotRewind(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	group := mustCreateGroup(t, svc, 1)
	mustCreateOffspring(t, svc, 1, group.ID, "a")
	birth := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	if _, _, err := svc.PatchGroupDates(ctx, 1, group.ID, domain.DatePatch{
		domain.FieldActualBirthOn: {Value: &birth},
	}, ""); err != nil {
		t.Fatalf("patch: %v", err)
	}

	g, _, err := svc.PatchGroupDates(ctx, 1, group.ID, domain.DatePatch{
		domain.FieldActualBirthOn: {Value: nil},
	}, "")
	if err != nil {
		t.Fatalf("clearing patch: %v", err)
	}
	if g.Status != domain.StatusBirthed {
		t.Fatalf("reconcile only moves forward; want birthed, got %s", g.Status)
	}
	if g.ActualBirthOn != nil {
		t.Fatalf("date should be cleared")
	}
}

func TestStepwiseAdvanceMatchesSinglePatch(t *testing.T) {
	ctx := context.Background()
	birth := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	weaned := birth.AddDate(0, 0, 42)
	start := birth.AddDate(0, 0, 56)

	// One group driven date-by-date through explicit advances.
	stepwise := newTestService(t)
	a := mustCreateGroup(t, stepwise, 1)
	mustCreateOffspring(t, stepwise, 1, a.ID, "kit")
	for _, step := range []domain.DatePatch{
		{domain.FieldActualBirthOn: {Value: &birth}},
		{domain.FieldWeanedAt: {Value: &weaned}},
		{domain.FieldPlacementStartAt: {Value: &start}},
	} {
		if _, _, err := stepwise.PatchGroupDates(ctx, 1, a.ID, step, ""); err != nil {
			t.Fatalf("stepwise patch: %v", err)
		}
	}

	// A second group given all dates in one patch.
	batched := newTestService(t)
	b := mustCreateGroup(t, batched, 1)
	mustCreateOffspring(t, batched, 1, b.ID, "kit")
	if _, _, err := batched.PatchGroupDates(ctx, 1, b.ID, domain.DatePatch{
		domain.FieldActualBirthOn:    {Value: &birth},
		domain.FieldWeanedAt:         {Value: &weaned},
		domain.FieldPlacementStartAt: {Value: &start},
	}, ""); err != nil {
		t.Fatalf("batched patch: %v", err)
	}

	stepGroup, _, _, err := stepwise.GroupDetail(ctx, 1, a.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	batchGroup, _, _, err := batched.GroupDetail(ctx, 1, b.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if stepGroup.Status != batchGroup.Status || stepGroup.Status != domain.StatusPlacement {
		t.Fatalf("stepwise %s vs batched %s; both should reach placement", stepGroup.Status, batchGroup.Status)
	}
}

func TestEventSinkFailureDoesNotFailOperation(t *testing.T) {
	ctx := context.Background()
	sink := &captureSink{err: fmt.Errorf("activity log down")}
	audit := &captureAudit{}
	svc := newTestService(t, WithEventSink(sink), WithAuditRecorder(audit))
	group := mustCreateGroup(t, svc, 1)
	mustCreateOffspring(t, svc, 1, group.ID, "a")
	birth := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	setDates(t, svc, 1, group.ID, func(g *domain.OffspringGroup) { g.ActualBirthOn = &birth })

	g, _, err := svc.AdvanceGroupStatus(ctx, 1, group.ID, "", "")
	if err != nil {
		t.Fatalf("advance must succeed despite sink failure: %v", err)
	}
	if g.Status != domain.StatusBirthed {
		t.Fatalf("want birthed, got %s", g.Status)
	}
	var sawEmitFailure bool
	for _, entry := range audit.entries {
		if entry.Operation == "emit_lifecycle_event" && entry.Status == AuditStatusError {
			sawEmitFailure = true
		}
	}
	if !sawEmitFailure {
		t.Fatalf("sink failure should be audited, got %+v", audit.entries)
	}
}

func TestUpdateGroupCannotLeaveTerminalStatus(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	group := mustCreateGroup(t, svc, 1)
	if _, _, err := svc.DissolveGroup(ctx, 1, group.ID, ""); err != nil {
		t.Fatalf("dissolve: %v", err)
	}

	_, _, err := svc.UpdateGroup(ctx, 1, group.ID, func(g *domain.OffspringGroup) error {
		g.Status = domain.StatusPending
		return nil
	})
	var rve domain.RuleViolationError
	if !errors.As(err, &rve) {
		t.Fatalf("expected rule violation, got %v", err)
	}
}

func TestGroupDetailReturnsMembersAndMilestones(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	group := mustCreateGroup(t, svc, 1)
	mustCreateOffspring(t, svc, 1, group.ID, "a")
	mustCreateOffspring(t, svc, 1, group.ID, "b")
	m := domain.BreedingMilestone{GroupID: group.ID, Kind: "first_shed", DueOn: time.Now().UTC()}
	m.TenantID = 1
	if _, _, err := svc.CreateMilestone(ctx, m); err != nil {
		t.Fatalf("create milestone: %v", err)
	}

	g, offspring, milestones, err := svc.GroupDetail(ctx, 1, group.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if g.ID != group.ID || len(offspring) != 2 || len(milestones) != 1 {
		t.Fatalf("unexpected detail: %d offspring, %d milestones", len(offspring), len(milestones))
	}
}

func TestRecordWeightsValidatesMembership(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	group := mustCreateGroup(t, svc, 1)
	member := mustCreateOffspring(t, svc, 1, group.ID, "member")
	other := mustCreateGroup(t, svc, 1)
	stranger := mustCreateOffspring(t, svc, 1, other.ID, "stranger")

	_, _, err := svc.RecordWeights(ctx, 1, group.ID, []domain.WeightObservation{
		{OffspringID: member.ID, Grams: 11.5},
		{OffspringID: stranger.ID, Grams: 12.0},
	})
	var verr domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}

	recorded, _, err := svc.RecordWeights(ctx, 1, group.ID, []domain.WeightObservation{
		{OffspringID: member.ID, Grams: 11.5},
	})
	if err != nil {
		t.Fatalf("record weights: %v", err)
	}
	if len(recorded) != 1 || recorded[0].GroupID != group.ID || recorded[0].TenantID != 1 {
		t.Fatalf("unexpected recorded weights %+v", recorded)
	}
}

func TestAdvanceExplicitTargetParsing(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	group := mustCreateGroup(t, svc, 1)
	if _, _, err := svc.AdvanceGroupStatus(ctx, 1, group.ID, "archived", ""); lifecycleKind(t, err) != domain.KindInvalidStatus {
		t.Fatalf("unknown target: %v", err)
	}
	if _, _, err := svc.AdvanceGroupStatus(ctx, 1, group.ID, string(domain.StatusDissolved), ""); lifecycleKind(t, err) != domain.KindInvalidTarget {
		t.Fatalf("dissolved target: %v", err)
	}
}

func TestClockOverrideControlsCompletionStamp(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestService(t, WithClock(func() time.Time { return fixed }))
	group := mustCreateGroup(t, svc, 1)
	o := mustCreateOffspring(t, svc, 1, group.ID, "only")
	setDates(t, svc, 1, group.ID, func(g *domain.OffspringGroup) {
		birth := fixed.AddDate(0, -3, 0)
		g.ActualBirthOn = &birth
		weaned := birth.AddDate(0, 0, 42)
		g.WeanedAt = &weaned
		start := birth.AddDate(0, 0, 56)
		g.PlacementStartAt = &start
		done := birth.AddDate(0, 0, 90)
		g.PlacementCompletedAt = &done
	})
	placeOffspring(t, svc, 1, o.ID)
	g, _, err := svc.AdvanceGroupStatus(ctx, 1, group.ID, string(domain.StatusComplete), "")
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if g.CompletedAt == nil || !g.CompletedAt.Equal(fixed) {
		t.Fatalf("completion stamp should use the injected clock, got %v", g.CompletedAt)
	}
}
