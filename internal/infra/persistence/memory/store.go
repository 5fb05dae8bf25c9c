// Package memory provides the in-memory transactional store used for tests,
// ephemeral environments, and as the state engine behind the snapshotting
// durable backends.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"broodcore/pkg/domain"
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.PersistentStore = (*Store)(nil)

type state struct {
	groups     map[int64]domain.OffspringGroup
	offspring  map[int64]domain.Offspring
	milestones map[int64]domain.BreedingMilestone
	weights    map[int64]domain.WeightObservation
	seq        int64
}

func newState() state {
	return state{
		groups:     make(map[int64]domain.OffspringGroup),
		offspring:  make(map[int64]domain.Offspring),
		milestones: make(map[int64]domain.BreedingMilestone),
		weights:    make(map[int64]domain.WeightObservation),
	}
}

func (s state) clone() state {
	cloned := newState()
	cloned.seq = s.seq
	for k, v := range s.groups {
		cloned.groups[k] = cloneGroup(v)
	}
	for k, v := range s.offspring {
		cloned.offspring[k] = cloneOffspring(v)
	}
	for k, v := range s.milestones {
		cloned.milestones[k] = cloneMilestone(v)
	}
	for k, v := range s.weights {
		cloned.weights[k] = cloneWeight(v)
	}
	return cloned
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

func cloneGroup(g domain.OffspringGroup) domain.OffspringGroup {
	cp := g
	cp.ActualBirthOn = cloneTime(g.ActualBirthOn)
	cp.WeanedAt = cloneTime(g.WeanedAt)
	cp.PlacementStartAt = cloneTime(g.PlacementStartAt)
	cp.PlacementCompletedAt = cloneTime(g.PlacementCompletedAt)
	cp.CompletedAt = cloneTime(g.CompletedAt)
	cp.ExpectedWeanedAt = cloneTime(g.ExpectedWeanedAt)
	cp.ExpectedPlacementStartAt = cloneTime(g.ExpectedPlacementStartAt)
	cp.ExpectedPlacementCompletedAt = cloneTime(g.ExpectedPlacementCompletedAt)
	cp.DeletedAt = cloneTime(g.DeletedAt)
	return cp
}

func cloneOffspring(o domain.Offspring) domain.Offspring {
	cp := o
	cp.PlacedAt = cloneTime(o.PlacedAt)
	return cp
}

func cloneMilestone(m domain.BreedingMilestone) domain.BreedingMilestone {
	cp := m
	cp.CompletedAt = cloneTime(m.CompletedAt)
	cp.Notes = cloneString(m.Notes)
	return cp
}

func cloneWeight(w domain.WeightObservation) domain.WeightObservation {
	cp := w
	cp.Notes = cloneString(w.Notes)
	return cp
}

// Store provides an in-memory transactional store for the core domain.
type Store struct {
	mu     sync.RWMutex
	state  state
	engine *domain.RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *domain.RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

// Transaction represents a mutation set applied to the store state.
type Transaction struct {
	state   state
	changes []domain.Change
	now     time.Time
}

var _ domain.Transaction = (*Transaction)(nil)

// view exposes a read-only snapshot of the transactional state to rules.
type view struct {
	state *state
}

var _ domain.TransactionView = view{}

func (v view) ListGroups() []domain.OffspringGroup {
	out := make([]domain.OffspringGroup, 0, len(v.state.groups))
	for _, g := range v.state.groups {
		out = append(out, cloneGroup(g))
	}
	return out
}

func (v view) FindGroup(tenantID, id int64) (domain.OffspringGroup, bool) {
	g, ok := v.state.groups[id]
	if !ok || g.TenantID != tenantID || g.IsDeleted() {
		return domain.OffspringGroup{}, false
	}
	return cloneGroup(g), true
}

func (v view) ListGroupOffspring(tenantID, groupID int64) []domain.Offspring {
	var out []domain.Offspring
	for _, o := range v.state.offspring {
		if o.TenantID == tenantID && o.GroupID == groupID {
			out = append(out, cloneOffspring(o))
		}
	}
	sortByID(out, func(o domain.Offspring) int64 { return o.ID })
	return out
}

func (v view) ListGroupMilestones(tenantID, groupID int64) []domain.BreedingMilestone {
	var out []domain.BreedingMilestone
	for _, m := range v.state.milestones {
		if m.TenantID == tenantID && m.GroupID == groupID {
			out = append(out, cloneMilestone(m))
		}
	}
	sortByID(out, func(m domain.BreedingMilestone) int64 { return m.ID })
	return out
}

func sortByID[T any](items []T, id func(T) int64) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && id(items[j]) < id(items[j-1]); j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}

// RunInTransaction executes fn within a transactional copy of the store
// state, evaluates the registered rules over the resulting changes, and
// commits only when no blocking violation is present. The store mutex
// serializes all units of work, so two concurrent operations can never both
// observe the same pre-transition status.
func (s *Store) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Transaction{
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return domain.Result{}, err
	}

	var result domain.Result
	if s.engine != nil {
		res, err := s.engine.Evaluate(ctx, view{state: &tx.state}, tx.changes)
		if err != nil {
			return domain.Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(ctx context.Context, fn func(domain.TransactionView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	return fn(view{state: &snapshot})
}

func (tx *Transaction) nextID() int64 {
	tx.state.seq++
	return tx.state.seq
}

func (tx *Transaction) recordChange(change domain.Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transaction state.
func (tx *Transaction) Snapshot() domain.TransactionView {
	return view{state: &tx.state}
}

// FindGroup retrieves a visible group scoped to the tenant. Soft-deleted
// groups and groups owned by other tenants are reported as absent.
func (tx *Transaction) FindGroup(tenantID, id int64) (domain.OffspringGroup, bool) {
	return view{state: &tx.state}.FindGroup(tenantID, id)
}

// ListGroupOffspring returns the members of a group within the transaction.
func (tx *Transaction) ListGroupOffspring(tenantID, groupID int64) []domain.Offspring {
	return view{state: &tx.state}.ListGroupOffspring(tenantID, groupID)
}

// ListGroupMilestones returns the milestones of a group within the transaction.
func (tx *Transaction) ListGroupMilestones(tenantID, groupID int64) []domain.BreedingMilestone {
	return view{state: &tx.state}.ListGroupMilestones(tenantID, groupID)
}

// CreateGroup stores a new offspring group within the transaction.
func (tx *Transaction) CreateGroup(g domain.OffspringGroup) (domain.OffspringGroup, error) {
	if g.TenantID <= 0 {
		return domain.OffspringGroup{}, fmt.Errorf("group tenant id must be positive")
	}
	if g.ID == 0 {
		g.ID = tx.nextID()
	}
	if _, exists := tx.state.groups[g.ID]; exists {
		return domain.OffspringGroup{}, fmt.Errorf("group %d already exists", g.ID)
	}
	if g.Status == "" {
		g.Status = domain.StatusPending
	}
	g.CreatedAt = tx.now
	g.UpdatedAt = tx.now
	tx.state.groups[g.ID] = cloneGroup(g)
	tx.recordChange(domain.Change{Entity: domain.EntityOffspringGroup, Action: domain.ActionCreate, After: cloneGroup(g)})
	return cloneGroup(g), nil
}

// UpdateGroup mutates a visible group using the provided mutator function.
func (tx *Transaction) UpdateGroup(tenantID, id int64, mutator func(*domain.OffspringGroup) error) (domain.OffspringGroup, error) {
	current, ok := tx.FindGroup(tenantID, id)
	if !ok {
		return domain.OffspringGroup{}, domain.NotFoundError{Entity: domain.EntityOffspringGroup, ID: id}
	}
	before := cloneGroup(current)
	if err := mutator(&current); err != nil {
		return domain.OffspringGroup{}, err
	}
	current.ID = id
	current.TenantID = tenantID
	current.UpdatedAt = tx.now
	tx.state.groups[id] = cloneGroup(current)
	tx.recordChange(domain.Change{Entity: domain.EntityOffspringGroup, Action: domain.ActionUpdate, Before: before, After: cloneGroup(current)})
	return cloneGroup(current), nil
}

// SoftDeleteGroup marks a group deleted, hiding it from lifecycle operations.
// The record itself is retained; hard deletion is an external concern.
func (tx *Transaction) SoftDeleteGroup(tenantID, id int64) error {
	current, ok := tx.FindGroup(tenantID, id)
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityOffspringGroup, ID: id}
	}
	before := cloneGroup(current)
	deleted := tx.now
	current.DeletedAt = &deleted
	current.UpdatedAt = tx.now
	tx.state.groups[id] = cloneGroup(current)
	tx.recordChange(domain.Change{Entity: domain.EntityOffspringGroup, Action: domain.ActionDelete, Before: before, After: cloneGroup(current)})
	return nil
}

// CreateOffspring stores a new offspring; its group must be visible to the
// same tenant.
func (tx *Transaction) CreateOffspring(o domain.Offspring) (domain.Offspring, error) {
	if _, ok := tx.FindGroup(o.TenantID, o.GroupID); !ok {
		return domain.Offspring{}, domain.NotFoundError{Entity: domain.EntityOffspringGroup, ID: o.GroupID}
	}
	if o.ID == 0 {
		o.ID = tx.nextID()
	}
	if _, exists := tx.state.offspring[o.ID]; exists {
		return domain.Offspring{}, fmt.Errorf("offspring %d already exists", o.ID)
	}
	if o.LifeState == "" {
		o.LifeState = domain.LifeAlive
	}
	if o.PlacementState == "" {
		o.PlacementState = domain.PlacementUnplaced
	}
	o.CreatedAt = tx.now
	o.UpdatedAt = tx.now
	tx.state.offspring[o.ID] = cloneOffspring(o)
	tx.recordChange(domain.Change{Entity: domain.EntityOffspring, Action: domain.ActionCreate, After: cloneOffspring(o)})
	return cloneOffspring(o), nil
}

// UpdateOffspring mutates an offspring using the provided mutator function.
func (tx *Transaction) UpdateOffspring(tenantID, id int64, mutator func(*domain.Offspring) error) (domain.Offspring, error) {
	current, ok := tx.state.offspring[id]
	if !ok || current.TenantID != tenantID {
		return domain.Offspring{}, domain.NotFoundError{Entity: domain.EntityOffspring, ID: id}
	}
	before := cloneOffspring(current)
	if err := mutator(&current); err != nil {
		return domain.Offspring{}, err
	}
	current.ID = id
	current.TenantID = tenantID
	current.GroupID = before.GroupID
	current.UpdatedAt = tx.now
	tx.state.offspring[id] = cloneOffspring(current)
	tx.recordChange(domain.Change{Entity: domain.EntityOffspring, Action: domain.ActionUpdate, Before: before, After: cloneOffspring(current)})
	return cloneOffspring(current), nil
}

// CreateMilestone stores a breeding milestone for a visible group.
func (tx *Transaction) CreateMilestone(m domain.BreedingMilestone) (domain.BreedingMilestone, error) {
	if _, ok := tx.FindGroup(m.TenantID, m.GroupID); !ok {
		return domain.BreedingMilestone{}, domain.NotFoundError{Entity: domain.EntityOffspringGroup, ID: m.GroupID}
	}
	if m.ID == 0 {
		m.ID = tx.nextID()
	}
	if _, exists := tx.state.milestones[m.ID]; exists {
		return domain.BreedingMilestone{}, fmt.Errorf("milestone %d already exists", m.ID)
	}
	m.CreatedAt = tx.now
	m.UpdatedAt = tx.now
	tx.state.milestones[m.ID] = cloneMilestone(m)
	tx.recordChange(domain.Change{Entity: domain.EntityMilestone, Action: domain.ActionCreate, After: cloneMilestone(m)})
	return cloneMilestone(m), nil
}

// RecordWeight stores a weight observation. Membership validation is the
// caller's concern; the store only requires a visible group.
func (tx *Transaction) RecordWeight(w domain.WeightObservation) (domain.WeightObservation, error) {
	if _, ok := tx.FindGroup(w.TenantID, w.GroupID); !ok {
		return domain.WeightObservation{}, domain.NotFoundError{Entity: domain.EntityOffspringGroup, ID: w.GroupID}
	}
	if w.ID == 0 {
		w.ID = tx.nextID()
	}
	if w.RecordedAt.IsZero() {
		w.RecordedAt = tx.now
	}
	w.CreatedAt = tx.now
	w.UpdatedAt = tx.now
	tx.state.weights[w.ID] = cloneWeight(w)
	tx.recordChange(domain.Change{Entity: domain.EntityWeightObservation, Action: domain.ActionCreate, After: cloneWeight(w)})
	return cloneWeight(w), nil
}

// Read helpers ---------------------------------------------------------------

// GetGroup retrieves a visible group from committed state.
func (s *Store) GetGroup(tenantID, id int64) (domain.OffspringGroup, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view{state: &s.state}.FindGroup(tenantID, id)
}

// ListGroups returns all non-deleted groups owned by the tenant.
func (s *Store) ListGroups(tenantID int64) []domain.OffspringGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.OffspringGroup
	for _, g := range s.state.groups {
		if g.TenantID == tenantID && !g.IsDeleted() {
			out = append(out, cloneGroup(g))
		}
	}
	sortByID(out, func(g domain.OffspringGroup) int64 { return g.ID })
	return out
}

// ListGroupOffspring returns the members of a group from committed state.
func (s *Store) ListGroupOffspring(tenantID, groupID int64) []domain.Offspring {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view{state: &s.state}.ListGroupOffspring(tenantID, groupID)
}

// ListGroupMilestones returns the milestones of a group from committed state.
func (s *Store) ListGroupMilestones(tenantID, groupID int64) []domain.BreedingMilestone {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view{state: &s.state}.ListGroupMilestones(tenantID, groupID)
}

// ListWeightObservations returns recorded weights for a group.
func (s *Store) ListWeightObservations(tenantID, groupID int64) []domain.WeightObservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.WeightObservation
	for _, w := range s.state.weights {
		if w.TenantID == tenantID && w.GroupID == groupID {
			out = append(out, cloneWeight(w))
		}
	}
	sortByID(out, func(w domain.WeightObservation) int64 { return w.ID })
	return out
}

// Snapshot captures a point-in-time clone of the store state for the
// durable backends.
type Snapshot struct {
	Groups     map[int64]domain.OffspringGroup    `json:"groups"`
	Offspring  map[int64]domain.Offspring         `json:"offspring"`
	Milestones map[int64]domain.BreedingMilestone `json:"milestones"`
	Weights    map[int64]domain.WeightObservation `json:"weights"`
	Seq        int64                              `json:"seq"`
}

// ExportState returns a deep copy of the committed state.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cloned := s.state.clone()
	return Snapshot{
		Groups:     cloned.groups,
		Offspring:  cloned.offspring,
		Milestones: cloned.milestones,
		Weights:    cloned.weights,
		Seq:        cloned.seq,
	}
}

// ImportState replaces the committed state with the supplied snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := newState()
	for k, v := range snapshot.Groups {
		st.groups[k] = cloneGroup(v)
	}
	for k, v := range snapshot.Offspring {
		st.offspring[k] = cloneOffspring(v)
	}
	for k, v := range snapshot.Milestones {
		st.milestones[k] = cloneMilestone(v)
	}
	for k, v := range snapshot.Weights {
		st.weights[k] = cloneWeight(v)
	}
	st.seq = snapshot.Seq
	for _, maxID := range []func() int64{
		func() int64 { return maxKey(st.groups) },
		func() int64 { return maxKey(st.offspring) },
		func() int64 { return maxKey(st.milestones) },
		func() int64 { return maxKey(st.weights) },
	} {
		if id := maxID(); id > st.seq {
			st.seq = id
		}
	}
	s.state = st
}

func maxKey[V any](m map[int64]V) int64 {
	var max int64
	for k := range m {
		if k > max {
			max = k
		}
	}
	return max
}
