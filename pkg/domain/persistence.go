package domain

import "context"

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope. All lookups are tenant-scoped and
// treat soft-deleted groups as absent.
type Transaction interface {
	Snapshot() TransactionView

	CreateGroup(OffspringGroup) (OffspringGroup, error)
	UpdateGroup(tenantID, id int64, mutator func(*OffspringGroup) error) (OffspringGroup, error)
	SoftDeleteGroup(tenantID, id int64) error

	CreateOffspring(Offspring) (Offspring, error)
	UpdateOffspring(tenantID, id int64, mutator func(*Offspring) error) (Offspring, error)

	CreateMilestone(BreedingMilestone) (BreedingMilestone, error)
	RecordWeight(WeightObservation) (WeightObservation, error)

	FindGroup(tenantID, id int64) (OffspringGroup, bool)
	ListGroupOffspring(tenantID, groupID int64) []Offspring
	ListGroupMilestones(tenantID, groupID int64) []BreedingMilestone
}

// TransactionView provides read-only access to snapshot data for rules.
type TransactionView interface {
	ListGroups() []OffspringGroup
	FindGroup(tenantID, id int64) (OffspringGroup, bool)
	ListGroupOffspring(tenantID, groupID int64) []Offspring
	ListGroupMilestones(tenantID, groupID int64) []BreedingMilestone
}

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	GetGroup(tenantID, id int64) (OffspringGroup, bool)
	ListGroups(tenantID int64) []OffspringGroup
	ListGroupOffspring(tenantID, groupID int64) []Offspring
	ListGroupMilestones(tenantID, groupID int64) []BreedingMilestone
}
