// Package domain defines the persistent entities, status vocabulary, and
// rule evaluation primitives used by broodcore.
package domain

import (
	"fmt"
	"time"
)

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityOffspringGroup identifies an offspring group (litter/clutch) record.
	EntityOffspringGroup EntityType = "offspring_group"
	// EntityOffspring identifies an individual offspring record.
	EntityOffspring EntityType = "offspring"
	// EntityMilestone identifies a breeding milestone record.
	EntityMilestone EntityType = "breeding_milestone"
	// EntityWeightObservation identifies a recorded weight observation.
	EntityWeightObservation EntityType = "weight_observation"
)

// LifeState tracks whether an individual offspring is part of the live
// population. The lifecycle engine only distinguishes alive from not-alive;
// the terminal values exist so callers can record why an individual exited.
type LifeState string

// Canonical offspring life states.
const (
	LifeAlive       LifeState = "alive"
	LifeDeceased    LifeState = "deceased"
	LifeTransferred LifeState = "transferred_out"
)

// IsAlive reports whether the state counts toward the live population.
func (s LifeState) IsAlive() bool { return s == LifeAlive }

// PlacementState tracks an offspring's progress toward a buyer or keeper.
type PlacementState string

// Canonical placement states. The engine only distinguishes placed from
// not-placed; RESERVED exists for marketplace workflows outside this core.
const (
	PlacementUnplaced PlacementState = "unplaced"
	PlacementReserved PlacementState = "reserved"
	PlacementPlaced   PlacementState = "placed"
)

// IsPlaced reports whether the offspring has been matched and delivered.
func (s PlacementState) IsPlaced() bool { return s == PlacementPlaced }

// Base contains common fields for all domain records.
type Base struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OffspringGroup is the litter/clutch entity driven through the lifecycle
// status graph. Date fields are nil until the corresponding milestone is
// reached; the expected_* fields inform scheduling but never gate transitions.
type OffspringGroup struct {
	Base
	Name   string      `json:"name"`
	Status GroupStatus `json:"status"`

	ActualBirthOn        *time.Time `json:"actual_birth_on"`
	WeanedAt             *time.Time `json:"weaned_at"`
	PlacementStartAt     *time.Time `json:"placement_start_at"`
	PlacementCompletedAt *time.Time `json:"placement_completed_at"`
	CompletedAt          *time.Time `json:"completed_at"`

	ExpectedWeanedAt             *time.Time `json:"expected_weaned_at"`
	ExpectedPlacementStartAt     *time.Time `json:"expected_placement_start_at"`
	ExpectedPlacementCompletedAt *time.Time `json:"expected_placement_completed_at"`

	DeletedAt *time.Time `json:"deleted_at"`
}

// IsDeleted reports whether the group is soft-deleted and therefore invisible
// to all lifecycle operations.
func (g OffspringGroup) IsDeleted() bool { return g.DeletedAt != nil }

// Offspring is an individual member of an offspring group.
type Offspring struct {
	Base
	GroupID        int64          `json:"group_id"`
	Name           string         `json:"name"`
	LifeState      LifeState      `json:"life_state"`
	PlacementState PlacementState `json:"placement_state"`
	PlacedAt       *time.Time     `json:"placed_at"`
}

// BreedingMilestone is a scheduled or completed checkpoint attached to a
// group. The lifecycle engine lists milestones alongside a group but never
// mutates them; they are owned by the scheduling workflow.
type BreedingMilestone struct {
	Base
	GroupID     int64      `json:"group_id"`
	Kind        string     `json:"kind"`
	DueOn       time.Time  `json:"due_on"`
	CompletedAt *time.Time `json:"completed_at"`
	Notes       *string    `json:"notes,omitempty"`
}

// WeightObservation is a per-offspring measurement batch-recorded against a
// group. Recording is not a lifecycle transition, but every referenced
// offspring must belong to the group.
type WeightObservation struct {
	Base
	GroupID     int64     `json:"group_id"`
	OffspringID int64     `json:"offspring_id"`
	RecordedAt  time.Time `json:"recorded_at"`
	Grams       float64   `json:"grams"`
	Notes       *string   `json:"notes,omitempty"`
}

// DateField names a patchable date on an OffspringGroup.
type DateField string

// Patchable date fields accepted by the date-patch operation.
const (
	FieldActualBirthOn                DateField = "actual_birth_on"
	FieldWeanedAt                     DateField = "weaned_at"
	FieldPlacementStartAt             DateField = "placement_start_at"
	FieldPlacementCompletedAt         DateField = "placement_completed_at"
	FieldCompletedAt                  DateField = "completed_at"
	FieldExpectedWeanedAt             DateField = "expected_weaned_at"
	FieldExpectedPlacementStartAt     DateField = "expected_placement_start_at"
	FieldExpectedPlacementCompletedAt DateField = "expected_placement_completed_at"
)

// DateChange sets a date field to Value, or clears it when Value is nil.
type DateChange struct {
	Value *time.Time `json:"value"`
}

// DatePatch maps date fields to their new values. Fields absent from the map
// are left untouched.
type DatePatch map[DateField]DateChange

// Apply writes the patch onto the group. Unknown field names are rejected so
// callers cannot silently drop part of a patch.
func (p DatePatch) Apply(g *OffspringGroup) error {
	for field, change := range p {
		switch field {
		case FieldActualBirthOn:
			g.ActualBirthOn = change.Value
		case FieldWeanedAt:
			g.WeanedAt = change.Value
		case FieldPlacementStartAt:
			g.PlacementStartAt = change.Value
		case FieldPlacementCompletedAt:
			g.PlacementCompletedAt = change.Value
		case FieldCompletedAt:
			g.CompletedAt = change.Value
		case FieldExpectedWeanedAt:
			g.ExpectedWeanedAt = change.Value
		case FieldExpectedPlacementStartAt:
			g.ExpectedPlacementStartAt = change.Value
		case FieldExpectedPlacementCompletedAt:
			g.ExpectedPlacementCompletedAt = change.Value
		default:
			return ValidationError{Detail: fmt.Sprintf("unknown date field %q", field)}
		}
	}
	return nil
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported mutations captured for rule evaluation.
const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)
