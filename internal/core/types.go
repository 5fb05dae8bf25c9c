package core

import "broodcore/pkg/domain"

type (
	EntityType         = domain.EntityType
	GroupStatus        = domain.GroupStatus
	LifeState          = domain.LifeState
	PlacementState     = domain.PlacementState
	Base               = domain.Base
	OffspringGroup     = domain.OffspringGroup
	Offspring          = domain.Offspring
	BreedingMilestone  = domain.BreedingMilestone
	WeightObservation  = domain.WeightObservation
	DatePatch          = domain.DatePatch
	DateChange         = domain.DateChange
	LifecycleEvent     = domain.LifecycleEvent
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	RulesEngine        = domain.RulesEngine
	RuleViolationError = domain.RuleViolationError
	LifecycleError     = domain.LifecycleError
)

const (
	EntityOffspringGroup    = domain.EntityOffspringGroup
	EntityOffspring         = domain.EntityOffspring
	EntityMilestone         = domain.EntityMilestone
	EntityWeightObservation = domain.EntityWeightObservation
)

const (
	StatusPending   = domain.StatusPending
	StatusBirthed   = domain.StatusBirthed
	StatusWeaned    = domain.StatusWeaned
	StatusPlacement = domain.StatusPlacement
	StatusComplete  = domain.StatusComplete
	StatusDissolved = domain.StatusDissolved
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
	ActionDelete = domain.ActionDelete
)
