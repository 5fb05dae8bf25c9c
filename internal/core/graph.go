package core

import "broodcore/pkg/domain"

// offspringStats aggregates the membership facts the status graph gates on.
// Counts are computed once per operation from a consistent transactional read.
type offspringStats struct {
	total        int
	live         int
	livePlaced   int
	liveUnplaced int
}

func collectStats(offspring []domain.Offspring) offspringStats {
	var s offspringStats
	for _, o := range offspring {
		s.total++
		if !o.LifeState.IsAlive() {
			continue
		}
		s.live++
		if o.PlacementState.IsPlaced() {
			s.livePlaced++
		} else {
			s.liveUnplaced++
		}
	}
	return s
}

// entryGate validates the precondition for entering a status. A nil return
// means the gate is satisfied.
type entryGate func(g domain.OffspringGroup, stats offspringStats) *domain.LifecycleError

func gateError(kind domain.ErrorKind, format string, args ...any) *domain.LifecycleError {
	err := domain.NewLifecycleError(kind, format, args...)
	return &err
}

// entryGates is the status graph's precondition table. PENDING has no gate
// and DISSOLVED is entered only through dissolve, so neither appears here.
var entryGates = map[domain.GroupStatus]entryGate{
	domain.StatusBirthed: func(g domain.OffspringGroup, stats offspringStats) *domain.LifecycleError {
		if g.ActualBirthOn == nil {
			return gateError(domain.KindBirthDateRequired, "actual birth date must be recorded before the group can be marked birthed")
		}
		if stats.live == 0 {
			return gateError(domain.KindNoLiveOffspring, "at least one live offspring is required to mark the group birthed")
		}
		return nil
	},
	domain.StatusWeaned: func(g domain.OffspringGroup, _ offspringStats) *domain.LifecycleError {
		if g.WeanedAt == nil {
			return gateError(domain.KindWeanedDateRequired, "weaned date must be recorded before the group can be marked weaned")
		}
		return nil
	},
	domain.StatusPlacement: func(g domain.OffspringGroup, _ offspringStats) *domain.LifecycleError {
		if g.PlacementStartAt == nil {
			return gateError(domain.KindPlacementStartRequired, "placement start date must be recorded before the placement window opens")
		}
		return nil
	},
	domain.StatusComplete: func(g domain.OffspringGroup, stats offspringStats) *domain.LifecycleError {
		if g.PlacementCompletedAt == nil {
			return gateError(domain.KindOffspringNotPlaced, "placement completed date must be recorded before the group can be completed")
		}
		if stats.liveUnplaced > 0 {
			return gateError(domain.KindOffspringNotPlaced, "%d live offspring not yet placed", stats.liveUnplaced)
		}
		return nil
	},
}

// checkEntryGate validates the entry precondition for target.
func checkEntryGate(target domain.GroupStatus, g domain.OffspringGroup, stats offspringStats) *domain.LifecycleError {
	gate, ok := entryGates[target]
	if !ok {
		return nil
	}
	return gate(g, stats)
}
