package core

import "broodcore/pkg/domain"

// The transition engine is pure decision logic: given the record, the
// aggregate offspring facts, and an intent, it computes the resulting status
// or the exact business-rule error. Persistence happens in the service layer
// inside the same transaction that produced the inputs.

// advanceStatus computes the status the group moves to for an advance
// request. A nil target means "the next status in the forward chain".
func advanceStatus(g domain.OffspringGroup, stats offspringStats, target *domain.GroupStatus) (domain.GroupStatus, error) {
	switch g.Status {
	case domain.StatusDissolved:
		return "", domain.NewLifecycleError(domain.KindCannotAdvanceDissolved, "group %d is dissolved", g.ID)
	case domain.StatusComplete:
		return "", domain.NewLifecycleError(domain.KindAlreadyComplete, "group %d is already complete", g.ID)
	}

	cur, ok := g.Status.Ordinal()
	if !ok {
		return "", domain.NewLifecycleError(domain.KindInvalidTransition, "group %d has unrecognized status %q", g.ID, g.Status)
	}

	var next domain.GroupStatus
	if target == nil {
		n, ok := g.Status.Next()
		if !ok {
			return "", domain.NewLifecycleError(domain.KindNoNextStatus, "no status follows %q", g.Status)
		}
		next = n
	} else {
		next = *target
		if !domain.KnownStatus(next) {
			return "", domain.NewLifecycleError(domain.KindInvalidStatus, "unrecognized status %q", next)
		}
		ord, forward := next.Ordinal()
		if !forward {
			// DISSOLVED is never an advance target; it has its own operation.
			return "", domain.NewLifecycleError(domain.KindInvalidTarget, "%q is not a forward status", next)
		}
		if ord <= cur {
			return "", domain.NewLifecycleError(domain.KindInvalidTarget, "%q is not forward of %q", next, g.Status)
		}
	}

	if gateErr := checkEntryGate(next, g, stats); gateErr != nil {
		return "", *gateErr
	}
	return next, nil
}

// rewindStatus computes the status one step back. Dates gating the state
// being left are historical facts and are never cleared by a rewind.
func rewindStatus(g domain.OffspringGroup, stats offspringStats) (domain.GroupStatus, error) {
	switch g.Status {
	case domain.StatusPending:
		return "", domain.NewLifecycleError(domain.KindCannotRewindPending, "group %d has not started its lifecycle", g.ID)
	case domain.StatusDissolved:
		return "", domain.NewLifecycleError(domain.KindCannotRewindDissolved, "group %d is dissolved", g.ID)
	}

	prev, ok := g.Status.Prev()
	if !ok {
		return "", domain.NewLifecycleError(domain.KindCannotRewind, "no status precedes %q", g.Status)
	}
	// Placement facts are not retroactively invalidated by a group-level
	// rewind: unplacing must happen through the offspring's own record first.
	if stats.livePlaced > 0 {
		return "", domain.NewLifecycleError(domain.KindCannotRewind, "%d live offspring already placed", stats.livePlaced)
	}
	return prev, nil
}

// dissolveStatus validates the terminal closure of a group that has lost all
// live offspring.
func dissolveStatus(g domain.OffspringGroup, stats offspringStats) (domain.GroupStatus, error) {
	switch g.Status {
	case domain.StatusDissolved:
		return "", domain.NewLifecycleError(domain.KindCannotDissolveDissolved, "group %d is already dissolved", g.ID)
	case domain.StatusComplete:
		return "", domain.NewLifecycleError(domain.KindInvalidTransition, "group %d is complete and cannot be dissolved", g.ID)
	}
	if stats.live > 0 {
		return "", domain.NewLifecycleError(domain.KindLiveOffspringExist, "%d live offspring remain", stats.live)
	}
	return domain.StatusDissolved, nil
}
