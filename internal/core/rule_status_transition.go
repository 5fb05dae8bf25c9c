package core

import (
	"context"
	"fmt"

	"broodcore/pkg/domain"
)

// StatusTransitionRule blocks commits that write an unrecognized group status
// or move a group out of a terminal status. The transition engine refuses
// such transitions up front; this rule re-checks them at the commit boundary
// so direct store mutations cannot violate the status graph either.
func StatusTransitionRule() domain.Rule {
	return statusTransitionRule{}
}

type statusTransitionRule struct{}

func (statusTransitionRule) Name() string { return "status_transition" }

func (statusTransitionRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		if change.Entity != domain.EntityOffspringGroup {
			continue
		}

		after, ok := change.After.(domain.OffspringGroup)
		if !ok {
			continue
		}
		if !domain.KnownStatus(after.Status) {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "status_transition",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("group %d is set to invalid status %q", after.ID, after.Status),
				Entity:   domain.EntityOffspringGroup,
				EntityID: after.ID,
			})
			continue
		}

		before, ok := change.Before.(domain.OffspringGroup)
		if !ok {
			continue
		}
		if after.Status == before.Status {
			continue
		}
		// DISSOLVED is immutable. COMPLETE admits exactly one exit: the
		// sanctioned one-step rewind back to PLACEMENT.
		blocked := before.Status == domain.StatusDissolved ||
			(before.Status == domain.StatusComplete && after.Status != domain.StatusPlacement)
		if blocked {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "status_transition",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("cannot move group %d from terminal status %s to %s", before.ID, before.Status, after.Status),
				Entity:   domain.EntityOffspringGroup,
				EntityID: after.ID,
			})
		}
	}
	return res, nil
}
