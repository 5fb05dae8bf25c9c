package core

import "broodcore/pkg/domain"

// reconcileStatus re-checks the current gate after a date patch and advances
// one forward step at a time while each next status's own precondition is
// satisfied. It never skips states, never leaves a terminal state, and an
// unsatisfied gate is a silent stop, not an error: most date patches do not
// trigger any advance.
func reconcileStatus(g domain.OffspringGroup, stats offspringStats) (domain.GroupStatus, int) {
	cur := g.Status
	steps := 0
	for !cur.Terminal() {
		next, ok := cur.Next()
		if !ok {
			break
		}
		g.Status = cur
		if gateErr := checkEntryGate(next, g, stats); gateErr != nil {
			break
		}
		cur = next
		steps++
	}
	return cur, steps
}
