package domain

// GroupStatus represents the lifecycle stage of an offspring group.
type GroupStatus string

// Canonical group lifecycle statuses in forward order, plus the terminal
// closure status DISSOLVED which sits outside the forward chain.
const (
	// StatusPending is the initial state: group created, birth not recorded.
	StatusPending GroupStatus = "pending"
	// StatusBirthed indicates a recorded birth with at least one live offspring.
	StatusBirthed GroupStatus = "birthed"
	// StatusWeaned indicates the group has been weaned.
	StatusWeaned GroupStatus = "weaned"
	// StatusPlacement indicates the placement window is open.
	StatusPlacement GroupStatus = "placement"
	// StatusComplete is the terminal success state: all live offspring placed.
	StatusComplete GroupStatus = "complete"
	// StatusDissolved is the terminal closure state for groups that lost all
	// live offspring before placement. Mutually exclusive with COMPLETE.
	StatusDissolved GroupStatus = "dissolved"
)

// ForwardStatuses is the forward chain of the status graph, in order.
// DISSOLVED is deliberately absent: it is reachable only via dissolve.
var ForwardStatuses = []GroupStatus{
	StatusPending,
	StatusBirthed,
	StatusWeaned,
	StatusPlacement,
	StatusComplete,
}

var statusOrdinals = func() map[GroupStatus]int {
	m := make(map[GroupStatus]int, len(ForwardStatuses))
	for i, s := range ForwardStatuses {
		m[s] = i
	}
	return m
}()

// KnownStatus reports whether s is one of the defined lifecycle statuses.
func KnownStatus(s GroupStatus) bool {
	if s == StatusDissolved {
		return true
	}
	_, ok := statusOrdinals[s]
	return ok
}

// Ordinal returns the position of s in the forward chain. DISSOLVED and
// unknown statuses report ok=false.
func (s GroupStatus) Ordinal() (int, bool) {
	i, ok := statusOrdinals[s]
	return i, ok
}

// Terminal reports whether no further transition is legal from s.
func (s GroupStatus) Terminal() bool {
	return s == StatusComplete || s == StatusDissolved
}

// Next returns the status immediately following s in the forward chain.
func (s GroupStatus) Next() (GroupStatus, bool) {
	i, ok := statusOrdinals[s]
	if !ok || i+1 >= len(ForwardStatuses) {
		return "", false
	}
	return ForwardStatuses[i+1], true
}

// Prev returns the status immediately preceding s in the forward chain.
func (s GroupStatus) Prev() (GroupStatus, bool) {
	i, ok := statusOrdinals[s]
	if !ok || i == 0 {
		return "", false
	}
	return ForwardStatuses[i-1], true
}
