// Command groupstate-check validates an offspring group database snapshot:
// every group must be in a known status and carry the milestone dates its
// status requires, and every offspring row must belong to a visible group in
// the same tenant.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"broodcore/internal/infra/persistence/memory"
	"broodcore/internal/infra/persistence/sqlite"
	"broodcore/pkg/domain"
)

var exitFunc = os.Exit

func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("groupstate-check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var dbPath string
	fs.StringVar(&dbPath, "db", "broodcore.db", "path to sqlite database")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	problems, err := run(dbPath)
	if err != nil {
		fmt.Fprintf(stderr, "groupstate check failed: %v\n", err)
		return 1
	}
	if len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintln(stderr, p)
		}
		fmt.Fprintf(stderr, "groupstate check found %d problem(s)\n", len(problems))
		return 1
	}
	fmt.Fprintln(stdout, "groupstate check passed.")
	return 0
}

func run(dbPath string) ([]string, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("open database %s: %w", dbPath, err)
	}
	store, err := sqlite.NewStore(dbPath, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.DB().Close() }()
	return checkSnapshot(store.ExportState()), nil
}

// checkSnapshot runs every structural invariant over a state snapshot and
// returns one message per violation, ordered deterministically.
func checkSnapshot(snapshot memory.Snapshot) []string {
	var problems []string

	groupIDs := make([]int64, 0, len(snapshot.Groups))
	for id := range snapshot.Groups {
		groupIDs = append(groupIDs, id)
	}
	sort.Slice(groupIDs, func(i, j int) bool { return groupIDs[i] < groupIDs[j] })

	for _, id := range groupIDs {
		problems = append(problems, checkGroup(snapshot.Groups[id])...)
	}

	offspringIDs := make([]int64, 0, len(snapshot.Offspring))
	for id := range snapshot.Offspring {
		offspringIDs = append(offspringIDs, id)
	}
	sort.Slice(offspringIDs, func(i, j int) bool { return offspringIDs[i] < offspringIDs[j] })

	for _, id := range offspringIDs {
		problems = append(problems, checkOffspring(snapshot.Offspring[id], snapshot.Groups)...)
	}

	return problems
}

func checkGroup(g domain.OffspringGroup) []string {
	var problems []string
	report := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf("group %d: ", g.ID)+fmt.Sprintf(format, args...))
	}

	if g.TenantID <= 0 {
		report("missing tenant")
	}
	if !domain.KnownStatus(g.Status) {
		report("unknown status %q", g.Status)
		return problems
	}
	if g.Status == domain.StatusDissolved || g.IsDeleted() {
		return problems
	}

	ord, _ := g.Status.Ordinal()
	if reached(ord, domain.StatusBirthed) && g.ActualBirthOn == nil {
		report("status %s requires actual birth date", g.Status)
	}
	if reached(ord, domain.StatusWeaned) && g.WeanedAt == nil {
		report("status %s requires weaned date", g.Status)
	}
	if reached(ord, domain.StatusPlacement) && g.PlacementStartAt == nil {
		report("status %s requires placement start date", g.Status)
	}
	if g.Status == domain.StatusComplete {
		if g.PlacementCompletedAt == nil {
			report("status %s requires placement completed date", g.Status)
		}
		if g.CompletedAt == nil {
			report("status %s requires completion timestamp", g.Status)
		}
	}
	return problems
}

func reached(ord int, s domain.GroupStatus) bool {
	target, _ := s.Ordinal()
	return ord >= target
}

func checkOffspring(o domain.Offspring, groups map[int64]domain.OffspringGroup) []string {
	var problems []string
	report := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf("offspring %d: ", o.ID)+fmt.Sprintf(format, args...))
	}

	group, ok := groups[o.GroupID]
	if !ok {
		report("references missing group %d", o.GroupID)
		return problems
	}
	if group.TenantID != o.TenantID {
		report("tenant %d does not match group tenant %d", o.TenantID, group.TenantID)
	}
	switch o.LifeState {
	case domain.LifeAlive, domain.LifeDeceased, domain.LifeTransferred:
	default:
		report("unknown life state %q", o.LifeState)
	}
	switch o.PlacementState {
	case domain.PlacementUnplaced, domain.PlacementReserved, domain.PlacementPlaced:
	default:
		report("unknown placement state %q", o.PlacementState)
	}
	if o.PlacementState == domain.PlacementPlaced && o.PlacedAt == nil {
		report("placed without placement timestamp")
	}
	return problems
}
