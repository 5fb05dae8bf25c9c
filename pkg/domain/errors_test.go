package domain

import (
	"strings"
	"testing"
)

func TestErrorKindCategories(t *testing.T) {
	cases := []struct {
		kind ErrorKind
		want ErrorCategory
	}{
		{KindGroupNotFound, CategoryNotFound},
		{KindInvalidStatus, CategoryInvalid},
		{KindInvalidTarget, CategoryInvalid},
		{KindInvalidTransition, CategoryConflict},
		{KindCannotAdvanceDissolved, CategoryConflict},
		{KindAlreadyComplete, CategoryConflict},
		{KindBirthDateRequired, CategoryConflict},
		{KindNoLiveOffspring, CategoryConflict},
		{KindWeanedDateRequired, CategoryConflict},
		{KindPlacementStartRequired, CategoryConflict},
		{KindOffspringNotPlaced, CategoryConflict},
		{KindCannotRewindPending, CategoryConflict},
		{KindCannotRewindDissolved, CategoryConflict},
		{KindCannotRewind, CategoryConflict},
		{KindLiveOffspringExist, CategoryConflict},
		{KindCannotDissolveDissolved, CategoryConflict},
		{KindNoNextStatus, CategoryConflict},
	}
	for _, tc := range cases {
		if got := tc.kind.Category(); got != tc.want {
			t.Fatalf("%s category: want %s got %s", tc.kind, tc.want, got)
		}
	}
}

func TestLifecycleErrorMessage(t *testing.T) {
	err := NewLifecycleError(KindAlreadyComplete, "group %d is already complete", 7)
	if err.Kind != KindAlreadyComplete {
		t.Fatalf("unexpected kind %s", err.Kind)
	}
	if !strings.Contains(err.Error(), "ALREADY_COMPLETE") || !strings.Contains(err.Error(), "group 7") {
		t.Fatalf("unexpected message %q", err.Error())
	}

	bare := LifecycleError{Kind: KindCannotRewind}
	if bare.Error() != string(KindCannotRewind) {
		t.Fatalf("kind-only error should render the kind, got %q", bare.Error())
	}
}

func TestNotFoundErrorMessage(t *testing.T) {
	err := NotFoundError{Entity: EntityOffspring, ID: 42}
	if got := err.Error(); got != "offspring 42 not found" {
		t.Fatalf("unexpected message %q", got)
	}
}
