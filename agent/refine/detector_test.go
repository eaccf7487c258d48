package refine

import (
	"testing"
	"time"

	contractx "github.com/tripsmith/tripsmith/agent/contract"
	"github.com/tripsmith/tripsmith/agent/nlu"
	statex "github.com/tripsmith/tripsmith/agent/state"
)

var testNow = time.Date(2025, time.September, 10, 12, 0, 0, 0, time.UTC)

func seededContext(t *testing.T, e statex.Entities) *statex.ConversationContext {
	t.Helper()
	cc := statex.NewConversationContext("s1", testNow)
	cc = cc.Merge(e, statex.Decision{Kind: statex.DecisionAdd}, testNow)
	cc.AdvanceTurn(string(contractx.IntentNewRequest), testNow)
	return cc
}

func TestDecideFirstTurnIsAlwaysAdd(t *testing.T) {
	t.Parallel()

	d := NewDetector(nlu.DefaultPolicy())
	cc := statex.NewConversationContext("s1", testNow)

	// correction language on turn one must not override or narrow
	got := d.Decide(
		contractx.IntentNewRequest,
		statex.Entities{DurationDays: 7},
		"actually make it a week",
		cc,
	)
	if got.Kind != statex.DecisionAdd {
		t.Fatalf("first turn decision = %q", got.Kind)
	}
}

func TestDecideNewRequestWithoutConflict(t *testing.T) {
	t.Parallel()

	d := NewDetector(nlu.DefaultPolicy())
	cc := seededContext(t, statex.Entities{DurationDays: 4})

	got := d.Decide(
		contractx.IntentNewRequest,
		statex.Entities{DestinationRegion: "prague"},
		"let's go to Prague",
		cc,
	)
	if got.Kind != statex.DecisionAdd {
		t.Fatalf("decision = %q", got.Kind)
	}
}

func TestDecideContradictionOverridesConflictedSlots(t *testing.T) {
	t.Parallel()

	d := NewDetector(nlu.DefaultPolicy())
	cc := seededContext(t, statex.Entities{
		DurationDays: 4,
		BudgetTotal:  &statex.Money{Amount: 800, Currency: "USD"},
	})

	got := d.Decide(
		contractx.IntentRefineRequest,
		statex.Entities{DurationDays: 7},
		"actually make it a week",
		cc,
	)
	if got.Kind != statex.DecisionOverride {
		t.Fatalf("decision = %q", got.Kind)
	}
	if len(got.OverriddenSlots) != 1 || got.OverriddenSlots[0] != statex.SlotDurationDays {
		t.Fatalf("overridden slots = %v", got.OverriddenSlots)
	}
}

func TestDecideRefinementOnPopulatedSlotNarrows(t *testing.T) {
	t.Parallel()

	d := NewDetector(nlu.DefaultPolicy())
	cc := seededContext(t, statex.Entities{BudgetTotal: &statex.Money{Amount: 1000, Currency: "USD"}})

	got := d.Decide(
		contractx.IntentRefineRequest,
		statex.Entities{BudgetTotal: &statex.Money{Amount: 800, Currency: "USD"}},
		"let's keep it under 800",
		cc,
	)
	if got.Kind != statex.DecisionNarrow {
		t.Fatalf("decision = %q", got.Kind)
	}
}

func TestDecideRefinementAddingNewSlotsIsAdd(t *testing.T) {
	t.Parallel()

	d := NewDetector(nlu.DefaultPolicy())
	cc := seededContext(t, statex.Entities{DurationDays: 4})

	got := d.Decide(
		contractx.IntentRefineRequest,
		statex.Entities{PartyType: statex.PartySolo, Preferences: []string{"photography"}},
		"I'm solo and I love photography",
		cc,
	)
	if got.Kind != statex.DecisionAdd {
		t.Fatalf("decision = %q", got.Kind)
	}
}

func TestDecideResetLanguage(t *testing.T) {
	t.Parallel()

	d := NewDetector(nlu.DefaultPolicy())
	cc := seededContext(t, statex.Entities{DestinationRegion: "prague", DurationDays: 4})

	got := d.Decide(
		contractx.IntentNewRequest,
		statex.Entities{DestinationRegion: "japan"},
		"forget that, let's plan japan instead",
		cc,
	)
	if got.Kind != statex.DecisionReset {
		t.Fatalf("decision = %q", got.Kind)
	}
}

func TestDecideConflictWithoutCorrectionLanguage(t *testing.T) {
	t.Parallel()

	d := NewDetector(nlu.DefaultPolicy())
	cc := seededContext(t, statex.Entities{DurationDays: 4})

	// A differing value with refine intent but no contradiction phrase
	// narrows rather than overrides.
	got := d.Decide(
		contractx.IntentRefineRequest,
		statex.Entities{DurationDays: 3},
		"three days is enough",
		cc,
	)
	if got.Kind != statex.DecisionNarrow {
		t.Fatalf("decision = %q", got.Kind)
	}
}
