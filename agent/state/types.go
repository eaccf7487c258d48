package state

import (
	"strings"
	"time"
)

// SlotName identifies one constraint slot in Entities / ConversationContext.
type SlotName string

const (
	SlotDestinationRegion SlotName = "destination_region"
	SlotTravelDates       SlotName = "travel_dates"
	SlotDurationDays      SlotName = "duration_days"
	SlotBudgetTotal       SlotName = "budget_total"
	SlotPartyType         SlotName = "party_type"
	SlotPreferences       SlotName = "preferences"
)

// ScalarSlots are the slots where ADD never overwrites an existing value.
// Preferences are a set and are unioned instead.
var ScalarSlots = []SlotName{
	SlotDestinationRegion,
	SlotTravelDates,
	SlotDurationDays,
	SlotBudgetTotal,
	SlotPartyType,
}

type PartyType string

const (
	PartySolo   PartyType = "solo"
	PartyCouple PartyType = "couple"
	PartyFamily PartyType = "family"
	PartyGroup  PartyType = "group"
)

// ParsePartyType normalises free-text party mentions. Unknown values map to "".
func ParsePartyType(v string) PartyType {
	switch PartyType(strings.ToLower(strings.TrimSpace(v))) {
	case PartySolo:
		return PartySolo
	case PartyCouple:
		return PartyCouple
	case PartyFamily:
		return PartyFamily
	case PartyGroup:
		return PartyGroup
	default:
		return ""
	}
}

// DateRange is a normalized travel window. A zero Start or End means that side
// is open. Times are date-granular, UTC.
type DateRange struct {
	Start time.Time `json:"start,omitempty"`
	End   time.Time `json:"end,omitempty"`
}

func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Contains reports whether other is fully inside r. Open sides of r contain
// everything on that side.
func (r DateRange) Contains(other DateRange) bool {
	if !r.Start.IsZero() && (other.Start.IsZero() || other.Start.Before(r.Start)) {
		return false
	}
	if !r.End.IsZero() && (other.End.IsZero() || other.End.After(r.End)) {
		return false
	}
	return true
}

func (r DateRange) Equal(other DateRange) bool {
	return r.Start.Equal(other.Start) && r.End.Equal(other.End)
}

// Money is a decimal amount plus an ISO 4217 currency code.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

func (m Money) IsZero() bool {
	return m.Amount == 0 && m.Currency == ""
}

// Entities is the typed slot extraction of a single utterance. Every field is
// optional; absence means "not mentioned this turn", not "explicitly unwanted".
type Entities struct {
	DestinationRegion string     `json:"destination_region,omitempty"`
	TravelDates       *DateRange `json:"travel_dates,omitempty"`
	DurationDays      int        `json:"duration_days,omitempty"`
	BudgetTotal       *Money     `json:"budget_total,omitempty"`
	PartyType         PartyType  `json:"party_type,omitempty"`
	Preferences       []string   `json:"preferences,omitempty"`
}

// IsEmpty reports whether no slot was extracted at all.
func (e Entities) IsEmpty() bool {
	return e.DestinationRegion == "" &&
		(e.TravelDates == nil || e.TravelDates.IsZero()) &&
		e.DurationDays == 0 &&
		(e.BudgetTotal == nil || e.BudgetTotal.IsZero()) &&
		e.PartyType == "" &&
		len(e.Preferences) == 0
}

// PopulatedSlots lists the slots carrying a value this turn.
func (e Entities) PopulatedSlots() []SlotName {
	var out []SlotName
	if e.DestinationRegion != "" {
		out = append(out, SlotDestinationRegion)
	}
	if e.TravelDates != nil && !e.TravelDates.IsZero() {
		out = append(out, SlotTravelDates)
	}
	if e.DurationDays > 0 {
		out = append(out, SlotDurationDays)
	}
	if e.BudgetTotal != nil && !e.BudgetTotal.IsZero() {
		out = append(out, SlotBudgetTotal)
	}
	if e.PartyType != "" {
		out = append(out, SlotPartyType)
	}
	if len(e.Preferences) > 0 {
		out = append(out, SlotPreferences)
	}
	return out
}

// DecisionKind tags how a turn's entities relate to the accumulated context.
type DecisionKind string

const (
	DecisionAdd      DecisionKind = "add"
	DecisionNarrow   DecisionKind = "narrow"
	DecisionOverride DecisionKind = "override"
	DecisionReset    DecisionKind = "reset"
)

// Decision is the refinement verdict for one turn. OverriddenSlots is set only
// for DecisionOverride and names the contradicted slots.
type Decision struct {
	Kind            DecisionKind `json:"kind"`
	OverriddenSlots []SlotName   `json:"overridden_slots,omitempty"`
}

func (d Decision) Overrides(slot SlotName) bool {
	if d.Kind != DecisionOverride {
		return false
	}
	for _, s := range d.OverriddenSlots {
		if s == slot {
			return true
		}
	}
	return false
}
