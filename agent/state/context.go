package state

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// recentIntentCapacity bounds the intent history kept for repetition checks.
// Oldest entries are evicted first.
const recentIntentCapacity = 5

var (
	ErrNilContext = errors.New("conversation context is nil")
)

// ConversationContext is the accumulated, merged constraint set for one
// session. It has the same slot shape as Entities plus turn accounting. It is
// owned by the session store and mutated only through Merge/AdvanceTurn; the
// caller must treat the pre-merge value as superseded.
type ConversationContext struct {
	SessionID string `json:"session_id"`

	DestinationRegion string     `json:"destination_region,omitempty"`
	TravelDates       *DateRange `json:"travel_dates,omitempty"`
	DurationDays      int        `json:"duration_days,omitempty"`
	BudgetTotal       *Money     `json:"budget_total,omitempty"`
	PartyType         PartyType  `json:"party_type,omitempty"`
	Preferences       []string   `json:"preferences,omitempty"`

	TurnCount     int       `json:"turn_count"`
	RecentIntents []string  `json:"recent_intents,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewConversationContext(sessionID string, now time.Time) *ConversationContext {
	return &ConversationContext{
		SessionID: sessionID,
		UpdatedAt: now.UTC(),
	}
}

func (c *ConversationContext) Touch(now time.Time) {
	c.UpdatedAt = now.UTC()
}

// Clone returns a deep copy.
func (c *ConversationContext) Clone() *ConversationContext {
	if c == nil {
		return nil
	}
	out := *c
	if c.TravelDates != nil {
		r := *c.TravelDates
		out.TravelDates = &r
	}
	if c.BudgetTotal != nil {
		m := *c.BudgetTotal
		out.BudgetTotal = &m
	}
	out.Preferences = append([]string(nil), c.Preferences...)
	out.RecentIntents = append([]string(nil), c.RecentIntents...)
	return &out
}

// HasSlot reports whether the given context slot is populated.
func (c *ConversationContext) HasSlot(slot SlotName) bool {
	if c == nil {
		return false
	}
	switch slot {
	case SlotDestinationRegion:
		return c.DestinationRegion != ""
	case SlotTravelDates:
		return c.TravelDates != nil && !c.TravelDates.IsZero()
	case SlotDurationDays:
		return c.DurationDays > 0
	case SlotBudgetTotal:
		return c.BudgetTotal != nil && !c.BudgetTotal.IsZero()
	case SlotPartyType:
		return c.PartyType != ""
	case SlotPreferences:
		return len(c.Preferences) > 0
	default:
		return false
	}
}

// ConflictingSlots lists scalar slots where the turn's entities carry a value
// different from an already populated context slot of the same kind.
func (c *ConversationContext) ConflictingSlots(e Entities) []SlotName {
	if c == nil {
		return nil
	}
	var out []SlotName
	if e.DestinationRegion != "" && c.DestinationRegion != "" &&
		!strings.EqualFold(e.DestinationRegion, c.DestinationRegion) {
		out = append(out, SlotDestinationRegion)
	}
	if e.TravelDates != nil && !e.TravelDates.IsZero() && c.HasSlot(SlotTravelDates) &&
		!e.TravelDates.Equal(*c.TravelDates) {
		out = append(out, SlotTravelDates)
	}
	if e.DurationDays > 0 && c.DurationDays > 0 && e.DurationDays != c.DurationDays {
		out = append(out, SlotDurationDays)
	}
	if e.BudgetTotal != nil && !e.BudgetTotal.IsZero() && c.HasSlot(SlotBudgetTotal) &&
		(e.BudgetTotal.Amount != c.BudgetTotal.Amount || e.BudgetTotal.Currency != c.BudgetTotal.Currency) {
		out = append(out, SlotBudgetTotal)
	}
	if e.PartyType != "" && c.PartyType != "" && e.PartyType != c.PartyType {
		out = append(out, SlotPartyType)
	}
	return out
}

// AdvanceTurn records one processed turn: the turn counter moves exactly once
// per turn regardless of decision kind, and the intent enters the bounded
// history (oldest evicted first).
func (c *ConversationContext) AdvanceTurn(intent string, now time.Time) {
	c.TurnCount++
	c.RecentIntents = append(c.RecentIntents, intent)
	if len(c.RecentIntents) > recentIntentCapacity {
		c.RecentIntents = c.RecentIntents[len(c.RecentIntents)-recentIntentCapacity:]
	}
	c.Touch(now)
}

/* -------------------------------- Merge --------------------------------- */

// Merge folds a turn's entities into the context under the given decision and
// returns the updated copy. The receiver is not mutated. Merge does not touch
// TurnCount; that is AdvanceTurn's job, so merging empty entities under ADD is
// a no-op.
//
// ADD: empty slots are filled, preferences are unioned, populated scalars are
// left alone. NARROW: a populated scalar is replaced when the new value is
// strictly more specific; ambiguous comparisons replace (see narrowsScalar).
// OVERRIDE: the contradicted slots are replaced outright, then ADD semantics
// apply to the rest. RESET: all slots are cleared first.
func (c *ConversationContext) Merge(e Entities, d Decision, now time.Time) *ConversationContext {
	out := c.Clone()
	if out == nil {
		return nil
	}

	if d.Kind == DecisionReset {
		out.clearSlots()
	}

	// Destination region
	if e.DestinationRegion != "" {
		switch {
		case out.DestinationRegion == "",
			d.Overrides(SlotDestinationRegion),
			d.Kind == DecisionNarrow && narrowsRegion(out.DestinationRegion, e.DestinationRegion):
			out.DestinationRegion = e.DestinationRegion
		}
	}

	// Travel dates
	if e.TravelDates != nil && !e.TravelDates.IsZero() {
		switch {
		case !out.HasSlot(SlotTravelDates),
			d.Overrides(SlotTravelDates),
			d.Kind == DecisionNarrow && narrowsDates(*out.TravelDates, *e.TravelDates):
			r := *e.TravelDates
			out.TravelDates = &r
		}
	}

	// Duration
	if e.DurationDays > 0 {
		switch {
		case out.DurationDays == 0,
			d.Overrides(SlotDurationDays),
			d.Kind == DecisionNarrow && e.DurationDays != out.DurationDays:
			out.DurationDays = e.DurationDays
		}
	}

	// Budget
	if e.BudgetTotal != nil && !e.BudgetTotal.IsZero() {
		switch {
		case !out.HasSlot(SlotBudgetTotal),
			d.Overrides(SlotBudgetTotal),
			d.Kind == DecisionNarrow && narrowsBudget(*out.BudgetTotal, *e.BudgetTotal):
			m := *e.BudgetTotal
			out.BudgetTotal = &m
		}
	}

	// Party type
	if e.PartyType != "" {
		switch {
		case out.PartyType == "",
			d.Overrides(SlotPartyType),
			d.Kind == DecisionNarrow:
			out.PartyType = e.PartyType
		}
	}

	// Preferences are a set: always unioned, never replaced.
	out.Preferences = unionPreferences(out.Preferences, e.Preferences)

	out.Touch(now)
	return out
}

func (c *ConversationContext) clearSlots() {
	c.DestinationRegion = ""
	c.TravelDates = nil
	c.DurationDays = 0
	c.BudgetTotal = nil
	c.PartyType = ""
	c.Preferences = nil
}

// Reset returns a fresh context for the same session, keeping only the turn
// accounting. Used when a turn abandons the prior planning thread.
func (c *ConversationContext) Reset(now time.Time) *ConversationContext {
	out := NewConversationContext(c.SessionID, now)
	out.TurnCount = c.TurnCount
	out.RecentIntents = append([]string(nil), c.RecentIntents...)
	return out
}

func (c *ConversationContext) Validate() error {
	if c == nil {
		return ErrNilContext
	}
	if strings.TrimSpace(c.SessionID) == "" {
		return errors.New("context session id is empty")
	}
	if c.TurnCount < 0 {
		return fmt.Errorf("turn count must be >= 0, got %d", c.TurnCount)
	}
	if len(c.RecentIntents) > recentIntentCapacity {
		return fmt.Errorf("recent intents exceed capacity %d", recentIntentCapacity)
	}
	if c.DurationDays < 0 {
		return fmt.Errorf("duration must be >= 0, got %d", c.DurationDays)
	}
	return nil
}

/* --------------------------- Specificity policy -------------------------- */

// narrowsDates: a new range is more specific when it sits inside the old one
// and is not identical. Anything else is an ambiguous comparison and replaces.
func narrowsDates(old, candidate DateRange) bool {
	if old.Contains(candidate) && !old.Equal(candidate) {
		return true
	}
	// ambiguous (overlapping or disjoint) -> replace
	return !candidate.Contains(old)
}

// narrowsBudget: a smaller amount in the same currency is more specific. A
// currency change is ambiguous and replaces.
func narrowsBudget(old, candidate Money) bool {
	if old.Currency != candidate.Currency {
		return true
	}
	return candidate.Amount < old.Amount
}

// narrowsRegion: the new region is more specific when the old one is a token
// of it ("europe" -> "western europe"); an unrelated region is ambiguous and
// replaces. Same value keeps the old.
func narrowsRegion(old, candidate string) bool {
	o := strings.ToLower(strings.TrimSpace(old))
	n := strings.ToLower(strings.TrimSpace(candidate))
	if o == n {
		return false
	}
	if strings.Contains(n, o) {
		return true
	}
	return !strings.Contains(o, n)
}

func unionPreferences(existing, incoming []string) []string {
	if len(incoming) == 0 {
		return existing
	}
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	out := make([]string, 0, len(existing)+len(incoming))
	for _, p := range existing {
		key := strings.ToLower(strings.TrimSpace(p))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	for _, p := range incoming {
		trimmed := strings.TrimSpace(p)
		key := strings.ToLower(trimmed)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
