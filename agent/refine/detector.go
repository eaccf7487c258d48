// Package refine decides how one turn's extracted constraints relate to the
// accumulated conversation context: an additive step, a narrowing, an explicit
// contradiction, or the start of a new planning thread.
package refine

import (
	contractx "github.com/tripsmith/tripsmith/agent/contract"
	"github.com/tripsmith/tripsmith/agent/nlu"
	statex "github.com/tripsmith/tripsmith/agent/state"
)

// Detector evaluates a fixed priority table; the first matching row wins, so
// routing stays deterministic even when signals overlap.
type Detector struct {
	policy nlu.Policy
	rules  []detectorRule
}

type detectorInput struct {
	intent    contractx.Intent
	entities  statex.Entities
	utterance string
	context   *statex.ConversationContext
	conflicts []statex.SlotName
}

type detectorRule struct {
	name  string
	match func(in detectorInput) (statex.Decision, bool)
}

func NewDetector(policy nlu.Policy) *Detector {
	d := &Detector{policy: policy}
	d.rules = []detectorRule{
		{name: "fresh_session", match: d.matchFreshSession},
		{name: "thread_abandoned", match: d.matchReset},
		{name: "new_request_no_conflict", match: d.matchNewRequestNoConflict},
		{name: "explicit_contradiction", match: d.matchContradiction},
		{name: "refinement_narrows", match: d.matchNarrow},
	}
	return d
}

// Decide returns the refinement decision for the turn. Default is ADD.
func (d *Detector) Decide(
	intent contractx.Intent,
	entities statex.Entities,
	utterance string,
	cc *statex.ConversationContext,
) statex.Decision {
	in := detectorInput{
		intent:    intent,
		entities:  entities,
		utterance: utterance,
		context:   cc,
		conflicts: cc.ConflictingSlots(entities),
	}
	for _, rule := range d.rules {
		if decision, ok := rule.match(in); ok {
			return decision
		}
	}
	return statex.Decision{Kind: statex.DecisionAdd}
}

// Nothing to refine before the first turn lands.
func (d *Detector) matchFreshSession(in detectorInput) (statex.Decision, bool) {
	if in.context == nil || in.context.TurnCount == 0 {
		return statex.Decision{Kind: statex.DecisionAdd}, true
	}
	return statex.Decision{}, false
}

func (d *Detector) matchNewRequestNoConflict(in detectorInput) (statex.Decision, bool) {
	if in.intent == contractx.IntentNewRequest && len(in.conflicts) == 0 {
		return statex.Decision{Kind: statex.DecisionAdd}, true
	}
	return statex.Decision{}, false
}

// A populated entity slot that differs from the matching context slot, paired
// with explicit contradiction language, overrides that slot only.
func (d *Detector) matchContradiction(in detectorInput) (statex.Decision, bool) {
	if len(in.conflicts) > 0 && d.policy.HasCorrection(in.utterance) {
		return statex.Decision{
			Kind:            statex.DecisionOverride,
			OverriddenSlots: in.conflicts,
		}, true
	}
	return statex.Decision{}, false
}

func (d *Detector) matchNarrow(in detectorInput) (statex.Decision, bool) {
	if in.intent != contractx.IntentRefineRequest || in.entities.IsEmpty() {
		return statex.Decision{}, false
	}
	for _, slot := range in.entities.PopulatedSlots() {
		if in.context.HasSlot(slot) && slot != statex.SlotPreferences {
			return statex.Decision{Kind: statex.DecisionNarrow}, true
		}
	}
	// only previously-empty slots were added: plain ADD handles it
	return statex.Decision{}, false
}

func (d *Detector) matchReset(in detectorInput) (statex.Decision, bool) {
	if d.policy.HasReset(in.utterance) {
		return statex.Decision{Kind: statex.DecisionReset}, true
	}
	return statex.Decision{}, false
}
