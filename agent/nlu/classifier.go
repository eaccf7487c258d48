package nlu

import (
	"strings"

	contractx "github.com/tripsmith/tripsmith/agent/contract"
	statex "github.com/tripsmith/tripsmith/agent/state"
)

// Classifier maps one utterance (plus the bounded intent history) onto the
// closed intent label set. Classification is a rule table evaluated top to
// bottom; the row order IS the tie-break order:
//
//	reset language > tool questions > correction language > additive language
//	> entity-driven defaults
//
// The first turn of a session can never classify as a refinement, and
// anything ambiguous falls through to a clarification rather than a guess.
// Same inputs always give the same label.
type Classifier struct {
	policy Policy
	rules  []classifierRule
}

type classifierInput struct {
	lower         string
	entities      statex.Entities
	recentIntents []string
}

type classifierRule struct {
	name  string
	match func(in classifierInput) (contractx.Intent, bool)
}

func NewClassifier(policy Policy) *Classifier {
	c := &Classifier{policy: policy}
	c.rules = []classifierRule{
		{name: "reset_language", match: c.matchReset},
		{name: "tool_question", match: c.matchToolQuestion},
		{name: "off_topic", match: c.matchOffTopic},
		{name: "correction_language", match: c.matchCorrection},
		{name: "additive_language", match: c.matchAdditive},
		{name: "constraint_followup", match: c.matchConstraintFollowup},
		{name: "entities_present", match: c.matchEntitiesPresent},
		{name: "first_travel_mention", match: c.matchFirstTravelMention},
	}
	return c
}

// Classify returns the intent for the utterance. The fall-through default is
// a clarification: the classifier never guesses between overlapping signals.
func (c *Classifier) Classify(text string, entities statex.Entities, recentIntents []string) contractx.Intent {
	in := classifierInput{
		lower:         strings.ToLower(text),
		entities:      entities,
		recentIntents: recentIntents,
	}
	for _, rule := range c.rules {
		if intent, ok := rule.match(in); ok {
			return intent
		}
	}
	return contractx.IntentClarifyRequest
}

func (c *Classifier) matchReset(in classifierInput) (contractx.Intent, bool) {
	if c.policy.HasReset(in.lower) {
		return contractx.IntentNewRequest, true
	}
	return "", false
}

// matchToolQuestion catches bare questions about weather, events, or cost.
// Order inside the rule is fixed: weather, then events, then budget.
func (c *Classifier) matchToolQuestion(in classifierInput) (contractx.Intent, bool) {
	question := strings.Contains(in.lower, "?") ||
		strings.Contains(in.lower, "what") ||
		strings.Contains(in.lower, "how") ||
		strings.Contains(in.lower, "any ")
	if !question {
		return "", false
	}
	switch {
	case c.policy.HasWeatherTerm(in.lower):
		return contractx.IntentWeatherQuery, true
	case c.policy.HasEventTerm(in.lower):
		return contractx.IntentEventsQuery, true
	case c.policy.HasBudgetTerm(in.lower):
		return contractx.IntentBudgetQuery, true
	}
	return "", false
}

func (c *Classifier) matchOffTopic(in classifierInput) (contractx.Intent, bool) {
	if in.entities.IsEmpty() &&
		!c.policy.HasTravelTerm(in.lower) &&
		!c.policy.HasWeatherTerm(in.lower) &&
		!c.policy.HasEventTerm(in.lower) &&
		!c.policy.HasBudgetTerm(in.lower) {
		return contractx.IntentOffTopic, true
	}
	return "", false
}

// Correction language wins over additive language, but only mid-conversation:
// there is nothing to correct on turn one.
func (c *Classifier) matchCorrection(in classifierInput) (contractx.Intent, bool) {
	if len(in.recentIntents) > 0 && c.policy.HasCorrection(in.lower) {
		return contractx.IntentRefineRequest, true
	}
	return "", false
}

func (c *Classifier) matchAdditive(in classifierInput) (contractx.Intent, bool) {
	if len(in.recentIntents) > 0 && c.policy.HasAdditive(in.lower) && !in.entities.IsEmpty() {
		return contractx.IntentRefineRequest, true
	}
	return "", false
}

// matchConstraintFollowup: mid-conversation slot additions without a new
// destination read as refinements ("I'm solo and love photography").
func (c *Classifier) matchConstraintFollowup(in classifierInput) (contractx.Intent, bool) {
	if len(in.recentIntents) > 0 && !in.entities.IsEmpty() && in.entities.DestinationRegion == "" {
		return contractx.IntentRefineRequest, true
	}
	return "", false
}

func (c *Classifier) matchEntitiesPresent(in classifierInput) (contractx.Intent, bool) {
	if !in.entities.IsEmpty() {
		return contractx.IntentNewRequest, true
	}
	return "", false
}

func (c *Classifier) matchFirstTravelMention(in classifierInput) (contractx.Intent, bool) {
	if len(in.recentIntents) == 0 && c.policy.HasTravelTerm(in.lower) {
		return contractx.IntentNewRequest, true
	}
	return "", false
}
