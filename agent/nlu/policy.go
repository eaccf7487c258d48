package nlu

import "strings"

// Policy holds the phrase sets driving classification and refinement
// detection. The sets are data, not code, so tests and deployments can tune
// them without touching the rule table.
type Policy struct {
	CorrectionMarkers []string
	AdditiveMarkers   []string
	ResetMarkers      []string
	WeatherTerms      []string
	EventTerms        []string
	BudgetTerms       []string
	TravelTerms       []string
}

func DefaultPolicy() Policy {
	return Policy{
		CorrectionMarkers: []string{
			"actually", "instead", "rather", "scratch that", "no wait", "make it", "change it",
		},
		AdditiveMarkers: []string{
			"also", "and ", "plus", "as well", "what about", "how about",
		},
		ResetMarkers: []string{
			"forget that", "forget it", "start over", "start again", "never mind", "new trip",
		},
		WeatherTerms: []string{
			"weather", "climate", "temperature", "rain", "hot", "cold", "warm",
		},
		EventTerms: []string{
			"event", "events", "concert", "festival", "show", "happening",
		},
		BudgetTerms: []string{
			"cost", "costs", "price", "expensive", "cheap", "afford", "how much",
		},
		TravelTerms: []string{
			"trip", "travel", "vacation", "holiday", "visit", "fly", "flight",
			"destination", "itinerary", "getaway", "go to", "going to",
		},
	}
}

func (p Policy) HasCorrection(text string) bool { return containsAny(text, p.CorrectionMarkers) }
func (p Policy) HasAdditive(text string) bool   { return containsAny(text, p.AdditiveMarkers) }
func (p Policy) HasReset(text string) bool      { return containsAny(text, p.ResetMarkers) }
func (p Policy) HasWeatherTerm(text string) bool { return containsAny(text, p.WeatherTerms) }
func (p Policy) HasEventTerm(text string) bool   { return containsAny(text, p.EventTerms) }
func (p Policy) HasBudgetTerm(text string) bool  { return containsAny(text, p.BudgetTerms) }
func (p Policy) HasTravelTerm(text string) bool  { return containsAny(text, p.TravelTerms) }

func containsAny(text string, phrases []string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range phrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
