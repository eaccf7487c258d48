package tool

import (
	"strings"

	contractx "github.com/tripsmith/tripsmith/agent/contract"
	statex "github.com/tripsmith/tripsmith/agent/state"
)

// DefaultOrigin is the assumed departure city when the session never states
// one.
const DefaultOrigin = "Tel Aviv"

// Planner maps a resolved intent plus the merged context onto a deterministic
// ordered tool list. Requirements per tool:
//
//	budget:  budget_total, or destination_region + duration_days
//	weather: travel_dates + destination_region, or a discovery turn
//	events:  destination_region + travel_dates; always optional
//
// A discovery turn has no destination yet but enough constraints (dates plus
// budget or duration) to recommend one; all tools are planned with the region
// parameter omitted and providers degrade to empty payloads.
type Planner struct {
	Origin string
}

func NewPlanner(origin string) *Planner {
	trimmed := strings.TrimSpace(origin)
	if trimmed == "" {
		trimmed = DefaultOrigin
	}
	return &Planner{Origin: trimmed}
}

// Plan returns the ordered tool invocations for the turn. Clarifications and
// off-topic turns plan nothing; tool queries plan only their topic.
func (p *Planner) Plan(intent contractx.Intent, cc *statex.ConversationContext) contractx.ToolCallPlan {
	if cc == nil {
		return contractx.ToolCallPlan{}
	}

	switch intent {
	case contractx.IntentClarifyRequest, contractx.IntentOffTopic:
		return contractx.ToolCallPlan{}
	case contractx.IntentWeatherQuery:
		return p.planSingle(cc, contractx.ToolWeather)
	case contractx.IntentEventsQuery:
		return p.planSingle(cc, contractx.ToolEvents)
	case contractx.IntentBudgetQuery:
		return p.planSingle(cc, contractx.ToolBudget)
	}

	var calls []contractx.ToolCall
	if p.budgetSatisfiable(cc) {
		calls = append(calls, contractx.ToolCall{
			Tool:     contractx.ToolBudget,
			Params:   p.budgetParams(cc),
			Required: true,
		})
	}
	if p.weatherSatisfiable(cc) {
		calls = append(calls, contractx.ToolCall{
			Tool:     contractx.ToolWeather,
			Params:   p.weatherParams(cc),
			Required: true,
		})
	}
	if p.eventsSatisfiable(cc) {
		calls = append(calls, contractx.ToolCall{
			Tool:     contractx.ToolEvents,
			Params:   p.eventsParams(cc),
			Required: false,
		})
	}
	return contractx.ToolCallPlan{Calls: calls}
}

func (p *Planner) planSingle(cc *statex.ConversationContext, tool contractx.ToolName) contractx.ToolCallPlan {
	switch tool {
	case contractx.ToolBudget:
		if p.budgetSatisfiable(cc) {
			return contractx.ToolCallPlan{Calls: []contractx.ToolCall{
				{Tool: tool, Params: p.budgetParams(cc), Required: true},
			}}
		}
	case contractx.ToolWeather:
		if p.weatherSatisfiable(cc) {
			return contractx.ToolCallPlan{Calls: []contractx.ToolCall{
				{Tool: tool, Params: p.weatherParams(cc), Required: true},
			}}
		}
	case contractx.ToolEvents:
		if p.eventsSatisfiable(cc) {
			return contractx.ToolCallPlan{Calls: []contractx.ToolCall{
				{Tool: tool, Params: p.eventsParams(cc), Required: false},
			}}
		}
	}
	return contractx.ToolCallPlan{}
}

func (p *Planner) budgetSatisfiable(cc *statex.ConversationContext) bool {
	if cc.HasSlot(statex.SlotBudgetTotal) {
		return true
	}
	return cc.HasSlot(statex.SlotDestinationRegion) && cc.HasSlot(statex.SlotDurationDays)
}

func (p *Planner) weatherSatisfiable(cc *statex.ConversationContext) bool {
	if !cc.HasSlot(statex.SlotTravelDates) {
		return false
	}
	return cc.HasSlot(statex.SlotDestinationRegion) || p.discoveryTurn(cc)
}

func (p *Planner) eventsSatisfiable(cc *statex.ConversationContext) bool {
	if !cc.HasSlot(statex.SlotTravelDates) {
		return false
	}
	return cc.HasSlot(statex.SlotDestinationRegion) || p.discoveryTurn(cc)
}

// discoveryTurn: no destination yet, but the session has dates plus a budget
// or a duration, i.e. enough to shop for destinations.
func (p *Planner) discoveryTurn(cc *statex.ConversationContext) bool {
	if cc.HasSlot(statex.SlotDestinationRegion) {
		return false
	}
	if !cc.HasSlot(statex.SlotTravelDates) {
		return false
	}
	return cc.HasSlot(statex.SlotBudgetTotal) || cc.HasSlot(statex.SlotDurationDays)
}

func (p *Planner) budgetParams(cc *statex.ConversationContext) map[string]any {
	params := map[string]any{
		"origin": p.Origin,
	}
	if cc.HasSlot(statex.SlotDestinationRegion) {
		params["region"] = cc.DestinationRegion
	}
	if cc.HasSlot(statex.SlotDurationDays) {
		params["days"] = cc.DurationDays
	}
	if cc.HasSlot(statex.SlotBudgetTotal) {
		params["budget_amount"] = cc.BudgetTotal.Amount
		params["budget_currency"] = cc.BudgetTotal.Currency
	}
	return params
}

func (p *Planner) weatherParams(cc *statex.ConversationContext) map[string]any {
	params := map[string]any{}
	if cc.HasSlot(statex.SlotDestinationRegion) {
		params["place"] = cc.DestinationRegion
	}
	if cc.HasSlot(statex.SlotTravelDates) {
		params["start"] = cc.TravelDates.Start
		params["end"] = cc.TravelDates.End
	}
	return params
}

func (p *Planner) eventsParams(cc *statex.ConversationContext) map[string]any {
	params := map[string]any{}
	if cc.HasSlot(statex.SlotDestinationRegion) {
		params["city"] = cc.DestinationRegion
	}
	if cc.HasSlot(statex.SlotTravelDates) {
		params["start"] = cc.TravelDates.Start
		params["end"] = cc.TravelDates.End
	}
	return params
}
