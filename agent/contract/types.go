package contract

import (
	"strings"
	"time"

	statex "github.com/tripsmith/tripsmith/agent/state"
)

// Intent is the closed label set produced once per turn. Tool queries carry
// the targeted topic as a suffix, checked with IsToolQuery/ToolTopic.
type Intent string

const (
	IntentNewRequest     Intent = "new_request"
	IntentRefineRequest  Intent = "refine_request"
	IntentClarifyRequest Intent = "clarify_request"
	IntentWeatherQuery   Intent = "tool_query.weather"
	IntentEventsQuery    Intent = "tool_query.events"
	IntentBudgetQuery    Intent = "tool_query.budget"
	IntentOffTopic       Intent = "off_topic"
)

const toolQueryPrefix = "tool_query."

func (i Intent) IsToolQuery() bool {
	return strings.HasPrefix(string(i), toolQueryPrefix)
}

// ToolTopic returns "weather", "events", or "budget" for tool queries, "" otherwise.
func (i Intent) ToolTopic() string {
	if !i.IsToolQuery() {
		return ""
	}
	return strings.TrimPrefix(string(i), toolQueryPrefix)
}

// ToolName identifies one external data provider.
type ToolName string

const (
	ToolWeather ToolName = "weather.normals"
	ToolEvents  ToolName = "events.search"
	ToolBudget  ToolName = "budget.estimate"
)

// ToolCall is one planned invocation. Optional calls may fail without
// degrading the turn; a failed required call downgrades the response instead
// of aborting.
type ToolCall struct {
	Tool     ToolName       `json:"tool"`
	Params   map[string]any `json:"params,omitempty"`
	Required bool           `json:"required"`
}

// ToolCallPlan is the ordered set of invocations for one turn.
type ToolCallPlan struct {
	Calls []ToolCall `json:"calls,omitempty"`
}

func (p ToolCallPlan) IsEmpty() bool {
	return len(p.Calls) == 0
}

// ToolStatus distinguishes a provider that answered, answered with nothing,
// was never configured, or failed.
type ToolStatus string

const (
	ToolStatusOK          ToolStatus = "ok"
	ToolStatusEmpty       ToolStatus = "empty"
	ToolStatusUnavailable ToolStatus = "unavailable"
	ToolStatusTimeout     ToolStatus = "timeout"
	ToolStatusError       ToolStatus = "error"
)

// ToolResult is the per-tool outcome carried into the ResponseBrief. Payload
// is the provider's typed result when Status is ok; Reason explains any
// failure status for logging and for the generation stage's transparent
// acknowledgment.
type ToolResult struct {
	Tool    ToolName   `json:"tool"`
	Status  ToolStatus `json:"status"`
	Payload any        `json:"payload,omitempty"`
	Reason  string     `json:"reason,omitempty"`
}

func (r ToolResult) Failed() bool {
	switch r.Status {
	case ToolStatusUnavailable, ToolStatusTimeout, ToolStatusError:
		return true
	default:
		return false
	}
}

// ResponseBrief is the structured output of one conversation step. It is the
// core's boundary with the text-generation stage: no rendered text, no prompt
// concerns.
type ResponseBrief struct {
	SessionID string                      `json:"session_id"`
	Utterance string                      `json:"utterance"`
	Intent    Intent                      `json:"intent"`
	Decision  statex.Decision             `json:"decision"`
	Entities  statex.Entities             `json:"entities"`
	Context   *statex.ConversationContext `json:"context"`
	Plan      ToolCallPlan                `json:"plan"`
	Results   []ToolResult                `json:"tool_results,omitempty"`

	// NeedsClarification is set when the turn carried no new information and
	// re-querying tools would repeat the prior answer, or when the intent
	// itself resolved to a clarification.
	NeedsClarification bool      `json:"needs_clarification,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// Result returns the result for a tool, if present.
func (b ResponseBrief) Result(tool ToolName) (ToolResult, bool) {
	for _, r := range b.Results {
		if r.Tool == tool {
			return r, true
		}
	}
	return ToolResult{}, false
}
