package contract

import "context"

// ToolProvider is the uniform contract over the external data sources
// (weather normals, event search, budget model). Implementations report a
// missing credential through Available, return (payload, true) on data,
// (nil, false) when the lookup resolved to nothing, and an error only on a
// genuine failure.
type ToolProvider interface {
	Name() ToolName
	Available() bool
	Invoke(ctx context.Context, params map[string]any) (any, bool, error)
}

// Gateway executes a turn's tool plan and never fails the turn itself: every
// outcome, including timeouts and unavailable providers, comes back as a
// ToolResult.
type Gateway interface {
	Execute(ctx context.Context, plan ToolCallPlan) []ToolResult
}

// Generator is the external text-generation collaborator. A failure here is a
// terminal error for the turn; the caller decides on a fallback message.
type Generator interface {
	Generate(ctx context.Context, brief ResponseBrief) (string, error)
}
