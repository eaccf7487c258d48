package tool

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	contractx "github.com/tripsmith/tripsmith/agent/contract"
)

const defaultCallTimeout = 8 * time.Second

// Gateway fans a tool plan out to its providers. Every call gets its own
// timeout; a failing or slow provider never fails the turn, it only yields a
// degraded result for that tool.
type Gateway struct {
	providers   map[contractx.ToolName]contractx.ToolProvider
	callTimeout time.Duration
}

type GatewayOption func(*Gateway)

func WithCallTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) {
		if d > 0 {
			g.callTimeout = d
		}
	}
}

func NewGateway(providers []contractx.ToolProvider, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		providers:   make(map[contractx.ToolName]contractx.ToolProvider, len(providers)),
		callTimeout: defaultCallTimeout,
	}
	for _, p := range providers {
		if p != nil {
			g.providers[p.Name()] = p
		}
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Execute runs the plan concurrently and returns one result per call, in plan
// order. It never returns an error: failures are encoded in the result status.
func (g *Gateway) Execute(ctx context.Context, plan contractx.ToolCallPlan) []contractx.ToolResult {
	if plan.IsEmpty() {
		return nil
	}

	results := make([]contractx.ToolResult, len(plan.Calls))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, call := range plan.Calls {
		eg.Go(func() error {
			results[i] = g.invoke(egCtx, call)
			return nil
		})
	}
	// Workers only record results, they never return errors.
	_ = eg.Wait()
	return results
}

func (g *Gateway) invoke(ctx context.Context, call contractx.ToolCall) contractx.ToolResult {
	provider, ok := g.providers[call.Tool]
	if !ok || !provider.Available() {
		return contractx.ToolResult{
			Tool:   call.Tool,
			Status: contractx.ToolStatusUnavailable,
			Reason: "provider not configured",
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	payload, found, err := provider.Invoke(callCtx, call.Params)
	switch {
	case err != nil && errors.Is(err, context.DeadlineExceeded):
		log.Warn().Str("tool", string(call.Tool)).Msg("tool call timed out")
		return contractx.ToolResult{Tool: call.Tool, Status: contractx.ToolStatusTimeout, Reason: "call timed out"}
	case err != nil:
		log.Warn().Err(err).Str("tool", string(call.Tool)).Msg("tool call failed")
		return contractx.ToolResult{Tool: call.Tool, Status: contractx.ToolStatusError, Reason: err.Error()}
	case !found:
		return contractx.ToolResult{Tool: call.Tool, Status: contractx.ToolStatusEmpty, Reason: "no data for request"}
	default:
		return contractx.ToolResult{Tool: call.Tool, Status: contractx.ToolStatusOK, Payload: payload}
	}
}
