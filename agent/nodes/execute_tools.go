package coordinatornode

import (
	"context"
	"fmt"

	contractx "github.com/tripsmith/tripsmith/agent/contract"
)

func ExecuteTools(
	ctx context.Context,
	in *GraphState,
	gateway contractx.Gateway,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if gateway == nil {
		return nil, fmt.Errorf("%w: gateway is nil", contractx.ErrValidation)
	}

	if in.Plan.IsEmpty() {
		return in, nil
	}

	in.Results = gateway.Execute(ctx, in.Plan)
	return in, nil
}
