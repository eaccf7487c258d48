package coordinatornode

import (
	"context"
	"fmt"

	contractx "github.com/tripsmith/tripsmith/agent/contract"
	statex "github.com/tripsmith/tripsmith/agent/state"
)

func SaveContext(
	ctx context.Context,
	in *GraphState,
	store statex.Store,
) (*GraphState, error) {
	if in == nil || in.Context == nil {
		return nil, fmt.Errorf("%w: graph context is nil", contractx.ErrValidation)
	}

	in.Context.Touch(in.Now)
	if err := in.Context.Validate(); err != nil {
		return nil, fmt.Errorf("context validation failed: %w", err)
	}
	if err := store.Save(ctx, in.Context); err != nil {
		return nil, err
	}

	return in, nil
}
