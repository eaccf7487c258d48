package coordinatornode

import (
	"context"
	"errors"
	"fmt"
	"time"

	contractx "github.com/tripsmith/tripsmith/agent/contract"
	statex "github.com/tripsmith/tripsmith/agent/state"
)

func LoadOrCreateContext(
	ctx context.Context,
	in *GraphState,
	store statex.Store,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	cc, err := loadOrCreateContext(ctx, store, in.SessionID, in.Now)
	if err != nil {
		return nil, err
	}
	in.Context = cc
	return in, nil
}

func loadOrCreateContext(
	ctx context.Context,
	store statex.Store,
	sessionID string,
	now time.Time,
) (*statex.ConversationContext, error) {
	cc, err := store.Load(ctx, sessionID)
	if err == nil {
		return cc, nil
	}
	if !errors.Is(err, statex.ErrContextNotFound) {
		return nil, err
	}

	return statex.NewConversationContext(sessionID, now), nil
}
