package coordinatornode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/tripsmith/tripsmith/agent/contract"
	statex "github.com/tripsmith/tripsmith/agent/state"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

type GraphInput struct {
	SessionID string
	Text      string
}

type GraphOutput struct {
	Brief contractx.ResponseBrief
}

type GraphState struct {
	SessionID string
	Text      string
	Now       time.Time

	Context  *statex.ConversationContext
	Entities statex.Entities
	Intent   contractx.Intent
	Decision statex.Decision

	Plan               contractx.ToolCallPlan
	Results            []contractx.ToolResult
	NeedsClarification bool
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID: sessionID,
		Text:      text,
		Now:       nowFn().UTC(),
	}, nil
}
