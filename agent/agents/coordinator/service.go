package coordinator

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/tripsmith/tripsmith/agent/contract"
	"github.com/tripsmith/tripsmith/agent/nlu"
	nodex "github.com/tripsmith/tripsmith/agent/nodes"
	"github.com/tripsmith/tripsmith/agent/refine"
	statex "github.com/tripsmith/tripsmith/agent/state"
	toolx "github.com/tripsmith/tripsmith/agent/tool"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
)

type Config struct {
	Origin string
}

// Coordinator runs a full conversation turn: validate, load context,
// normalize, classify, decide, merge, plan tools, execute, persist, brief.
type Coordinator struct {
	store      statex.Store
	gateway    contractx.Gateway
	classifier *nlu.Classifier
	detector   *refine.Detector
	planner    *toolx.Planner

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time
}

func New(store statex.Store, gateway contractx.Gateway, cfg Config) (*Coordinator, error) {
	if store == nil {
		return nil, errors.New("context store is required")
	}
	if gateway == nil {
		return nil, errors.New("tool gateway is required")
	}

	policy := nlu.DefaultPolicy()
	c := &Coordinator{
		store:      store,
		gateway:    gateway,
		classifier: nlu.NewClassifier(policy),
		detector:   refine.NewDetector(policy),
		planner:    toolx.NewPlanner(cfg.Origin),
		now:        time.Now,
	}

	graphRunner, err := c.compileProcessTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	c.graphRunner = graphRunner

	return c, nil
}

// ProcessTurn handles one user utterance and returns the response brief. The
// brief carries everything downstream generation needs; tool failures show up
// as degraded results, never as a turn error.
func (c *Coordinator) ProcessTurn(ctx context.Context, sessionID string, text string) (contractx.ResponseBrief, error) {
	out, err := c.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Text:      text,
	})
	if err != nil {
		return contractx.ResponseBrief{}, err
	}
	return out.Brief, nil
}
