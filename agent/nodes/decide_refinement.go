package coordinatornode

import (
	"fmt"

	contractx "github.com/tripsmith/tripsmith/agent/contract"
	"github.com/tripsmith/tripsmith/agent/refine"
)

func DecideRefinement(in *GraphState, detector *refine.Detector) (*GraphState, error) {
	if in == nil || in.Context == nil {
		return nil, fmt.Errorf("%w: graph context is nil", contractx.ErrValidation)
	}
	if detector == nil {
		return nil, fmt.Errorf("%w: detector is nil", contractx.ErrValidation)
	}

	in.Decision = detector.Decide(in.Intent, in.Entities, in.Text, in.Context)
	return in, nil
}
