package coordinatornode

import (
	"fmt"

	contractx "github.com/tripsmith/tripsmith/agent/contract"
	"github.com/tripsmith/tripsmith/agent/nlu"
)

func ClassifyIntent(in *GraphState, classifier *nlu.Classifier) (*GraphState, error) {
	if in == nil || in.Context == nil {
		return nil, fmt.Errorf("%w: graph context is nil", contractx.ErrValidation)
	}
	if classifier == nil {
		return nil, fmt.Errorf("%w: classifier is nil", contractx.ErrValidation)
	}

	in.Intent = classifier.Classify(in.Text, in.Entities, in.Context.RecentIntents)
	return in, nil
}
