package coordinatornode

import (
	"fmt"

	contractx "github.com/tripsmith/tripsmith/agent/contract"
	"github.com/tripsmith/tripsmith/agent/nlu"
)

func NormalizeEntities(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	in.Entities = nlu.Normalize(in.Text, in.Now)
	return in, nil
}
