package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/response.txt
	responseRaw string

	//go:embed template/clarify.txt
	clarifyRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Response string
	Clarify  string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Response: strings.TrimSpace(responseRaw),
		Clarify:  strings.TrimSpace(clarifyRaw),
	}
}
