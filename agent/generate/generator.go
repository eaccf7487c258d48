package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tripsmith/tripsmith/agent/contract"
	promptx "github.com/tripsmith/tripsmith/agent/prompt"
)

// Generator renders a turn brief into the assistant reply through a chat
// model. It implements contract.Generator.
type Generator struct {
	responseRunner compose.Runnable[map[string]any, *schema.Message]
	clarifyRunner  compose.Runnable[map[string]any, *schema.Message]
}

func New(ctx context.Context, chatModel einomodel.BaseChatModel, prompts promptx.PromptSet) (*Generator, error) {
	responseRunner, err := compileReplyGraph(ctx, chatModel, prompts.Response, "generate.response_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile response graph: %v", contractx.ErrModelInvoke, err)
	}
	clarifyRunner, err := compileReplyGraph(ctx, chatModel, prompts.Clarify, "generate.clarify_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile clarify graph: %v", contractx.ErrModelInvoke, err)
	}

	return &Generator{
		responseRunner: responseRunner,
		clarifyRunner:  clarifyRunner,
	}, nil
}

func (g *Generator) Generate(ctx context.Context, brief contractx.ResponseBrief) (string, error) {
	payload, err := json.Marshal(brief)
	if err != nil {
		return "", fmt.Errorf("%w: marshal brief: %v", contractx.ErrValidation, err)
	}

	runner := g.responseRunner
	if brief.NeedsClarification {
		runner = g.clarifyRunner
	}

	msg, err := runner.Invoke(ctx, map[string]any{"input": string(payload)})
	if err != nil {
		return "", fmt.Errorf("%w: generate reply: %v", contractx.ErrModelInvoke, err)
	}

	reply := strings.TrimSpace(msg.Content)
	if reply == "" {
		return "", fmt.Errorf("%w: model returned empty reply", contractx.ErrModelInvoke)
	}
	return reply, nil
}

func compileReplyGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
	graphName string,
) (compose.Runnable[map[string]any, *schema.Message], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{input}"),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", graphName, err)
	}
	return runner, nil
}
