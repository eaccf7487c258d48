package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tripsmith/tripsmith/agent/agents/coordinator"
	contractx "github.com/tripsmith/tripsmith/agent/contract"
	"github.com/tripsmith/tripsmith/agent/generate"
	llmx "github.com/tripsmith/tripsmith/agent/llm"
	promptx "github.com/tripsmith/tripsmith/agent/prompt"
	statex "github.com/tripsmith/tripsmith/agent/state"
	toolx "github.com/tripsmith/tripsmith/agent/tool"
	configx "github.com/tripsmith/tripsmith/pkg/config"
	_ "github.com/tripsmith/tripsmith/pkg/logger/autoload"
	openrouterx "github.com/tripsmith/tripsmith/pkg/openrouter"
)

type AppConfig struct {
	Origin string `envconfig:"ORIGIN" default:"Tel Aviv"`
	Store  string `envconfig:"STORE" default:"memory"`
}

const fallbackReply = "Sorry, I could not put a reply together just now. Please try again."

func main() {
	ctx := context.Background()
	appCfg := configx.MustNew[AppConfig]("TRIPSMITH")

	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid llm configuration")
	}
	orCfg := llmCfg.OpenRouter()
	if openrouterx.NewClient(orCfg) == nil {
		log.Fatal().Msg("failed to initialize openrouter client")
	}

	chatModel, err := orCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create chat model")
	}

	generator, err := generate.New(ctx, chatModel, promptx.LoadPromptSet())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build generator")
	}

	store := newStore(appCfg.Store)
	gateway := toolx.NewGateway([]contractx.ToolProvider{
		toolx.NewBudgetProvider(),
		toolx.NewWeatherProvider(*configx.MustNew[toolx.WeatherConfig]("WEATHER")),
		toolx.NewEventsProvider(*configx.MustNew[toolx.EventsConfig]("TICKETMASTER")),
	})

	svc, err := coordinator.New(store, gateway, coordinator.Config{Origin: appCfg.Origin})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build coordinator")
	}

	runREPL(ctx, svc, generator)
}

func newStore(kind string) statex.Store {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "redis":
		store, err := statex.NewRedisStore(*configx.MustNew[statex.RedisConfig]("REDIS"))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		return store
	case "upstash":
		store, err := statex.NewUpstashRedisStore(*configx.MustNew[statex.UpstashRedisConfig]("UPSTASH"))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to configure upstash store")
		}
		return store
	default:
		return statex.NewMemoryStore()
	}
}

func runREPL(ctx context.Context, svc *coordinator.Coordinator, generator contractx.Generator) {
	sessionID := uuid.NewString()
	fmt.Println("TripSmith - type 'exit' to quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "exit" || text == "quit" {
			break
		}

		brief, err := svc.ProcessTurn(ctx, sessionID, text)
		if err != nil {
			log.Error().Err(err).Msg("turn failed")
			fmt.Println(fallbackReply)
			continue
		}

		reply, err := generator.Generate(ctx, brief)
		if err != nil {
			log.Error().Err(err).Msg("generation failed")
			fmt.Println(fallbackReply)
			continue
		}
		fmt.Println(reply)
	}

	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("stdin read failed")
	}
}
