package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/claude"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/urfave/cli/v3"

	"github.com/crowd-lab/crowdsim/pkg/domain/interfaces"
	"github.com/crowd-lab/crowdsim/pkg/service/oracle"
)

// LLM holds configuration for the decision oracle's LLM backend
type LLM struct {
	provider       string
	geminiProject  string
	geminiLocation string
	openaiAPIKey   string
	claudeAPIKey   string
}

// Flags returns CLI flags for LLM configuration
func (l *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-provider",
			Usage:       "LLM provider for the decision oracle (gemini, openai, claude, or mock)",
			Value:       "gemini",
			Sources:     cli.EnvVars("CROWDSIM_LLM_PROVIDER"),
			Destination: &l.provider,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini API",
			Sources:     cli.EnvVars("CROWDSIM_GEMINI_PROJECT"),
			Destination: &l.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Value:       "us-central1",
			Sources:     cli.EnvVars("CROWDSIM_GEMINI_LOCATION"),
			Destination: &l.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key",
			Sources:     cli.EnvVars("CROWDSIM_OPENAI_API_KEY"),
			Destination: &l.openaiAPIKey,
		},
		&cli.StringFlag{
			Name:        "claude-api-key",
			Usage:       "Anthropic API key",
			Sources:     cli.EnvVars("CROWDSIM_CLAUDE_API_KEY"),
			Destination: &l.claudeAPIKey,
		},
	}
}

// LogValue renders the configuration for startup logging without secrets
func (l *LLM) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("provider", l.provider),
		slog.String("gemini_project", l.geminiProject),
		slog.Bool("openai_key_set", l.openaiAPIKey != ""),
		slog.Bool("claude_key_set", l.claudeAPIKey != ""),
	)
}

// Configure builds the decision oracle from the configured provider. The mock
// provider needs no credentials and answers with deterministic heuristics.
func (l *LLM) Configure(ctx context.Context) (interfaces.DecisionOracle, error) {
	var llmClient gollem.LLMClient
	var err error

	switch l.provider {
	case "gemini":
		if l.geminiProject == "" {
			return nil, goerr.New("gemini-project is required when using gemini provider")
		}
		llmClient, err = gemini.New(ctx, l.geminiProject, l.geminiLocation)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Gemini client")
		}

	case "openai":
		if l.openaiAPIKey == "" {
			return nil, goerr.New("openai-api-key is required when using openai provider")
		}
		llmClient, err = openai.New(ctx, l.openaiAPIKey)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create OpenAI client")
		}

	case "claude":
		if l.claudeAPIKey == "" {
			return nil, goerr.New("claude-api-key is required when using claude provider")
		}
		llmClient, err = claude.New(ctx, l.claudeAPIKey)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Claude client")
		}

	case "mock":
		return oracle.NewMock(), nil

	default:
		return nil, goerr.New("unknown llm provider", goerr.V("provider", l.provider))
	}

	decisionOracle, err := oracle.New(llmClient)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create decision oracle")
	}

	return decisionOracle, nil
}
