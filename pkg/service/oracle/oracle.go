package oracle

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/crowd-lab/crowdsim/pkg/domain/interfaces"
	"github.com/crowd-lab/crowdsim/pkg/domain/model"
	"github.com/crowd-lab/crowdsim/pkg/domain/types"
	"github.com/crowd-lab/crowdsim/pkg/utils/logging"
)

// client is an LLM-backed decision oracle. One Decide call is one JSON-schema
// session; the persona profile and turn context are rendered into the prompt.
type client struct {
	llmClient gollem.LLMClient
	timeout   time.Duration
}

// Option configures the oracle client
type Option func(*client)

// WithTimeout sets the per-call timeout applied at the oracle boundary
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		c.timeout = d
	}
}

// New creates an LLM-backed decision oracle
func New(llmClient gollem.LLMClient, opts ...Option) (interfaces.DecisionOracle, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	c := &client{
		llmClient: llmClient,
		timeout:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// llmResponse mirrors the response schema handed to the model
type llmResponse struct {
	Decision        string `json:"decision"`
	Reasoning       string `json:"reasoning"`
	Emotion         string `json:"emotion"`
	PricePerception string `json:"price_perception"`
}

func (c *client) Decide(ctx context.Context, req *interfaces.OracleRequest) (*model.OracleDecision, error) {
	if req == nil || req.Persona == nil || req.Input == nil {
		return nil, goerr.New("oracle request is incomplete")
	}

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	callID := uuid.NewString()
	logging.From(ctx).Debug("oracle call",
		"call_id", callID,
		"persona_id", req.Persona.ID,
		"turn", req.Input.Turn,
	)

	session, err := c.llmClient.NewSession(callCtx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildResponseSchema()),
		gollem.WithSessionSystemPrompt(buildSystemPrompt()),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create oracle session", goerr.V("call_id", callID))
	}

	resp, err := session.GenerateContent(callCtx, gollem.Text(buildUserPrompt(req)))
	if err != nil {
		return nil, goerr.Wrap(err, "oracle call failed",
			goerr.V("call_id", callID), goerr.V("persona_id", req.Persona.ID))
	}
	if len(resp.Texts) == 0 {
		return nil, goerr.New("oracle returned no content", goerr.V("call_id", callID))
	}

	var parsed llmResponse
	if err := json.Unmarshal([]byte(resp.Texts[0]), &parsed); err != nil {
		return nil, goerr.Wrap(err, "failed to parse oracle response",
			goerr.V("call_id", callID), goerr.V("response", resp.Texts[0]))
	}

	decision := &model.OracleDecision{
		Decision:        types.Decision(parsed.Decision),
		Reasoning:       parsed.Reasoning,
		Emotion:         types.Emotion(parsed.Emotion),
		PricePerception: types.PricePerception(parsed.PricePerception),
	}
	decision.Normalize()

	return decision, nil
}

func buildResponseSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Type:        gollem.TypeObject,
		Title:       "ConsumerDecision",
		Description: "One consumer's reaction to the current offer",
		Properties: map[string]*gollem.Parameter{
			"decision": {
				Type:        gollem.TypeString,
				Description: "One of: buy, skip, switch",
				Required:    true,
			},
			"reasoning": {
				Type:        gollem.TypeString,
				Description: "First-person explanation of the decision, 1-2 sentences",
				Required:    true,
			},
			"emotion": {
				Type:        gollem.TypeString,
				Description: "One of: neutral, satisfied, delighted, loyal, frustrated, angry, betrayed",
				Required:    true,
			},
			"price_perception": {
				Type:        gollem.TypeString,
				Description: "One of: cheap, fair, expensive, outrageous, unknown",
				Required:    true,
			},
		},
	}
}
