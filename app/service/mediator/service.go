package mediator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"respite/app/config"
	"respite/app/model"
	"respite/app/service/prompt"
	"respite/app/service/ratelimit"

	_ "embed"

	"github.com/samber/do"
	"github.com/samber/oops"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

//go:embed system_prompt.txt
var systemPrompt string

// Service brokers caregiver requests to the LLM provider. Stateless per
// request except for the shared rate-limit table; the outbound call is the
// only blocking operation and always carries a timeout.
type Service struct {
	cfg     *config.Config
	limiter *ratelimit.Limiter

	// llm is nil when no provider token is configured; requests then fail
	// fast with 503 before any call is attempted.
	llm     llms.Model
	timeout time.Duration
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)
	limiter := do.MustInvoke[*ratelimit.Limiter](di)

	var llm llms.Model
	if cfg.OpenAI.Token != "" {
		client, err := openai.New(
			openai.WithToken(cfg.OpenAI.Token),
			openai.WithBaseURL(cfg.OpenAI.BaseURL),
			openai.WithModel(cfg.OpenAI.Model),
		)
		if err != nil {
			return nil, oops.Errorf("failed to create LLM client: %w", err)
		}
		llm = client
	} else {
		slog.Warn("No LLM provider token configured, suggestion requests will fail with 503")
	}

	return NewService(cfg, limiter, llm), nil
}

// NewService wires an explicit model, letting tests inject a fake.
func NewService(cfg *config.Config, limiter *ratelimit.Limiter, llm llms.Model) *Service {
	return &Service{
		cfg:     cfg,
		limiter: limiter,
		llm:     llm,
		timeout: time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second,
	}
}

// Suggest runs the linear mediation pipeline:
// validate -> rate-limit -> assemble context -> LLM call -> tag parse.
// Any stage failure short-circuits with an APIError; no retries happen
// here, retry policy is a caller concern.
func (s *Service) Suggest(ctx context.Context, identity string, payload model.AIRequestPayload) (*model.AIResponse, *APIError) {
	if apiErr := validate(&payload); apiErr != nil {
		return nil, apiErr
	}

	limit := s.limiter.Check(identity)
	if !limit.Allowed {
		return nil, rateLimited()
	}

	if s.llm == nil {
		slog.Error("Rejecting suggestion request: LLM provider token is not configured")
		return nil, upstreamUnavailable()
	}

	userPrompt := prompt.Build(payload)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.llm.GenerateContent(callCtx,
		[]llms.MessageContent{
			llms.TextParts(schema.ChatMessageTypeSystem, systemPrompt),
			llms.TextParts(schema.ChatMessageTypeHuman, userPrompt),
		},
		llms.WithMaxTokens(s.cfg.OpenAI.MaxTokens),
		llms.WithTemperature(s.cfg.OpenAI.Temperature),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			slog.Warn("LLM call timed out or was cancelled", "identity", identity, "error", err)
			return nil, timeout()
		}

		slog.Error("LLM call failed", "identity", identity, "error", err)
		return nil, upstreamError()
	}

	if len(resp.Choices) == 0 {
		slog.Error("LLM returned no choices", "identity", identity)
		return nil, upstreamError()
	}

	responseType, cleanText := parseTaggedResponse(resp.Choices[0].Content)

	return &model.AIResponse{
		Suggestion:       cleanText,
		ResponseType:     responseType,
		RateLimitWarning: limit.NearCap,
	}, nil
}
