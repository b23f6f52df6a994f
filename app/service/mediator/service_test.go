package mediator

import (
	"context"
	"errors"
	"testing"
	"time"

	"respite/app/config"
	"respite/app/model"
	"respite/app/service/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

type fakeModel struct {
	reply      string
	err        error
	lastPrompt string
	calls      int
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.calls++

	for _, msg := range messages {
		if msg.Role != schema.ChatMessageTypeHuman {
			continue
		}
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				f.lastPrompt = text.Text
			}
		}
	}

	if f.err != nil {
		return nil, f.err
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.reply}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := f.GenerateContent(ctx, []llms.MessageContent{llms.TextParts(schema.ChatMessageTypeHuman, prompt)}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.OpenAI.MaxTokens = 400
	cfg.OpenAI.Temperature = 0.7
	cfg.OpenAI.TimeoutSeconds = 10
	return cfg
}

func newTestService(llm llms.Model) *Service {
	return NewService(testConfig(), ratelimit.New(ratelimit.Options{}), llm)
}

func TestSuggestEndToEnd(t *testing.T) {
	fake := &fakeModel{reply: "[PAUSE] Take a breath."}
	svc := newTestService(fake)

	resp, apiErr := svc.Suggest(context.Background(), "device:abc", model.AIRequestPayload{
		EnergyLevel:      model.EnergyRunningLow,
		RequestType:      model.RequestInitial,
		CaregiverMessage: "She won't eat.",
	})

	require.Nil(t, apiErr)
	assert.Equal(t, "Take a breath.", resp.Suggestion)
	assert.Equal(t, model.ResponsePause, resp.ResponseType)
	assert.False(t, resp.RateLimitWarning)

	// The assembled context reached the model intact.
	assert.Contains(t, fake.lastPrompt, "Energy: running_low")
	assert.Contains(t, fake.lastPrompt, "Toolbox:\n(none)")
	assert.Contains(t, fake.lastPrompt, "[Caregiver]\nShe won't eat.")
}

func TestSuggestValidationShortCircuits(t *testing.T) {
	fake := &fakeModel{reply: "[SUGGESTION] x"}
	svc := newTestService(fake)

	_, apiErr := svc.Suggest(context.Background(), "id", model.AIRequestPayload{
		EnergyLevel:      "wired",
		RequestType:      model.RequestInitial,
		CaregiverMessage: "hi",
	})

	require.NotNil(t, apiErr)
	assert.Equal(t, CodeInvalidRequest, apiErr.Code)
	assert.Zero(t, fake.calls, "the LLM must not be called for invalid input")
}

func TestSuggestRateLimited(t *testing.T) {
	fake := &fakeModel{reply: "[SUGGESTION] x"}
	limiter := ratelimit.New(ratelimit.Options{MaxRequests: 2, SoftCap: 2})
	svc := NewService(testConfig(), limiter, fake)

	payload := model.AIRequestPayload{
		EnergyLevel:      model.EnergyHoldingSteady,
		RequestType:      model.RequestAnother,
		CaregiverMessage: "more ideas",
	}

	first, apiErr := svc.Suggest(context.Background(), "id", payload)
	require.Nil(t, apiErr)
	assert.False(t, first.RateLimitWarning)

	second, apiErr := svc.Suggest(context.Background(), "id", payload)
	require.Nil(t, apiErr)
	assert.True(t, second.RateLimitWarning, "soft cap reached")

	_, apiErr = svc.Suggest(context.Background(), "id", payload)
	require.NotNil(t, apiErr)
	assert.Equal(t, CodeRateLimited, apiErr.Code)
	assert.Equal(t, 429, apiErr.Status)
	assert.Equal(t, 2, fake.calls, "denied requests must not reach the LLM")
}

func TestSuggestMissingProviderFailsFast(t *testing.T) {
	svc := newTestService(nil)

	_, apiErr := svc.Suggest(context.Background(), "id", model.AIRequestPayload{
		EnergyLevel:      model.EnergyRunningLow,
		RequestType:      model.RequestInitial,
		CaregiverMessage: "hi",
	})

	require.NotNil(t, apiErr)
	assert.Equal(t, CodeUpstreamUnavailable, apiErr.Code)
	assert.Equal(t, 503, apiErr.Status)
}

func TestSuggestUpstreamError(t *testing.T) {
	svc := newTestService(&fakeModel{err: errors.New("provider exploded: secret details")})

	_, apiErr := svc.Suggest(context.Background(), "id", model.AIRequestPayload{
		EnergyLevel:      model.EnergyRunningLow,
		RequestType:      model.RequestInitial,
		CaregiverMessage: "hi",
	})

	require.NotNil(t, apiErr)
	assert.Equal(t, CodeUpstreamError, apiErr.Code)
	assert.Equal(t, 502, apiErr.Status)
	// Raw provider error text is logged, never echoed to the caller.
	assert.NotContains(t, apiErr.Message, "secret details")
}

func TestSuggestEmptyChoices(t *testing.T) {
	empty := &fakeModel{}
	svc := newTestService(empty)

	_, apiErr := svc.Suggest(context.Background(), "id", model.AIRequestPayload{
		EnergyLevel:      model.EnergyRunningLow,
		RequestType:      model.RequestInitial,
		CaregiverMessage: "hi",
	})

	require.NotNil(t, apiErr)
	assert.Equal(t, CodeUpstreamError, apiErr.Code)
}

func TestSuggestTimeoutMapsToTimeoutCode(t *testing.T) {
	svc := newTestService(&fakeModel{err: context.DeadlineExceeded})

	_, apiErr := svc.Suggest(context.Background(), "id", model.AIRequestPayload{
		EnergyLevel:      model.EnergyRunningLow,
		RequestType:      model.RequestInitial,
		CaregiverMessage: "hi",
	})

	require.NotNil(t, apiErr)
	assert.Equal(t, CodeTimeout, apiErr.Code)
	assert.Equal(t, 504, apiErr.Status)
}

func TestSuggestCancellationMapsToTimeoutCode(t *testing.T) {
	svc := newTestService(&fakeModel{err: context.Canceled})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, apiErr := svc.Suggest(ctx, "id", model.AIRequestPayload{
		EnergyLevel:      model.EnergyRunningLow,
		RequestType:      model.RequestInitial,
		CaregiverMessage: "hi",
	})

	require.NotNil(t, apiErr)
	assert.Equal(t, CodeTimeout, apiErr.Code)
}

func TestSuggestNoTagFallback(t *testing.T) {
	svc := newTestService(&fakeModel{reply: "Try putting on her favorite music."})

	resp, apiErr := svc.Suggest(context.Background(), "id", model.AIRequestPayload{
		EnergyLevel:      model.EnergyHoldingSteady,
		RequestType:      model.RequestInitial,
		CaregiverMessage: "She's restless.",
	})

	require.Nil(t, apiErr)
	assert.Equal(t, model.ResponseSuggestion, resp.ResponseType)
	assert.Equal(t, "Try putting on her favorite music.", resp.Suggestion)
}

func TestSuggestTimeoutConfigured(t *testing.T) {
	svc := newTestService(&fakeModel{reply: "[SUGGESTION] x"})
	assert.Equal(t, 10*time.Second, svc.timeout)
}
