package storyteller

import (
	"context"

	"github.com/dooshek/storyteller/internal/llm"
	"github.com/dooshek/storyteller/internal/ratelimit"
	"github.com/dooshek/storyteller/internal/retry"
	"github.com/dooshek/storyteller/internal/tts"
	"github.com/dooshek/storyteller/internal/usage"
)

// pacedProvider wraps a chat provider with the rate limiter, the retry
// policy and the usage ledger. The limiter slot is acquired inside the retry
// closure, so a retried call paces itself again.
type pacedProvider struct {
	inner   llm.Provider
	limiter *ratelimit.Limiter
	policy  *retry.Policy
	tracker *usage.Tracker
}

func (p *pacedProvider) Completion(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResult, error) {
	var result llm.CompletionResult

	err := p.policy.Execute(ctx, func(ctx context.Context) error {
		p.limiter.Acquire()
		var callErr error
		result, callErr = p.inner.Completion(ctx, req)
		return callErr
	})

	// Token usage is billed even when the content was unusable, as long as
	// the call reached the model
	if result.Usage.PromptTokens > 0 || result.Usage.CompletionTokens > 0 {
		p.tracker.Record(req.Model, result.Usage.PromptTokens, result.Usage.CompletionTokens)
	}

	return result, err
}

// pacedSynthesizer applies the same discipline to synthesis calls. Usage is
// recorded in characters of input text, matching per-character billing.
type pacedSynthesizer struct {
	inner   tts.Synthesizer
	model   string
	limiter *ratelimit.Limiter
	policy  *retry.Policy
	tracker *usage.Tracker
}

func (p *pacedSynthesizer) Synthesize(ctx context.Context, text string, voice tts.VoiceSetting) ([]byte, error) {
	var audio []byte

	err := p.policy.Execute(ctx, func(ctx context.Context) error {
		p.limiter.Acquire()
		var callErr error
		audio, callErr = p.inner.Synthesize(ctx, text, voice)
		return callErr
	})
	if err != nil {
		return nil, err
	}

	p.tracker.Record(p.model, 0, len(text))
	return audio, nil
}
