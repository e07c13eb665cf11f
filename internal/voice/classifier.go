package voice

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dooshek/storyteller/internal/llm"
	"github.com/dooshek/storyteller/internal/logger"
)

// Analysis is the structured result of classifying a character name
type Analysis struct {
	Gender           string  `json:"gender"`            // male/female/neutral/unknown
	AgeGroup         string  `json:"age_group"`         // child/young_adult/adult/elder/unknown
	PersonalityTrait string  `json:"personality_trait"` // heroic/friendly/villainous/wise/mysterious/neutral
	VoiceType        string  `json:"voice_type"`        // masculine/feminine/neutral/deep/soft/wise
	Confidence       float64 `json:"confidence"`
}

// Classifier turns a character name into an Analysis
type Classifier interface {
	Classify(ctx context.Context, name string) (Analysis, error)
}

const classifierSystemPrompt = "You are a name analysis expert. Analyze character names " +
	"and provide structured information about their likely characteristics. " +
	"Respond only with valid JSON."

// LLMClassifier asks a chat model to analyze the name. Transport failures
// and unparsable responses surface as errors so the caller can fall back to
// the local heuristic.
type LLMClassifier struct {
	provider    llm.Provider
	model       string
	temperature float32
	maxTokens   int
}

// NewLLMClassifier creates a classifier backed by the given model
func NewLLMClassifier(provider llm.Provider, model string) *LLMClassifier {
	return &LLMClassifier{
		provider:    provider,
		model:       model,
		temperature: 0.3,
		maxTokens:   200,
	}
}

func classifierPrompt(name string) string {
	return fmt.Sprintf(`Analyze the character name %q and provide the following information in JSON format:

{
    "gender": "male/female/neutral/unknown",
    "age_group": "child/young_adult/adult/elder/unknown",
    "personality_trait": "heroic/friendly/villainous/wise/mysterious/neutral",
    "voice_type": "masculine/feminine/neutral/deep/soft/wise",
    "confidence": 0.0-1.0
}

Consider:
- Name origins and cultural associations
- Sound patterns and phonetics
- Common name associations
- Fantasy/sci-fi naming conventions

Respond with ONLY the JSON object, no additional text.`, name)
}

// Classify asks the model for a structured analysis of name
func (c *LLMClassifier) Classify(ctx context.Context, name string) (Analysis, error) {
	result, err := c.provider.Completion(ctx, llm.CompletionRequest{
		Model: c.model,
		Messages: []llm.Message{
			{Role: "system", Content: classifierSystemPrompt},
			{Role: "user", Content: classifierPrompt(name)},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return Analysis{}, fmt.Errorf("name analysis failed: %w", err)
	}

	analysis, err := parseAnalysis(result.Content)
	if err != nil {
		return Analysis{}, err
	}

	logger.Debugf("Classified %q as %s/%s/%s", name,
		analysis.Gender, analysis.AgeGroup, analysis.PersonalityTrait)
	return analysis, nil
}

// parseAnalysis decodes the model's JSON reply, filling defaults for any
// missing fields. Models sometimes wrap the object in a code fence.
func parseAnalysis(content string) (Analysis, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return Analysis{}, fmt.Errorf("unparsable analysis payload: %w", err)
	}

	analysis := Analysis{
		Gender:           "unknown",
		AgeGroup:         "unknown",
		PersonalityTrait: "unknown",
		VoiceType:        "unknown",
		Confidence:       0.5,
	}

	stringField := func(key string, dst *string) {
		if msg, ok := raw[key]; ok {
			var s string
			if json.Unmarshal(msg, &s) == nil && s != "" {
				*dst = s
			}
		}
	}
	stringField("gender", &analysis.Gender)
	stringField("age_group", &analysis.AgeGroup)
	stringField("personality_trait", &analysis.PersonalityTrait)
	stringField("voice_type", &analysis.VoiceType)

	if msg, ok := raw["confidence"]; ok {
		var f float64
		if json.Unmarshal(msg, &f) == nil {
			analysis.Confidence = f
		}
	}

	return analysis, nil
}
