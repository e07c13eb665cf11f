package voice

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dooshek/storyteller/internal/story"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClassifier returns a fixed analysis, or an error when failing is set
type stubClassifier struct {
	analysis Analysis
	failing  bool
	calls    int
}

func (s *stubClassifier) Classify(ctx context.Context, name string) (Analysis, error) {
	s.calls++
	if s.failing {
		return Analysis{}, errors.New("classifier offline")
	}
	return s.analysis, nil
}

func maleAnalysis() Analysis {
	return Analysis{Gender: "male", AgeGroup: "adult", PersonalityTrait: "neutral", VoiceType: "masculine", Confidence: 0.9}
}

func TestResolveIdempotent(t *testing.T) {
	classifier := &stubClassifier{analysis: maleAnalysis()}
	resolver := NewResolver(classifier)
	ctx := context.Background()

	first := resolver.Resolve(ctx, "Kael")
	second := resolver.Resolve(ctx, "Kael")

	assert.Equal(t, first, second, "same name must resolve to an identical profile")
	assert.Equal(t, 1, classifier.calls, "cache hit must not re-classify")
}

func TestResolveCaseInsensitiveCache(t *testing.T) {
	classifier := &stubClassifier{analysis: maleAnalysis()}
	resolver := NewResolver(classifier)
	ctx := context.Background()

	first := resolver.Resolve(ctx, "Kael")
	second := resolver.Resolve(ctx, "KAEL")

	assert.Equal(t, first.VoiceID, second.VoiceID)
	assert.Equal(t, 1, classifier.calls)
}

func TestResolveRoundRobinCoversPool(t *testing.T) {
	classifier := &stubClassifier{analysis: Analysis{
		Gender: "male", AgeGroup: "adult",
		PersonalityTrait: "villainous", VoiceType: "deep", Confidence: 0.9,
	}}
	resolver := NewResolver(classifier)
	ctx := context.Background()

	poolSize := PoolSize(CategoryVillain)
	require.Positive(t, poolSize)

	seen := make(map[string]int)
	for i := 0; i < poolSize; i++ {
		c := resolver.Resolve(ctx, fmt.Sprintf("Villain%d", i))
		seen[c.VoiceID]++
	}

	// Every pool voice assigned exactly once before any repeat
	assert.Len(t, seen, poolSize)
	for voiceID, count := range seen {
		assert.Equal(t, 1, count, "voice %s repeated before pool exhaustion", voiceID)
	}

	repeat := resolver.Resolve(ctx, "VillainExtra")
	assert.Contains(t, seen, repeat.VoiceID, "after exhaustion the pool wraps around")
}

func TestResolveFallsBackToHeuristic(t *testing.T) {
	classifier := &stubClassifier{failing: true}
	resolver := NewResolver(classifier)

	// "Elara" ends in a, the heuristic should land in the female pool
	c := resolver.Resolve(context.Background(), "Elara")

	assert.Equal(t, "Elara", c.Name)
	assert.Contains(t, pools[CategoryFemale], c.VoiceID)
}

func TestResolvePresetWins(t *testing.T) {
	classifier := &stubClassifier{analysis: maleAnalysis()}
	resolver := NewResolver(classifier)

	merlin := story.Character{
		Name:    "Merlin",
		VoiceID: "English_WiseScholar",
		Speed:   0.9,
		Volume:  1.0,
		Emotion: "wise",
	}
	resolver.Preset(merlin)

	resolved := resolver.Resolve(context.Background(), "merlin")

	assert.Equal(t, merlin, resolved)
	assert.Zero(t, classifier.calls, "preset names are never classified")
}

func TestResolveEmptyLabel(t *testing.T) {
	classifier := &stubClassifier{failing: true}
	resolver := NewResolver(classifier)

	// A leading-colon line yields an empty label; it resolves like any
	// other name instead of collapsing into narration
	c := resolver.Resolve(context.Background(), "")

	assert.Equal(t, "", c.Name)
	assert.NotEmpty(t, c.VoiceID)
}

func TestHeuristicGenderSuffixes(t *testing.T) {
	tests := []struct {
		name   string
		gender string
	}{
		{"Elara", "female"},
		{"Luna", "female"},
		{"Kae", "female"},
		{"Marco", "male"},
		{"Voryn", "male"},
		{"Thor", "male"},
		{"Alex", "unknown"},
	}

	for _, tt := range tests {
		analysis := HeuristicAnalysis(tt.name)
		assert.Equal(t, tt.gender, analysis.Gender, "name %q", tt.name)
		assert.Equal(t, "adult", analysis.AgeGroup)
		assert.InDelta(t, 0.3, analysis.Confidence, 1e-9)
	}
}

func TestHeuristicPersonalityKeywords(t *testing.T) {
	assert.Equal(t, "villainous", HeuristicAnalysis("Shadowvex").PersonalityTrait)
	assert.Equal(t, "heroic", HeuristicAnalysis("Brightblade").PersonalityTrait)

	wise := HeuristicAnalysis("Merlin")
	assert.Equal(t, "wise", wise.PersonalityTrait)
	assert.Equal(t, "wise", wise.VoiceType)
}

func TestHeuristicLastMatchWins(t *testing.T) {
	// "Darkstar" matches both the villain and hero keyword lists; the hero
	// rule runs later and overwrites
	assert.Equal(t, "heroic", HeuristicAnalysis("Darkstar").PersonalityTrait)
}

func TestCategoryOverrides(t *testing.T) {
	villain := Analysis{Gender: "female", AgeGroup: "adult", PersonalityTrait: "sinister"}
	assert.Equal(t, CategoryVillain, categoryFor(villain))

	mentor := Analysis{Gender: "male", AgeGroup: "adult", PersonalityTrait: "mentor"}
	assert.Equal(t, CategoryElder, categoryFor(mentor))

	child := Analysis{Gender: "female", AgeGroup: "child", PersonalityTrait: "neutral"}
	assert.Equal(t, CategoryChild, categoryFor(child))

	unknown := Analysis{Gender: "unknown", AgeGroup: "unknown", PersonalityTrait: "neutral"}
	assert.Equal(t, CategoryMale, categoryFor(unknown))
}

func TestParseAnalysisDefaultsMissingFields(t *testing.T) {
	analysis, err := parseAnalysis(`{"gender": "female", "confidence": 0.8}`)

	require.NoError(t, err)
	assert.Equal(t, "female", analysis.Gender)
	assert.Equal(t, "unknown", analysis.AgeGroup)
	assert.Equal(t, "unknown", analysis.PersonalityTrait)
	assert.InDelta(t, 0.8, analysis.Confidence, 1e-9)
}

func TestParseAnalysisStripsCodeFence(t *testing.T) {
	analysis, err := parseAnalysis("```json\n{\"gender\": \"male\"}\n```")

	require.NoError(t, err)
	assert.Equal(t, "male", analysis.Gender)
}

func TestParseAnalysisRejectsGarbage(t *testing.T) {
	_, err := parseAnalysis("I think Kael is probably male.")
	assert.Error(t, err)
}
