package voice

import (
	"context"
	"fmt"
	"strings"

	"github.com/dooshek/storyteller/internal/logger"
	"github.com/dooshek/storyteller/internal/story"
)

// Resolver maps speaker names to stable voice profiles. Resolution is
// idempotent per resolver: the first lookup of a name classifies it and
// assigns a voice, every later lookup returns the identical profile. The
// resolver is owned by one orchestrator and is not safe for concurrent use.
type Resolver struct {
	classifier Classifier
	cache      map[string]story.Character
	nextIndex  map[Category]int
}

// NewResolver creates a resolver backed by the given classifier
func NewResolver(classifier Classifier) *Resolver {
	return &Resolver{
		classifier: classifier,
		cache:      make(map[string]story.Character),
		nextIndex:  make(map[Category]int),
	}
}

// Preset seeds the cache with pre-built characters so their chosen voices
// survive resolution. Names are matched case-insensitively.
func (r *Resolver) Preset(characters ...story.Character) {
	for _, c := range characters {
		r.cache[strings.ToLower(c.Name)] = c
	}
}

// Resolve returns the voice profile for a speaker name. It never fails:
// classifier errors degrade to the local heuristic.
func (r *Resolver) Resolve(ctx context.Context, name string) story.Character {
	key := strings.ToLower(name)
	if cached, ok := r.cache[key]; ok {
		return cached
	}

	analysis, err := r.classifier.Classify(ctx, name)
	if err != nil {
		logger.Debugf("Classifier unavailable for %q, using heuristic: %v", name, err)
		analysis = HeuristicAnalysis(name)
	}

	category := categoryFor(analysis)
	voiceID := r.nextVoice(category)

	character := story.Character{
		Name: name,
		Description: fmt.Sprintf("AI-generated character with %s voice, %s age group, %s personality",
			analysis.Gender, analysis.AgeGroup, analysis.PersonalityTrait),
		VoiceID: voiceID,
		Speed:   1.0,
		Volume:  1.0,
		Pitch:   0.0,
		Emotion: "neutral",
	}

	r.cache[key] = character
	logger.Debugf("Assigned voice %s (%s) to %q", voiceID, category, name)
	return character
}

// nextVoice advances the category's cyclic index, so the pool is exhausted
// before any voice repeats
func (r *Resolver) nextVoice(category Category) string {
	pool := pools[category]
	if len(pool) == 0 {
		pool = pools[CategoryMale]
	}

	idx := r.nextIndex[category]
	r.nextIndex[category] = idx + 1
	return pool[idx%len(pool)]
}
