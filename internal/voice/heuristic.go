package voice

import "strings"

// heuristicRule inspects a lowercased name and mutates the analysis when it
// matches. Rules run in order and later rules overwrite earlier ones, so the
// precedence is the slice order below. Last match wins.
type heuristicRule struct {
	matches func(name string) bool
	apply   func(a *Analysis)
}

func endsWithAny(name string, suffixes ...string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

func containsAny(name string, substrings ...string) bool {
	for _, s := range substrings {
		if strings.Contains(name, s) {
			return true
		}
	}
	return false
}

var heuristicRules = []heuristicRule{
	{
		// Vowel-ending names skew female
		matches: func(name string) bool { return endsWithAny(name, "a", "e", "i") },
		apply: func(a *Analysis) {
			a.Gender = "female"
			a.VoiceType = "feminine"
		},
	},
	{
		matches: func(name string) bool { return endsWithAny(name, "o", "u", "n", "r") },
		apply: func(a *Analysis) {
			a.Gender = "male"
			a.VoiceType = "masculine"
		},
	},
	{
		matches: func(name string) bool {
			return containsAny(name, "shadow", "dark", "grim", "vex", "mal")
		},
		apply: func(a *Analysis) { a.PersonalityTrait = "villainous" },
	},
	{
		matches: func(name string) bool {
			return containsAny(name, "light", "bright", "sun", "star")
		},
		apply: func(a *Analysis) { a.PersonalityTrait = "heroic" },
	},
	{
		matches: func(name string) bool {
			return containsAny(name, "wise", "sage", "elder", "merlin")
		},
		apply: func(a *Analysis) {
			a.PersonalityTrait = "wise"
			a.VoiceType = "wise"
		},
	},
}

// HeuristicAnalysis classifies a name locally from spelling patterns. It is
// the fallback when the remote classifier is unavailable, so confidence is
// deliberately low.
func HeuristicAnalysis(name string) Analysis {
	analysis := Analysis{
		Gender:           "unknown",
		AgeGroup:         "adult",
		PersonalityTrait: "neutral",
		VoiceType:        "neutral",
		Confidence:       0.3,
	}

	lower := strings.ToLower(name)
	for _, rule := range heuristicRules {
		if rule.matches(lower) {
			rule.apply(&analysis)
		}
	}

	return analysis
}
