package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dooshek/storyteller/internal/story"
)

// voiceAliases maps friendly voice names to platform voice identifiers
var voiceAliases = map[string]string{
	"wise_woman":    "English_Wiselady",
	"young_female":  "English_radiant_girl",
	"mature_female": "English_CalmWoman",
	"young_male":    "English_ReservedYoungMan",
	"mature_male":   "English_Trustworth_Man",
	"deep_male":     "English_ManWithDeepVoice",
	"villain":       "English_ManWithDeepVoice",
	"narrator":      "English_expressive_narrator",
	"child":         "English_PlayfulGirl",
	"elder":         "English_WiseScholar",
}

// characterTemplates are the predefined cast archetypes
var characterTemplates = map[string]story.Character{
	"hero": {
		Name:        "Hero",
		Description: "A courageous protagonist with a heart of gold, facing inner doubts and external challenges with determination and growth",
		VoiceID:     "English_magnetic_voiced_man",
		Speed:       1.0, Volume: 1.0, Pitch: 0.0,
		Emotion: "brave",
	},
	"villain": {
		Name:        "Villain",
		Description: "A complex antagonist with layers of motivation, not purely evil but driven by pain, fear, or misguided beliefs",
		VoiceID:     "English_ManWithDeepVoice",
		Speed:       0.8, Volume: 1.0, Pitch: -0.3,
		Emotion: "sinister",
	},
	"friend": {
		Name:        "Friend",
		Description: "A loyal companion who provides emotional support, wisdom, and sometimes tough love when needed",
		VoiceID:     "English_radiant_girl",
		Speed:       1.1, Volume: 1.0, Pitch: 0.2,
		Emotion: "friendly",
	},
	"wizard": {
		Name:        "Wizard",
		Description: "A mysterious mentor figure with ancient wisdom, who guides others while carrying their own burdens and secrets",
		VoiceID:     "English_WiseScholar",
		Speed:       0.9, Volume: 1.0, Pitch: 0.0,
		Emotion: "wise",
	},
	"narrator": {
		Name:        "Narrator",
		Description: "A wise storyteller with a warm, engaging voice who brings the world to life with vivid descriptions",
		VoiceID:     "English_expressive_narrator",
		Speed:       1.0, Volume: 1.0, Pitch: 0.0,
		Emotion: "calm",
	},
	"princess": {
		Name:        "Princess",
		Description: "A strong-willed royal with hidden depths, balancing duty with personal desires and inner strength",
		VoiceID:     "English_Graceful_Lady",
		Speed:       1.0, Volume: 1.0, Pitch: 0.1,
		Emotion: "noble",
	},
	"knight": {
		Name:        "Knight",
		Description: "A honorable warrior bound by duty, struggling with the weight of responsibility and personal honor",
		VoiceID:     "English_Trustworth_Man",
		Speed:       1.0, Volume: 1.0, Pitch: 0.1,
		Emotion: "honorable",
	},
	"dragon": {
		Name:        "Dragon",
		Description: "A powerful being with ancient wisdom, often misunderstood but capable of great kindness or destruction",
		VoiceID:     "English_ManWithDeepVoice",
		Speed:       0.7, Volume: 1.0, Pitch: -0.4,
		Emotion: "mysterious",
	},
	"detective": {
		Name:        "Detective",
		Description: "A sharp-minded investigator with a troubled past, driven by justice but haunted by personal demons",
		VoiceID:     "English_Diligent_Man",
		Speed:       0.9, Volume: 1.0, Pitch: -0.1,
		Emotion: "determined",
	},
	"elder": {
		Name:        "Elder",
		Description: "A wise figure with years of experience, offering guidance while dealing with their own mortality and regrets",
		VoiceID:     "English_WiseScholar",
		Speed:       0.8, Volume: 1.0, Pitch: -0.1,
		Emotion: "wise",
	},
	"child": {
		Name:        "Child",
		Description: "An innocent soul with pure heart and boundless imagination, often seeing truth that adults miss",
		VoiceID:     "English_PlayfulGirl",
		Speed:       1.3, Volume: 1.0, Pitch: 0.3,
		Emotion: "innocent",
	},
	"mentor": {
		Name:        "Mentor",
		Description: "A guiding figure who teaches through experience, balancing tough lessons with compassion and understanding",
		VoiceID:     "English_WiseScholar",
		Speed:       0.9, Volume: 1.0, Pitch: 0.0,
		Emotion: "wise",
	},
	"outcast": {
		Name:        "Outcast",
		Description: "A misunderstood soul with hidden talents, seeking acceptance while maintaining their unique identity",
		VoiceID:     "English_ReservedYoungMan",
		Speed:       1.0, Volume: 1.0, Pitch: -0.2,
		Emotion: "lonely",
	},
	"guardian": {
		Name:        "Guardian",
		Description: "A protective figure with fierce loyalty, willing to sacrifice everything for those they love",
		VoiceID:     "English_Trustworth_Man",
		Speed:       1.0, Volume: 1.0, Pitch: 0.0,
		Emotion: "protective",
	},
}

// Genre groups a description with typical cast and theme suggestions
type Genre struct {
	Description      string
	CommonCharacters []string
	Themes           []string
}

var genres = map[string]Genre{
	"fantasy": {
		Description:      "Magical worlds with mythical creatures and epic quests, where ordinary people discover extraordinary powers within themselves",
		CommonCharacters: []string{"hero", "wizard", "knight", "dragon", "princess"},
		Themes:           []string{"discovering inner strength", "friendship and loyalty", "magical transformation", "epic quest", "finding one's true identity"},
	},
	"adventure": {
		Description:      "Exciting journeys with challenges and discoveries, where characters grow through facing their fears and overcoming obstacles",
		CommonCharacters: []string{"hero", "friend", "villain", "guide"},
		Themes:           []string{"overcoming fear and doubt", "journey to unknown lands", "treasure hunting", "survival and resilience", "finding courage within"},
	},
	"mystery": {
		Description:      "Puzzling stories with clues and revelations, where characters must solve complex problems while dealing with personal demons",
		CommonCharacters: []string{"detective", "suspect", "witness", "victim"},
		Themes:           []string{"solving a crime", "hidden secrets", "uncovering the truth", "suspense and intrigue", "justice and redemption"},
	},
	"sci-fi": {
		Description:      "Futuristic stories with technology and space, exploring what it means to be human in an increasingly complex world",
		CommonCharacters: []string{"scientist", "hero", "robot", "alien"},
		Themes:           []string{"space exploration", "technological advancement", "alien contact", "time travel", "humanity and identity"},
	},
	"romance": {
		Description:      "Stories of love and relationships, where characters learn about themselves through connection with others",
		CommonCharacters: []string{"hero", "princess", "friend", "rival"},
		Themes:           []string{"finding true love", "overcoming obstacles", "second chances", "destiny", "self-discovery through love"},
	},
	"comedy": {
		Description:      "Humorous stories with funny situations, where laughter helps characters overcome challenges and find joy",
		CommonCharacters: []string{"hero", "friend", "comedian", "fool"},
		Themes:           []string{"misadventures", "funny misunderstandings", "pranks", "humor", "finding joy in chaos"},
	},
	"fairy_tale": {
		Description:      "Traditional fairy tales with magical elements, where characters learn important life lessons through magical experiences",
		CommonCharacters: []string{"princess", "knight", "wizard", "villain"},
		Themes:           []string{"magical transformation", "true love", "good vs evil", "wishes come true", "learning life lessons"},
	},
}

// CharacterFromTemplate builds a character from a named archetype. A custom
// name, if given, replaces the template name in title case.
func CharacterFromTemplate(templateName, customName string) (story.Character, error) {
	template, ok := characterTemplates[templateName]
	if !ok {
		return story.Character{}, fmt.Errorf("unknown character template: %s", templateName)
	}

	if alias, ok := voiceAliases[template.VoiceID]; ok {
		template.VoiceID = alias
	}
	if customName != "" {
		template.Name = titleCase(customName)
	}

	return template, nil
}

// GenreInfo returns the genre entry for name
func GenreInfo(name string) (Genre, error) {
	genre, ok := genres[name]
	if !ok {
		return Genre{}, fmt.Errorf("unknown genre: %s", name)
	}
	return genre, nil
}

// AvailableTemplates lists character template names in sorted order
func AvailableTemplates() []string {
	names := make([]string, 0, len(characterTemplates))
	for name := range characterTemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableGenres lists genre names in sorted order
func AvailableGenres() []string {
	names := make([]string, 0, len(genres))
	for name := range genres {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// titleCase uppercases the first letter of every space-separated word and
// lowercases the rest
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
