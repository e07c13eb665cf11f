package story

import (
	"fmt"
	"strings"
)

// SystemPrompt primes the model for character driven storytelling
const SystemPrompt = "You are a master storyteller who creates emotionally engaging, " +
	"character-driven stories with deep plots, memorable characters, and meaningful growth. " +
	"Your stories make readers care deeply about the characters and their journeys."

// BuildPrompt assembles the story generation prompt. The formatting rules
// block is what makes the output machine-parseable, so it stays verbatim in
// every prompt regardless of genre or theme.
func BuildPrompt(genre, genreDescription, theme string, characters []string, length string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create an emotionally engaging %s story with the theme of %q.\n\n", genre, theme)
	if genreDescription != "" {
		fmt.Fprintf(&b, "Genre: %s\n\n", genreDescription)
	}
	fmt.Fprintf(&b, "Characters to include: %s\n\n", strings.Join(characters, ", "))

	b.WriteString(`Story Requirements:
- Give each character a memorable, realistic name that fits their personality
- Create emotional depth and character development
- Include meaningful dialogue that reveals character traits
- Build tension and conflict that drives the plot
- Create moments of vulnerability and growth
- End with a satisfying resolution that shows character growth
- Make readers care about what happens to the characters
- Include vivid descriptions that bring the world to life

`)
	fmt.Fprintf(&b, "Length: %s\n\n", length)

	b.WriteString(`**CRITICAL FORMATTING RULES:**
- Each line must start with the character's name followed by a colon and a space
- Give characters realistic names (like "Kael", "Elara", "Marcus", "Luna", etc.)
- Use "Narrator" for narrative descriptions
- Do NOT use parentheses, stage directions, or any formatting
- Do NOT embed dialogue inside narration
- Do NOT use bold, italics, or markdown
- Example format:
Narrator: The sun rose over the valley.
Kael: I must find the ancient treasure!
Elara: Be careful, Kael!
Voryn: The treasure belongs to me!

Make this a compelling story that readers will remember and care about. Focus on character relationships, emotional stakes, and meaningful growth. Give each character a distinct voice and personality that comes through in their dialogue.`)

	return b.String()
}
