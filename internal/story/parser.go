package story

import (
	"strings"

	"github.com/dooshek/storyteller/internal/logger"
)

// NarratorName is the speaker attributed to lines without a dialogue label
const NarratorName = "Narrator"

// ParseSegments converts raw story text into ordered segments. Each non-blank
// line is either "Speaker: text" dialogue or plain narration. Parenthetical
// stage directions after the speaker label are stripped. A line with a colon
// but nothing before it keeps its empty label and is resolved like any other
// speaker, so resolvers see it verbatim.
func ParseSegments(text string, resolve func(name string) Character) []Segment {
	lines := strings.Split(text, "\n")
	segments := make([]Segment, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		name := NarratorName
		content := line

		if idx := strings.Index(line, ":"); idx >= 0 {
			label := strings.TrimSpace(line[:idx])
			// Drop stage directions like "Kael (whispering)"
			if paren := strings.Index(label, "("); paren >= 0 {
				label = strings.TrimSpace(label[:paren])
			}
			name = label
			content = strings.TrimSpace(line[idx+1:])
		}

		segments = append(segments, Segment{
			Character: resolve(name),
			Text:      content,
		})
	}

	logger.Debugf("Parsed %d segments from %d lines", len(segments), len(lines))
	return segments
}
