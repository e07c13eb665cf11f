package story

// Character is an immutable voice profile for one speaker. Speed and Volume
// are multipliers around 1.0, Pitch is an offset around 0.0.
type Character struct {
	Name        string
	Description string
	VoiceID     string
	Speed       float64
	Volume      float64
	Pitch       float64
	Emotion     string
}

// Segment is one attributed unit of story text in document order. AudioFile
// is set at most once, after synthesis succeeds.
type Segment struct {
	Character Character
	Text      string
	AudioFile string
}
