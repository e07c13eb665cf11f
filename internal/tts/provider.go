package tts

import (
	"context"
	"errors"
)

var (
	// ErrMalformed indicates the API response carried no audio payload
	ErrMalformed = errors.New("malformed synthesis response")

	// ErrAudioDecode indicates the audio payload was not valid hex
	ErrAudioDecode = errors.New("audio payload is not valid hex")
)

// VoiceSetting selects a voice and its rendering parameters. Speed, Vol and
// Pitch are integer percentages, so a 1.0 multiplier is sent as 100.
type VoiceSetting struct {
	VoiceID string `json:"voice_id"`
	Speed   int    `json:"speed"`
	Vol     int    `json:"vol"`
	Pitch   int    `json:"pitch"`
}

// AudioSetting describes the requested output encoding
type AudioSetting struct {
	SampleRate int    `json:"sample_rate"`
	Bitrate    int    `json:"bitrate"`
	Format     string `json:"format"`
	Channel    int    `json:"channel"`
}

// Synthesizer defines the interface for text-to-speech backends
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice VoiceSetting) ([]byte, error)
}
