package storyteller

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dooshek/storyteller/internal/config"
	"github.com/dooshek/storyteller/internal/fileops"
	"github.com/dooshek/storyteller/internal/llm"
	"github.com/dooshek/storyteller/internal/logger"
	"github.com/dooshek/storyteller/internal/ratelimit"
	"github.com/dooshek/storyteller/internal/retry"
	"github.com/dooshek/storyteller/internal/story"
	"github.com/dooshek/storyteller/internal/tts"
	"github.com/dooshek/storyteller/internal/types"
	"github.com/dooshek/storyteller/internal/usage"
	"github.com/dooshek/storyteller/internal/voice"
)

// Orchestrator drives the whole pipeline: prompt, generation, segmentation,
// voice resolution and synthesis. One orchestrator serves one story at a
// time and owns all its pacing and accounting state.
type Orchestrator struct {
	chatCfg types.ChatConfig
	ttsCfg  types.TTSConfig
	outCfg  types.OutputConfig

	provider llm.Provider
	synth    tts.Synthesizer
	streamer *tts.StreamClient

	ttsLimiter *ratelimit.Limiter
	ttsPolicy  *retry.Policy
	tracker    *usage.Tracker
	resolver   *voice.Resolver
	fileOps    fileops.FileOps

	cast     []story.Character
	segments []story.Segment
	now      func() time.Time
}

// New builds an orchestrator from configuration. With useStream set,
// synthesis runs over a single persistent channel instead of one HTTP call
// per segment.
func New(cfg *types.Config, useStream bool) (*Orchestrator, error) {
	if cfg.API.Key == "" {
		return nil, fmt.Errorf("missing API key")
	}

	fileOps, err := fileops.NewDefaultFileOps()
	if err != nil {
		return nil, err
	}

	chatCfg := cfg.GetChatConfig()
	ttsCfg := cfg.GetTTSConfig()
	rateCfg := cfg.GetRateLimitConfig()

	retryDelay := time.Duration(rateCfg.RetryDelay) * time.Second
	tracker := usage.NewTracker()

	provider := &pacedProvider{
		inner:   llm.NewMiniMaxProvider(cfg.API.Key, chatCfg.BaseURL),
		limiter: ratelimit.New(rateCfg.ChatRPM),
		policy:  retry.New(rateCfg.MaxRetries, retryDelay),
		tracker: tracker,
	}

	audio := tts.AudioSetting{
		SampleRate: ttsCfg.SampleRate,
		Bitrate:    ttsCfg.Bitrate,
		Format:     ttsCfg.Format,
		Channel:    ttsCfg.Channel,
	}

	o := &Orchestrator{
		chatCfg:    chatCfg,
		ttsCfg:     ttsCfg,
		outCfg:     cfg.GetOutputConfig(),
		provider:   provider,
		ttsLimiter: ratelimit.New(rateCfg.TTSRPM),
		ttsPolicy:  retry.New(rateCfg.MaxRetries, retryDelay),
		tracker:    tracker,
		resolver:   voice.NewResolver(voice.NewLLMClassifier(provider, chatCfg.AnalysisModel)),
		fileOps:    fileOps,
		now:        time.Now,
	}

	if useStream {
		o.streamer = tts.NewStreamClient(cfg.API.Key, ttsCfg.WSURL, ttsCfg.Model, audio)
	} else {
		o.synth = &pacedSynthesizer{
			inner:   tts.NewClient(cfg.API.Key, cfg.API.GroupID, ttsCfg.BaseURL, ttsCfg.Model, audio),
			model:   ttsCfg.Model,
			limiter: o.ttsLimiter,
			policy:  o.ttsPolicy,
			tracker: tracker,
		}
	}

	// The narrator always exists so unattributed lines get a stable voice
	if narrator, err := config.CharacterFromTemplate("narrator", ""); err == nil {
		o.AddCharacters(narrator)
	}

	return o, nil
}

// AddCharacters registers pre-built characters. Their names resolve to these
// exact profiles during parsing, and their names feed the story prompt.
func (o *Orchestrator) AddCharacters(characters ...story.Character) {
	o.resolver.Preset(characters...)
	o.cast = append(o.cast, characters...)
}

// Cast returns the registered characters in registration order
func (o *Orchestrator) Cast() []story.Character {
	return o.cast
}

// GenerateStory asks the text model for a formatted story. Generation
// failures abort the story; there is nothing to synthesize without text.
func (o *Orchestrator) GenerateStory(ctx context.Context, genre, theme, length string) (string, error) {
	genreDescription := ""
	if info, err := config.GenreInfo(genre); err == nil {
		genreDescription = info.Description
	}

	names := make([]string, len(o.cast))
	for i, c := range o.cast {
		names[i] = c.Name
	}

	prompt := story.BuildPrompt(genre, genreDescription, theme, names, length)

	logger.Infof("Generating %s story about %q with %s", genre, theme, o.chatCfg.StoryModel)

	result, err := o.provider.Completion(ctx, llm.CompletionRequest{
		Model: o.chatCfg.StoryModel,
		Messages: []llm.Message{
			{Role: "system", Content: story.SystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: o.chatCfg.Temperature,
		MaxTokens:   o.chatCfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("story generation failed: %w", err)
	}

	logger.Infof("Story generated: %d characters", len(result.Content))
	return result.Content, nil
}

// ParseSegments splits the story text into attributed segments, resolving a
// voice for every speaker. The segments are kept for synthesis.
func (o *Orchestrator) ParseSegments(ctx context.Context, storyText string) []story.Segment {
	o.segments = story.ParseSegments(storyText, func(name string) story.Character {
		return o.resolver.Resolve(ctx, name)
	})
	return o.segments
}

// SynthesizeAll renders audio for every parsed segment. A failure on one
// segment is logged and skipped; the remaining segments still synthesize.
// Returns the number of segments that produced an audio file.
func (o *Orchestrator) SynthesizeAll(ctx context.Context) (int, error) {
	if len(o.segments) == 0 {
		return 0, fmt.Errorf("no segments to synthesize")
	}

	synth := o.synth
	if o.streamer != nil {
		stream, err := o.streamer.Open(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to open synthesis channel: %w", err)
		}
		defer stream.Close()

		synth = &pacedSynthesizer{
			inner:   &streamSynthesizer{stream: stream},
			model:   o.ttsCfg.Model,
			limiter: o.ttsLimiter,
			policy:  o.ttsPolicy,
			tracker: o.tracker,
		}
	}

	succeeded := 0
	for i := range o.segments {
		segment := &o.segments[i]
		logger.Infof("Synthesizing segment %d/%d (%s)", i+1, len(o.segments), segment.Character.Name)

		audio, err := synth.Synthesize(ctx, segment.Text, voiceSettingFor(segment.Character))
		if err != nil {
			logger.Error(fmt.Sprintf("Segment %d (%s) failed, continuing", i+1, segment.Character.Name), err)
			continue
		}

		filename := fmt.Sprintf("%s_%d.mp3", segment.Character.Name, o.now().Unix())
		path, err := o.fileOps.SaveAudio(o.outCfg.AudioDir, filename, audio)
		if err != nil {
			logger.Error(fmt.Sprintf("Failed to save audio for segment %d", i+1), err)
			continue
		}

		segment.AudioFile = path
		succeeded++
	}

	logger.Infof("Synthesis complete: %d/%d segments produced audio", succeeded, len(o.segments))
	return succeeded, nil
}

// Segments returns the parsed segments, with audio paths filled in for the
// ones that synthesized successfully
func (o *Orchestrator) Segments() []story.Segment {
	return o.segments
}

// WriteScript persists a segment-by-segment script with voice and audio
// file references
func (o *Orchestrator) WriteScript() error {
	if len(o.segments) == 0 {
		return fmt.Errorf("no segments to write")
	}

	var b strings.Builder
	b.WriteString("STORY SCRIPT\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	for i, segment := range o.segments {
		name := segment.Character.Name
		if name == "" {
			name = story.NarratorName
		}
		fmt.Fprintf(&b, "Segment %d:\n", i+1)
		fmt.Fprintf(&b, "Character: %s\n", name)
		fmt.Fprintf(&b, "Voice: %s\n", segment.Character.VoiceID)
		fmt.Fprintf(&b, "Text: %s\n", segment.Text)
		if segment.AudioFile != "" {
			fmt.Fprintf(&b, "Audio: %s\n", segment.AudioFile)
		}
		b.WriteString(strings.Repeat("-", 30) + "\n\n")
	}

	return o.fileOps.WriteScript(o.outCfg.ScriptFile, b.String())
}

// UsageSummary reports accumulated API usage and estimated cost
func (o *Orchestrator) UsageSummary() usage.Summary {
	return o.tracker.Summarize()
}

// streamSynthesizer adapts an open synthesis channel to the Synthesizer
// interface so the pacing wrapper applies to streamed segments too
type streamSynthesizer struct {
	stream *tts.Stream
}

func (s *streamSynthesizer) Synthesize(ctx context.Context, text string, voice tts.VoiceSetting) ([]byte, error) {
	return s.stream.Speak(ctx, text, voice)
}

// voiceSettingFor converts a character's multipliers to the integer percent
// encoding the synthesis API expects
func voiceSettingFor(c story.Character) tts.VoiceSetting {
	return tts.VoiceSetting{
		VoiceID: c.VoiceID,
		Speed:   int(c.Speed * 100),
		Vol:     int(c.Volume * 100),
		Pitch:   int(c.Pitch * 100),
	}
}
