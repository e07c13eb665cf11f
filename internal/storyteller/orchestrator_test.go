package storyteller

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/dooshek/storyteller/internal/fileops"
	"github.com/dooshek/storyteller/internal/llm"
	"github.com/dooshek/storyteller/internal/ratelimit"
	"github.com/dooshek/storyteller/internal/retry"
	"github.com/dooshek/storyteller/internal/story"
	"github.com/dooshek/storyteller/internal/tts"
	"github.com/dooshek/storyteller/internal/types"
	"github.com/dooshek/storyteller/internal/usage"
	"github.com/dooshek/storyteller/internal/voice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time        { return c.now }
func (c *testClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

type noSleep struct{}

func (noSleep) Sleep(time.Duration) {}

// fakeProvider scripts completion responses per call
type fakeProvider struct {
	results []llm.CompletionResult
	errs    []error
	calls   int
}

func (f *fakeProvider) Completion(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResult, error) {
	i := f.calls
	f.calls++
	var result llm.CompletionResult
	if i < len(f.results) {
		result = f.results[i]
	}
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return result, err
}

// fakeSynth fails for texts listed in failOn
type fakeSynth struct {
	failOn map[string]error
	calls  []string
}

func (f *fakeSynth) Synthesize(ctx context.Context, text string, voice tts.VoiceSetting) ([]byte, error) {
	f.calls = append(f.calls, text)
	if err, ok := f.failOn[text]; ok {
		return nil, err
	}
	return []byte("audio:" + text), nil
}

// memFileOps keeps everything in memory
type memFileOps struct {
	audio   map[string][]byte
	scripts map[string]string
}

func newMemFileOps() *memFileOps {
	return &memFileOps{audio: make(map[string][]byte), scripts: make(map[string]string)}
}

func (m *memFileOps) GetConfigDir() string                   { return "/tmp/storyteller-test" }
func (m *memFileOps) SaveConfig(string, []byte) error        { return nil }
func (m *memFileOps) LoadConfig(string) ([]byte, error)      { return nil, fileops.ErrConfigNotFound }
func (m *memFileOps) EnsureDir(string) error                 { return nil }
func (m *memFileOps) CleanupGenerated(string) (int, error)   { return 0, nil }
func (m *memFileOps) WriteScript(path, content string) error { m.scripts[path] = content; return nil }

func (m *memFileOps) SaveAudio(dir, filename string, data []byte) (string, error) {
	path := filepath.Join(dir, filename)
	m.audio[path] = data
	return path, nil
}

type fixedClassifier struct{ analysis voice.Analysis }

func (f fixedClassifier) Classify(ctx context.Context, name string) (voice.Analysis, error) {
	return f.analysis, nil
}

func newTestOrchestrator(provider llm.Provider, synth tts.Synthesizer) (*Orchestrator, *memFileOps, *usage.Tracker) {
	cfg := &types.Config{}
	tracker := usage.NewTracker()
	files := newMemFileOps()
	clock := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

	classifier := fixedClassifier{analysis: voice.Analysis{
		Gender: "male", AgeGroup: "adult", PersonalityTrait: "neutral",
	}}

	o := &Orchestrator{
		chatCfg:    cfg.GetChatConfig(),
		ttsCfg:     cfg.GetTTSConfig(),
		outCfg:     cfg.GetOutputConfig(),
		provider:   provider,
		synth:      synth,
		ttsLimiter: ratelimit.NewWithClock(50, clock),
		ttsPolicy:  retry.NewWithSleeper(1, time.Minute, noSleep{}),
		tracker:    tracker,
		resolver:   voice.NewResolver(classifier),
		fileOps:    files,
		now:        func() time.Time { return clock.now },
	}
	return o, files, tracker
}

func TestGenerateStorySuccess(t *testing.T) {
	provider := &fakeProvider{
		results: []llm.CompletionResult{{
			Content: "Narrator: The sun rose.\nKael: Onward!",
			Usage:   llm.Usage{PromptTokens: 100, CompletionTokens: 50},
		}},
	}
	o, _, _ := newTestOrchestrator(provider, &fakeSynth{})
	o.AddCharacters(story.Character{Name: "Hero", VoiceID: "v1", Speed: 1, Volume: 1})

	text, err := o.GenerateStory(context.Background(), "fantasy", "courage", "medium")

	require.NoError(t, err)
	assert.Contains(t, text, "Kael: Onward!")
	assert.Equal(t, 1, provider.calls)
}

func TestGenerateStoryTokenLimit(t *testing.T) {
	provider := &fakeProvider{errs: []error{llm.ErrTokenLimit}}
	o, _, _ := newTestOrchestrator(provider, &fakeSynth{})

	_, err := o.GenerateStory(context.Background(), "fantasy", "courage", "medium")

	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrTokenLimit)
}

func TestSynthesizeAllPartialFailure(t *testing.T) {
	synth := &fakeSynth{failOn: map[string]error{
		"Second line.": errors.New("connection reset"),
	}}
	o, files, _ := newTestOrchestrator(&fakeProvider{}, synth)

	o.ParseSegments(context.Background(),
		"Kael: First line.\nElara: Second line.\nVoryn: Third line.")

	succeeded, err := o.SynthesizeAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, succeeded)
	assert.Len(t, synth.calls, 3, "a failing segment must not stop the rest")

	segments := o.Segments()
	require.Len(t, segments, 3)
	assert.NotEmpty(t, segments[0].AudioFile)
	assert.Empty(t, segments[1].AudioFile, "failed segment has no audio artifact")
	assert.NotEmpty(t, segments[2].AudioFile)
	assert.Len(t, files.audio, 2)
}

func TestSynthesizeAllWithoutSegments(t *testing.T) {
	o, _, _ := newTestOrchestrator(&fakeProvider{}, &fakeSynth{})

	_, err := o.SynthesizeAll(context.Background())
	assert.Error(t, err)
}

func TestSynthesizeAllFilenames(t *testing.T) {
	o, files, _ := newTestOrchestrator(&fakeProvider{}, &fakeSynth{})

	o.ParseSegments(context.Background(), "Kael: Hello.")
	_, err := o.SynthesizeAll(context.Background())
	require.NoError(t, err)

	require.Len(t, files.audio, 1)
	for path := range files.audio {
		assert.Equal(t, "audio_output", filepath.Dir(path))
		base := filepath.Base(path)
		assert.Regexp(t, `^Kael_\d+\.mp3$`, base)
	}
}

func TestParseSegmentsUsesPresetCast(t *testing.T) {
	o, _, _ := newTestOrchestrator(&fakeProvider{}, &fakeSynth{})

	merlin := story.Character{Name: "Merlin", VoiceID: "English_WiseScholar", Speed: 0.9, Volume: 1}
	o.AddCharacters(merlin)

	segments := o.ParseSegments(context.Background(), "merlin: Listen closely.")

	require.Len(t, segments, 1)
	assert.Equal(t, merlin, segments[0].Character)
}

func TestWriteScript(t *testing.T) {
	o, files, _ := newTestOrchestrator(&fakeProvider{}, &fakeSynth{})

	o.ParseSegments(context.Background(), "Kael: Hello.\nnarration only")
	require.NoError(t, o.WriteScript())

	content := files.scripts["story_script.txt"]
	assert.Contains(t, content, "STORY SCRIPT")
	assert.Contains(t, content, "Segment 1:\nCharacter: Kael\n")
	assert.Contains(t, content, "Text: Hello.\n")
	assert.Contains(t, content, "Segment 2:\nCharacter: Narrator\n")
	assert.NotContains(t, content, "Audio:", "unsynthesized segments carry no audio line")
}

func TestPacedProviderRecordsUsage(t *testing.T) {
	inner := &fakeProvider{
		results: []llm.CompletionResult{{
			Content: "story",
			Usage:   llm.Usage{PromptTokens: 1000, CompletionTokens: 500},
		}},
	}
	tracker := usage.NewTracker()
	clock := &testClock{now: time.Now()}

	paced := &pacedProvider{
		inner:   inner,
		limiter: ratelimit.NewWithClock(100, clock),
		policy:  retry.NewWithSleeper(1, time.Minute, noSleep{}),
		tracker: tracker,
	}

	_, err := paced.Completion(context.Background(), llm.CompletionRequest{Model: "MiniMax-M1"})
	require.NoError(t, err)

	summary := tracker.Summarize()
	assert.Equal(t, 1, summary.TotalCalls)
	assert.Equal(t, 1500, summary.TotalUnits)
	// 1000/1e6*0.4 + 500/1e6*2.2
	assert.InDelta(t, 0.0000026, summary.EstimatedCostUS, 1e-12)
}

func TestPacedProviderRetriesOnThrottle(t *testing.T) {
	inner := &fakeProvider{
		errs: []error{
			fmt.Errorf("chat completion: %w", retry.ErrThrottled),
			nil,
		},
		results: []llm.CompletionResult{{}, {Content: "second try"}},
	}
	clock := &testClock{now: time.Now()}

	paced := &pacedProvider{
		inner:   inner,
		limiter: ratelimit.NewWithClock(100, clock),
		policy:  retry.NewWithSleeper(1, time.Minute, noSleep{}),
		tracker: usage.NewTracker(),
	}

	result, err := paced.Completion(context.Background(), llm.CompletionRequest{Model: "MiniMax-M1"})

	require.NoError(t, err)
	assert.Equal(t, "second try", result.Content)
	assert.Equal(t, 2, inner.calls)
}

func TestPacedSynthesizerRecordsCharacters(t *testing.T) {
	tracker := usage.NewTracker()
	clock := &testClock{now: time.Now()}

	paced := &pacedSynthesizer{
		inner:   &fakeSynth{},
		model:   "speech-02-hd",
		limiter: ratelimit.NewWithClock(50, clock),
		policy:  retry.NewWithSleeper(1, time.Minute, noSleep{}),
		tracker: tracker,
	}

	text := "Hello there, traveler."
	_, err := paced.Synthesize(context.Background(), text, tts.VoiceSetting{VoiceID: "v"})
	require.NoError(t, err)

	summary := tracker.Summarize()
	breakdown := summary.Models["speech-02-hd"]
	assert.Equal(t, len(text), breakdown.OutputUnits)
	assert.InDelta(t, float64(len(text))*0.0001, summary.EstimatedCostUS, 1e-12)
}

func TestVoiceSettingConversion(t *testing.T) {
	setting := voiceSettingFor(story.Character{
		VoiceID: "English_ManWithDeepVoice",
		Speed:   0.8, Volume: 1.0, Pitch: -0.3,
	})

	assert.Equal(t, 80, setting.Speed)
	assert.Equal(t, 100, setting.Vol)
	assert.Equal(t, -30, setting.Pitch)
}
