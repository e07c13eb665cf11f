package types

// APIConfig holds MiniMax API credentials
type APIConfig struct {
	Key     string `yaml:"api_key"`  // MiniMax API key (bearer token)
	GroupID string `yaml:"group_id"` // routing/group identifier required by the TTS endpoint
}

// ChatConfig holds chat completion settings
type ChatConfig struct {
	BaseURL       string  `yaml:"base_url"`       // OpenAI-compatible API base URL
	StoryModel    string  `yaml:"story_model"`    // model for creative story generation
	AnalysisModel string  `yaml:"analysis_model"` // faster, cheaper model for name analysis
	Temperature   float32 `yaml:"temperature"`    // sampling temperature for story generation
	MaxTokens     int     `yaml:"max_tokens"`     // completion token cap for story generation
}

// TTSConfig holds text-to-speech settings
type TTSConfig struct {
	BaseURL    string `yaml:"base_url"`    // REST API base URL
	WSURL      string `yaml:"ws_url"`      // websocket endpoint for streaming synthesis
	Model      string `yaml:"model"`       // "speech-02-hd" or "speech-02-turbo"
	SampleRate int    `yaml:"sample_rate"` // output sample rate in Hz
	Bitrate    int    `yaml:"bitrate"`     // output bitrate in bps
	Format     string `yaml:"format"`      // "mp3", "wav", "pcm"
	Channel    int    `yaml:"channel"`     // 1 for mono, 2 for stereo
}

// RateLimitConfig holds client-side pacing settings
type RateLimitConfig struct {
	ChatRPM    int `yaml:"chat_rpm"`    // requests per minute for chat completion (max 120)
	TTSRPM     int `yaml:"tts_rpm"`     // requests per minute for TTS (max 60)
	RetryDelay int `yaml:"retry_delay"` // seconds to wait before retry on rate limit
	MaxRetries int `yaml:"max_retries"` // maximum number of retries on rate limit
}

// OutputConfig holds generated file locations
type OutputConfig struct {
	AudioDir   string `yaml:"audio_dir"`   // directory for per-segment audio files
	ScriptFile string `yaml:"script_file"` // story script file path
}

type Config struct {
	API       APIConfig       `yaml:"api"`
	Chat      ChatConfig      `yaml:"chat"`
	TTS       TTSConfig       `yaml:"tts"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Output    OutputConfig    `yaml:"output"`
}

// GetChatConfig returns chat configuration with defaults
func (c *Config) GetChatConfig() ChatConfig {
	config := c.Chat

	if config.BaseURL == "" {
		config.BaseURL = "https://api.minimax.io/v1"
	}
	if config.StoryModel == "" {
		config.StoryModel = "MiniMax-M1"
	}
	if config.AnalysisModel == "" {
		config.AnalysisModel = "MiniMax-Text-01"
	}
	if config.Temperature == 0 {
		config.Temperature = 0.8
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 8000
	}

	return config
}

// GetTTSConfig returns TTS configuration with defaults
func (c *Config) GetTTSConfig() TTSConfig {
	config := c.TTS

	if config.BaseURL == "" {
		config.BaseURL = "https://api.minimax.io/v1"
	}
	if config.WSURL == "" {
		config.WSURL = "wss://api.minimax.io/ws/v1/t2a_v2"
	}
	if config.Model == "" {
		config.Model = "speech-02-hd"
	}
	if config.SampleRate == 0 {
		config.SampleRate = 32000
	}
	if config.Bitrate == 0 {
		config.Bitrate = 128000
	}
	if config.Format == "" {
		config.Format = "mp3"
	}
	if config.Channel == 0 {
		config.Channel = 1
	}

	return config
}

// GetRateLimitConfig returns rate limit configuration with defaults
func (c *Config) GetRateLimitConfig() RateLimitConfig {
	config := c.RateLimit

	if config.ChatRPM == 0 {
		config.ChatRPM = 100
	}
	if config.TTSRPM == 0 {
		config.TTSRPM = 50
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = 60
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 1
	}

	return config
}

// GetOutputConfig returns output configuration with defaults
func (c *Config) GetOutputConfig() OutputConfig {
	config := c.Output

	if config.AudioDir == "" {
		config.AudioDir = "audio_output"
	}
	if config.ScriptFile == "" {
		config.ScriptFile = "story_script.txt"
	}

	return config
}
