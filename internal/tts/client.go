package tts

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dooshek/storyteller/internal/logger"
	"github.com/dooshek/storyteller/internal/retry"
)

// Client implements Synthesizer against the MiniMax one-shot t2a_v2 endpoint
type Client struct {
	apiKey     string
	groupID    string
	baseURL    string
	model      string
	audio      AudioSetting
	httpClient *http.Client
}

// NewClient creates a synthesis client. The group ID is passed as a query
// parameter on every request.
func NewClient(apiKey, groupID, baseURL, model string, audio AudioSetting) *Client {
	return &Client{
		apiKey:     apiKey,
		groupID:    groupID,
		baseURL:    baseURL,
		model:      model,
		audio:      audio,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type synthesisRequest struct {
	Model        string       `json:"model"`
	Text         string       `json:"text"`
	Stream       bool         `json:"stream"`
	VoiceSetting VoiceSetting `json:"voice_setting"`
	AudioSetting AudioSetting `json:"audio_setting"`
}

type synthesisResponse struct {
	Data struct {
		Audio string `json:"audio"`
	} `json:"data"`
	BaseResp struct {
		StatusCode int    `json:"status_code"`
		StatusMsg  string `json:"status_msg"`
	} `json:"base_resp"`
}

// Synthesize renders text with the given voice and returns the decoded audio
func (c *Client) Synthesize(ctx context.Context, text string, voice VoiceSetting) ([]byte, error) {
	payload := synthesisRequest{
		Model:        c.model,
		Text:         text,
		Stream:       false,
		VoiceSetting: voice,
		AudioSetting: c.audio,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode synthesis request: %w", err)
	}

	url := fmt.Sprintf("%s/t2a_v2?GroupId=%s", c.baseURL, c.groupID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build synthesis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	logger.Debugf("Synthesizing %d characters with voice %s", len(text), voice.VoiceID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("speech synthesis: %w", retry.ErrThrottled)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("synthesis request returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesis response: %w", err)
	}

	var result synthesisResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode synthesis response: %w", err)
	}
	if result.Data.Audio == "" {
		if result.BaseResp.StatusMsg != "" {
			return nil, fmt.Errorf("%w: %s", ErrMalformed, result.BaseResp.StatusMsg)
		}
		return nil, ErrMalformed
	}

	audio, err := hex.DecodeString(result.Data.Audio)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAudioDecode, err)
	}

	logger.Debugf("Received %d bytes of audio", len(audio))
	return audio, nil
}
