package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Voice describes one voice available on the platform
type Voice struct {
	VoiceID     string   `json:"voice_id"`
	VoiceName   string   `json:"voice_name"`
	Description []string `json:"description"`
}

type voiceListResponse struct {
	SystemVoice  []Voice `json:"system_voice"`
	VoiceCloning []Voice `json:"voice_cloning"`
}

// ListVoices queries the platform for available voices. voiceType is one of
// "system", "voice_cloning" or "all".
func (c *Client) ListVoices(ctx context.Context, voiceType string) ([]Voice, error) {
	if voiceType == "" {
		voiceType = "all"
	}

	body, err := json.Marshal(map[string]string{"voice_type": voiceType})
	if err != nil {
		return nil, fmt.Errorf("failed to encode voice query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/get_voice", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build voice query: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("voice query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("voice query returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read voice query response: %w", err)
	}

	var result voiceListResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode voice query response: %w", err)
	}

	voices := append([]Voice{}, result.SystemVoice...)
	voices = append(voices, result.VoiceCloning...)
	return voices, nil
}
