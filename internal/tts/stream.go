package tts

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dooshek/storyteller/internal/logger"
	"github.com/dooshek/storyteller/internal/retry"
	"github.com/gorilla/websocket"
)

// StreamClient dials the persistent synthesis channel. One channel serves a
// whole story; each segment runs as its own task on the channel so the voice
// can change between segments.
type StreamClient struct {
	apiKey string
	wsURL  string
	model  string
	audio  AudioSetting
	dialer *websocket.Dialer
}

// NewStreamClient creates a client for the websocket synthesis endpoint
func NewStreamClient(apiKey, wsURL, model string, audio AudioSetting) *StreamClient {
	return &StreamClient{
		apiKey: apiKey,
		wsURL:  wsURL,
		model:  model,
		audio:  audio,
		dialer: websocket.DefaultDialer,
	}
}

// Stream is an open synthesis channel. It is owned by a single goroutine;
// segments are synthesized strictly in order.
type Stream struct {
	conn  *websocket.Conn
	model string
	audio AudioSetting
}

type streamFrame struct {
	Event        string        `json:"event"`
	Model        string        `json:"model,omitempty"`
	Text         string        `json:"text,omitempty"`
	VoiceSetting *VoiceSetting `json:"voice_setting,omitempty"`
	AudioSetting *AudioSetting `json:"audio_setting,omitempty"`
}

type streamEvent struct {
	Event   string `json:"event"`
	IsFinal bool   `json:"is_final"`
	Data    struct {
		Audio string `json:"audio"`
	} `json:"data"`
	BaseResp struct {
		StatusCode int    `json:"status_code"`
		StatusMsg  string `json:"status_msg"`
	} `json:"base_resp"`
}

// Open dials the channel and waits for the server handshake
func (c *StreamClient) Open(ctx context.Context) (*Stream, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.apiKey)

	conn, _, err := c.dialer.DialContext(ctx, c.wsURL, header)
	if err != nil {
		return nil, fmt.Errorf("failed to dial synthesis channel: %w", err)
	}

	stream := &Stream{conn: conn, model: c.model, audio: c.audio}

	event, err := stream.readEvent()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if event.Event != "connected_success" {
		_ = conn.Close()
		return nil, fmt.Errorf("unexpected handshake event %q", event.Event)
	}

	logger.Debug("Synthesis channel connected")
	return stream, nil
}

// Speak runs one synthesis task for text with the given voice and returns
// the complete decoded audio for the segment.
func (s *Stream) Speak(ctx context.Context, text string, voice VoiceSetting) ([]byte, error) {
	start := streamFrame{
		Event:        "task_start",
		Model:        s.model,
		VoiceSetting: &voice,
		AudioSetting: &s.audio,
	}
	if err := s.writeFrame(start); err != nil {
		return nil, err
	}

	event, err := s.readEvent()
	if err != nil {
		return nil, err
	}
	if event.Event != "task_started" {
		return nil, mapTaskError(event)
	}

	if err := s.writeFrame(streamFrame{Event: "task_continue", Text: text}); err != nil {
		return nil, err
	}

	var audio []byte
	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		event, err := s.readEvent()
		if err != nil {
			return nil, err
		}

		switch event.Event {
		case "task_continued":
			if event.Data.Audio != "" {
				chunk, err := hex.DecodeString(event.Data.Audio)
				if err != nil {
					return nil, fmt.Errorf("%w: %v", ErrAudioDecode, err)
				}
				audio = append(audio, chunk...)
			}
			if event.IsFinal {
				logger.Debugf("Streamed %d bytes of audio", len(audio))
				return audio, nil
			}
		case "task_failed":
			return nil, mapTaskError(event)
		default:
			// interleaved status frames are expected, keep reading
		}
	}
}

// Close finishes the current task and tears down the channel
func (s *Stream) Close() error {
	if err := s.writeFrame(streamFrame{Event: "task_finish"}); err != nil {
		_ = s.conn.Close()
		return err
	}

	// Drain until the server acknowledges or the connection drops
	for {
		event, err := s.readEvent()
		if err != nil {
			break
		}
		if event.Event == "task_finished" || event.Event == "task_failed" {
			break
		}
	}

	return s.conn.Close()
}

func (s *Stream) writeFrame(frame streamFrame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("failed to encode %s frame: %w", frame.Event, err)
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to send %s frame: %w", frame.Event, err)
	}
	return nil
}

func (s *Stream) readEvent() (streamEvent, error) {
	var event streamEvent
	_, data, err := s.conn.ReadMessage()
	if err != nil {
		return event, fmt.Errorf("synthesis channel read failed: %w", err)
	}
	if err := json.Unmarshal(data, &event); err != nil {
		return event, fmt.Errorf("failed to decode channel event: %w", err)
	}
	return event, nil
}

func mapTaskError(event streamEvent) error {
	msg := event.BaseResp.StatusMsg
	if msg == "" {
		msg = fmt.Sprintf("unexpected event %q", event.Event)
	}
	if strings.Contains(strings.ToLower(msg), "rate limit") {
		return fmt.Errorf("speech synthesis: %w", retry.ErrThrottled)
	}
	return fmt.Errorf("synthesis task failed: %s", msg)
}
