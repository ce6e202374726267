package ai

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rahul-raghavan/pep-ops-log/internal/shared/config"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
)

// WhisperTranscriber converts audio recordings to text through an
// OpenAI-compatible transcription endpoint.
type WhisperTranscriber struct {
	client *resty.Client
	model  string
	logger logger.Interface
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

type transcriptionErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewWhisperTranscriber creates a new WhisperTranscriber
func NewWhisperTranscriber(cfg *config.TranscriptionConfig, logger logger.Interface) *WhisperTranscriber {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.TimeoutSecs) * time.Second).
		SetAuthToken(cfg.APIKey)

	return &WhisperTranscriber{
		client: client,
		model:  cfg.Model,
		logger: logger,
	}
}

// Transcribe sends the audio bytes for speech-to-text conversion and
// returns the raw transcript.
func (t *WhisperTranscriber) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	var result transcriptionResponse
	var apiErr transcriptionErrorResponse

	resp, err := t.client.R().
		SetContext(ctx).
		SetFileReader("file", filename, bytes.NewReader(audio)).
		SetFormData(map[string]string{"model": t.model}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/audio/transcriptions")
	if err != nil {
		t.logger.Error("transcription request failed", "error", err)
		return "", fmt.Errorf("failed to call transcription API: %w", err)
	}

	if resp.IsError() {
		t.logger.Error("transcription API returned error",
			"status", resp.StatusCode(),
			"message", apiErr.Error.Message,
		)
		return "", fmt.Errorf("transcription API error: status %d: %s", resp.StatusCode(), apiErr.Error.Message)
	}

	return result.Text, nil
}
