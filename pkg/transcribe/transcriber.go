package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Transcriber converts an audio file on disk into text
type Transcriber interface {
	Transcribe(ctx context.Context, filePath string) (string, error)
}

// WhisperTranscriber calls the OpenAI audio transcription endpoint
type WhisperTranscriber struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

var _ Transcriber = &WhisperTranscriber{}

func NewWhisperTranscriber(baseURL, apiKey, model string) *WhisperTranscriber {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "whisper-1"
	}
	return &WhisperTranscriber{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		Client: &http.Client{
			Timeout: 5 * time.Minute, // Long recordings take a while
		},
	}
}

type transcriptionResponse struct {
	Text  string `json:"text"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (w *WhisperTranscriber) Transcribe(ctx context.Context, filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("copy audio data: %w", err)
	}
	if err := writer.WriteField("model", w.Model); err != nil {
		return "", fmt.Errorf("write model field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	url := w.BaseURL + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+w.APIKey)

	resp, err := w.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var transcription transcriptionResponse
	if err := json.Unmarshal(bodyBytes, &transcription); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if transcription.Error != nil {
		return "", fmt.Errorf("transcription error: %s", transcription.Error.Message)
	}

	return transcription.Text, nil
}
