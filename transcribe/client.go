package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scribebot/core/logger"
)

const (
	defaultModel   = "whisper-1"
	defaultBaseURL = "https://api.openai.com/v1"
	defaultTimeout = 120 * time.Second

	// maxResponseBytes bounds how much of the API response is read; transcripts
	// of hour-long audio stay well under this.
	maxResponseBytes = 1 << 20
)

// Error wraps any transcription failure with the stage it occurred at.
type Error struct {
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transcribe %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Code identifies this error class in handler summary logs.
func (e *Error) Code() string { return "TRANSCRIPTION_ERROR" }

// Config holds client settings; zero values fall back to OpenAI defaults.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Client calls a Whisper-style speech-to-text HTTP API. A call is a single
// blocking request: no retries, no streaming, no partial results.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

// NewClient builds a Client from cfg, filling in defaults for model, base URL
// and timeout.
func NewClient(cfg Config) *Client {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Model returns the configured speech-to-text model name.
func (c *Client) Model() string { return c.model }

// Transcribe uploads the audio file at inputPath and returns its transcript.
// The audio is sent as a multipart form with the file's own extension intact
// so the API can detect the container format.
func (c *Client) Transcribe(ctx context.Context, inputPath string) (string, error) {
	start := time.Now()

	f, err := os.Open(inputPath)
	if err != nil {
		return "", &Error{Stage: "open", Err: err}
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(inputPath))
	if err != nil {
		return "", &Error{Stage: "encode", Err: err}
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", &Error{Stage: "encode", Err: err}
	}
	if err := mw.WriteField("model", c.model); err != nil {
		return "", &Error{Stage: "encode", Err: err}
	}
	if err := mw.Close(); err != nil {
		return "", &Error{Stage: "encode", Err: err}
	}

	url := c.baseURL + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", &Error{Stage: "request", Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	logger.Debug(ctx, "stt", "transcribe.start",
		slog.String("model", c.model),
		slog.String("file", filepath.Base(inputPath)),
		slog.Int64("bytes", int64(body.Len())),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &Error{Stage: "call", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &Error{Stage: "read", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &Error{
			Stage: "call",
			Err:   fmt.Errorf("status %s: %s", resp.Status, logger.SanitizeLimit(string(raw), 256)),
		}
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &Error{Stage: "decode", Err: err}
	}
	text := strings.TrimSpace(parsed.Text)
	if text == "" {
		return "", &Error{Stage: "decode", Err: fmt.Errorf("empty transcript in response")}
	}

	logger.Info(ctx, "stt", "transcribe.done",
		slog.String("model", c.model),
		slog.Int("chars", len(text)),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	)
	return text, nil
}
