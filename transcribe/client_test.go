package transcribe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeAudio(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("RIFFfakeaudio"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTranscribeSuccess(t *testing.T) {
	var gotAuth, gotModel, gotFilename string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		if f, hdr, err := r.FormFile("file"); err == nil {
			gotFilename = hdr.Filename
			f.Close()
		} else {
			t.Errorf("file part missing: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": "  hello world  "}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL})
	text, err := c.Transcribe(context.Background(), writeAudio(t, "song.mp3"))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "hello world" {
		t.Errorf("transcript = %q", text)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotModel != "whisper-1" {
		t.Errorf("model = %q, want default whisper-1", gotModel)
	}
	if gotFilename != "song.mp3" {
		t.Errorf("upload filename = %q", gotFilename)
	}
}

func TestTranscribeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"message": "invalid audio"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL})
	_, err := c.Transcribe(context.Background(), writeAudio(t, "voice.ogg"))
	if err == nil {
		t.Fatal("expected error on 400 response")
	}
	var terr *Error
	if !errors.As(err, &terr) {
		t.Fatalf("expected *transcribe.Error, got %T", err)
	}
	if terr.Code() != "TRANSCRIPTION_ERROR" {
		t.Errorf("Code() = %q", terr.Code())
	}
}

func TestTranscribeEmptyTranscript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"text": ""}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Transcribe(context.Background(), writeAudio(t, "clip.wav"))
	if err == nil {
		t.Fatal("expected error for empty transcript")
	}
}

func TestTranscribeMissingFile(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:0"})
	_, err := c.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"))
	var terr *Error
	if !errors.As(err, &terr) || terr.Stage != "open" {
		t.Fatalf("expected open-stage error, got %v", err)
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{BaseURL: "https://api.example.com/v1/"})
	if c.Model() != "whisper-1" {
		t.Errorf("default model = %q", c.Model())
	}
	if c.baseURL != "https://api.example.com/v1" {
		t.Errorf("base url not trimmed: %q", c.baseURL)
	}
}
