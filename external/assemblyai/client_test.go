package assemblyai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arkship/transcribot/internal/transcriber"
)

func newOpenClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c := NewClient(Config{BaseURL: baseURL, APIKey: "test-key", LanguageCode: "ru"})
	c.retry.baseDelay = time.Millisecond
	if err := c.Open(); err != nil {
		t.Fatalf("failed to open session: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Close()
	})
	return c
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voice.mp3")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestOperations_SessionNotReady(t *testing.T) {
	c := NewClient(Config{BaseURL: "https://api.example/v2", APIKey: "k", LanguageCode: "ru"})

	if _, err := c.Upload(context.Background(), "x.mp3"); !errors.Is(err, transcriber.ErrSessionNotReady) {
		t.Fatalf("expected ErrSessionNotReady, got %v", err)
	}
	if _, err := c.Submit(context.Background(), "url"); !errors.Is(err, transcriber.ErrSessionNotReady) {
		t.Fatalf("expected ErrSessionNotReady, got %v", err)
	}
	if _, err := c.Poll(context.Background(), "id"); !errors.Is(err, transcriber.ErrSessionNotReady) {
		t.Fatalf("expected ErrSessionNotReady, got %v", err)
	}
}

func TestUpload_SendsBytesAndAuth(t *testing.T) {
	var gotAuth string
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/upload" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("failed to read body: %v", err)
		}
		gotBody = string(body)
		_, _ = w.Write([]byte(`{"upload_url":"https://cdn.example/media-1"}`))
	}))
	defer server.Close()

	c := newOpenClient(t, server.URL)
	url, err := c.Upload(context.Background(), writeTempFile(t, "raw-audio-bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://cdn.example/media-1" {
		t.Fatalf("unexpected upload url: %q", url)
	}
	if gotAuth != "test-key" {
		t.Fatalf("unexpected authorization header: %q", gotAuth)
	}
	if gotBody != "raw-audio-bytes" {
		t.Fatalf("unexpected upload body: %q", gotBody)
	}
}

func TestSubmit_PostsLanguageAndParsesJob(t *testing.T) {
	var gotPayload string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transcript" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		gotPayload = string(body)
		_, _ = w.Write([]byte(`{"id":"job-7","status":"queued"}`))
	}))
	defer server.Close()

	c := newOpenClient(t, server.URL)
	job, err := c.Submit(context.Background(), "https://cdn.example/media-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.ID != "job-7" || job.Status != transcriber.StatusQueued {
		t.Fatalf("unexpected job: %+v", job)
	}
	if !strings.Contains(gotPayload, `"audio_url":"https://cdn.example/media-1"`) ||
		!strings.Contains(gotPayload, `"language_code":"ru"`) {
		t.Fatalf("unexpected payload: %s", gotPayload)
	}
}

func TestPoll_ParsesTerminalStates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/transcript/job-ok":
			_, _ = w.Write([]byte(`{"id":"job-ok","status":"completed","text":"привет"}`))
		case "/transcript/job-bad":
			_, _ = w.Write([]byte(`{"id":"job-bad","status":"error","error_code":"invalid_audio"}`))
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	c := newOpenClient(t, server.URL)

	job, err := c.Poll(context.Background(), "job-ok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Status != transcriber.StatusCompleted || job.Text != "привет" {
		t.Fatalf("unexpected job: %+v", job)
	}

	job, err = c.Poll(context.Background(), "job-bad")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Status != transcriber.StatusError || job.ErrorCode != "invalid_audio" {
		t.Fatalf("unexpected job: %+v", job)
	}
}

func TestDoJSON_BusinessErrorIsNotRetried(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad api key"}`))
	}))
	defer server.Close()

	c := newOpenClient(t, server.URL)
	_, err := c.Poll(context.Background(), "job-1")

	var remoteErr *transcriber.RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if remoteErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", remoteErr.StatusCode)
	}
	if requests != 1 {
		t.Fatalf("business error must not be retried, got %d requests", requests)
	}
}

func TestUpload_TransientFailureExhaustsRetryBudget(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("server must not be reached")
	}))
	server.Close() // connection refused from here on

	c := newOpenClient(t, server.URL)
	_, err := c.Upload(context.Background(), writeTempFile(t, "bytes"))

	var netErr *transcriber.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if netErr.Attempts != 3 {
		t.Fatalf("expected budget of 3 attempts, got %d", netErr.Attempts)
	}
}
