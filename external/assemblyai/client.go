package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/arkship/transcribot/internal/transcriber"
)

const requestTimeout = 60 * time.Second

type Config struct {
	BaseURL      string
	APIKey       string
	LanguageCode string
}

// Client implements transcriber.RemoteClient against the AssemblyAI v2
// HTTP API. The underlying http.Client and its connection pool live
// between Open and Close; every operation outside that window fails
// with transcriber.ErrSessionNotReady.
type Client struct {
	baseURL      string
	apiKey       string
	languageCode string
	retry        retryPolicy

	httpc *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		languageCode: cfg.LanguageCode,
		retry:        defaultRetryPolicy,
	}
}

func (c *Client) Open() error {
	if c.httpc != nil {
		return nil
	}
	c.httpc = &http.Client{Timeout: requestTimeout}
	slog.Info("remote session opened", "base_url", c.baseURL)
	return nil
}

func (c *Client) Close() error {
	if c.httpc == nil {
		return nil
	}
	c.httpc.CloseIdleConnections()
	c.httpc = nil
	slog.Info("remote session closed")
	return nil
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

func (c *Client) Upload(ctx context.Context, path string) (string, error) {
	if c.httpc == nil {
		return "", transcriber.ErrSessionNotReady
	}

	var out uploadResponse
	// The file is reopened on each attempt: a retried request must not
	// resend a half-consumed body.
	err := c.withRetry(ctx, "upload", func() error {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() {
			_ = f.Close()
		}()
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", f)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", c.apiKey)
		req.Header.Set("Content-Type", "application/octet-stream")
		return c.doJSON(req, &out)
	})
	if err != nil {
		return "", err
	}
	if out.UploadURL == "" {
		return "", &transcriber.RemoteError{StatusCode: http.StatusOK, Body: "upload response carried no upload_url"}
	}
	return out.UploadURL, nil
}

type submitRequest struct {
	AudioURL     string `json:"audio_url"`
	LanguageCode string `json:"language_code"`
}

type jobResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Text      string `json:"text"`
	ErrorCode string `json:"error_code"`
}

func (c *Client) Submit(ctx context.Context, audioURL string) (*transcriber.Job, error) {
	if c.httpc == nil {
		return nil, transcriber.ErrSessionNotReady
	}

	payload, err := json.Marshal(submitRequest{AudioURL: audioURL, LanguageCode: c.languageCode})
	if err != nil {
		return nil, err
	}

	var out jobResponse
	err = c.withRetry(ctx, "submit", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcript", bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		return c.doJSON(req, &out)
	})
	if err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, &transcriber.RemoteError{StatusCode: http.StatusOK, Body: "transcript response carried no id"}
	}
	return out.toJob(), nil
}

func (c *Client) Poll(ctx context.Context, jobID string) (*transcriber.Job, error) {
	if c.httpc == nil {
		return nil, transcriber.ErrSessionNotReady
	}

	var out jobResponse
	err := c.withRetry(ctx, "poll", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transcript/"+jobID, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", c.apiKey)
		return c.doJSON(req, &out)
	})
	if err != nil {
		return nil, err
	}
	return out.toJob(), nil
}

func (r jobResponse) toJob() *transcriber.Job {
	return &transcriber.Job{
		ID:        r.ID,
		Status:    transcriber.Status(r.Status),
		Text:      r.Text,
		ErrorCode: r.ErrorCode,
	}
}

const maxErrorBodyBytes = 2048

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &transcriber.RemoteError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
