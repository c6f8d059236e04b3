// Package transcriber talks to the external transcription + diarization
// service. Speech-to-text and speaker separation are black boxes behind this
// client: it submits the audio, polls the job, and downloads the diarized
// transcript document.
package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"interview-ingest-go/internal/apperr"
	"interview-ingest-go/internal/logger"
	"interview-ingest-go/internal/transcript"
)

// Transcriber produces a diarized transcript for one local audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, sourceURL string) (*transcript.Document, error)
}

type submitResponse struct {
	Code int    `json:"code"`
	Data struct {
		JobID     string `json:"job_id"`
		Status    string `json:"status"`
		ResultURL string `json:"result_url"`
	} `json:"data"`
	Reason string `json:"reason,omitempty"`
}

type statusResponse struct {
	Code int    `json:"code"`
	Data struct {
		Status    string `json:"status"` // queued, processing, success, failed
		Aligned   bool   `json:"aligned"`
		ResultURL string `json:"result_url"`
	} `json:"data"`
	Reason string `json:"reason,omitempty"`
}

type Client struct {
	baseURL    string
	language   string
	httpClient *http.Client
	log        *logger.Logger

	pollInterval time.Duration
	maxPolls     int
}

func NewClient(baseURL, language string, log *logger.Logger) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		language:     language,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		log:          log,
		pollInterval: 1500 * time.Millisecond,
		maxPolls:     400,
	}
}

// Transcribe runs submit -> poll -> download for one audio file. Supports mock
// mode via env USE_MOCK_TRANSCRIBE=true for offline runs. Alignment failure on
// the service side is tolerated: segment-level timings are kept and the job
// still completes.
func (c *Client) Transcribe(ctx context.Context, audioPath, sourceURL string) (*transcript.Document, error) {
	if os.Getenv("USE_MOCK_TRANSCRIBE") == "true" {
		return mockDocument(sourceURL), nil
	}
	if c.baseURL == "" {
		return nil, apperr.Configuration(nil, "TRANSCRIBE_URL not set")
	}
	log := c.log.WithStage("transcribe").WithField("audio", audioPath)

	jobID, resultURL, err := c.submit(ctx, audioPath, sourceURL)
	if err != nil {
		return nil, err
	}
	if resultURL == "" {
		log.WithField("job_id", jobID).Info("transcription queued, polling")
		resultURL, err = c.poll(ctx, jobID, sourceURL)
		if err != nil {
			return nil, err
		}
	}
	log.WithField("result_url", resultURL).Info("downloading diarized transcript")
	return c.download(ctx, resultURL, sourceURL)
}

func (c *Client) submit(ctx context.Context, audioPath, sourceURL string) (string, string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", "", apperr.Transcription(err, "open audio %s", audioPath)
	}
	defer f.Close()

	var body strings.Builder
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("audio", filepath.Base(audioPath))
	if err != nil {
		return "", "", fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", "", apperr.Transcription(err, "read audio %s", audioPath)
	}
	w.WriteField("sourceUrl", sourceURL)
	w.WriteField("language", c.language)
	_ = w.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/transcribe", strings.NewReader(body.String()))
	if err != nil {
		return "", "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var resp submitResponse
	if err := c.doJSON(req, &resp); err != nil {
		return "", "", apperr.Transcription(err, "submit %s", sourceURL)
	}
	if resp.Code != 200 {
		return "", "", apperr.Transcription(nil, "submit rejected: code=%d reason=%s", resp.Code, resp.Reason)
	}
	if resp.Data.ResultURL != "" && strings.EqualFold(resp.Data.Status, "success") {
		return "", resp.Data.ResultURL, nil
	}
	return resp.Data.JobID, "", nil
}

func (c *Client) poll(ctx context.Context, jobID, sourceURL string) (string, error) {
	base := c.baseURL + "/status"
	for i := 0; i < c.maxPolls; i++ {
		select {
		case <-ctx.Done():
			return "", apperr.Transcription(ctx.Err(), "polling %s", sourceURL)
		case <-time.After(c.pollInterval):
		}

		u, _ := url.Parse(base)
		q := u.Query()
		q.Set("jobId", jobID)
		u.RawQuery = q.Encode()
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)

		var s statusResponse
		if err := c.doJSON(req, &s); err != nil {
			continue
		}
		switch strings.ToLower(s.Data.Status) {
		case "success":
			if !s.Data.Aligned {
				c.log.WithStage("transcribe").WithField("source_url", sourceURL).
					Warn("alignment failed, keeping segment-level timings")
			}
			return s.Data.ResultURL, nil
		case "queued", "processing":
			continue
		case "failed":
			return "", apperr.Transcription(nil, "service failed for %s: %s", sourceURL, s.Reason)
		}
	}
	return "", apperr.Transcription(nil, "timeout waiting for %s", sourceURL)
}

func (c *Client) download(ctx context.Context, resultURL, sourceURL string) (*transcript.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resultURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Transcription(err, "download result for %s", sourceURL)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, apperr.Transcription(nil, "download result for %s: %s", sourceURL, string(b))
	}
	var doc transcript.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, apperr.Transcription(err, "decode result for %s", sourceURL)
	}
	if doc.URL == "" {
		doc.URL = sourceURL
	}
	return &doc, nil
}

func (c *Client) doJSON(req *http.Request, target interface{}) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 12 * time.Second
	var lastErr error
	op := func() error {
		attempt := req
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return backoff.Permanent(err)
			}
			attempt = req.Clone(req.Context())
			attempt.Body = body
		}
		resp, err := c.httpClient.Do(attempt)
		if err != nil {
			lastErr = err
			return err
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error: %s", string(body))
			return lastErr
		}
		if len(body) == 0 {
			lastErr = fmt.Errorf("empty body")
			return lastErr
		}
		if err := json.Unmarshal(body, target); err != nil {
			lastErr = fmt.Errorf("json decode error: %v body=%s", err, string(body))
			return lastErr
		}
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(bo, req.Context())); err != nil {
		return lastErr
	}
	return nil
}

func mockDocument(sourceURL string) *transcript.Document {
	return &transcript.Document{
		URL: sourceURL,
		Segments: []transcript.Segment{
			{Speaker: "SPEAKER_00", Text: "Gracias por recibirme en el programa.", Start: 0, End: 4.2},
			{Speaker: "SPEAKER_01", Text: "Cuéntenos sobre su propuesta económica.", Start: 4.2, End: 8.9},
		},
	}
}
