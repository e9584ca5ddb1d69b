package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// ErrPollTimeout is returned by Await when the transcription job does not
// reach a terminal status before the configured deadline.
var ErrPollTimeout = errors.New("cloud transcription poll timeout")

// AssemblyAI talks to the AssemblyAI v2 REST API: upload the audio, create a
// transcript job, then poll until it completes. The job is asynchronous on
// their side; this client blocks the caller the way the rest of the pipeline
// expects.
type AssemblyAI struct {
	c            *http.Client
	base         string
	apiKey       string
	pollInterval time.Duration
	pollTimeout  time.Duration
}

func NewAssemblyAI(base, apiKey string, pollInterval, pollTimeout time.Duration) *AssemblyAI {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	if pollTimeout <= 0 {
		pollTimeout = 5 * time.Minute
	}
	return &AssemblyAI{
		c:            &http.Client{Timeout: 2 * time.Minute},
		base:         base,
		apiKey:       apiKey,
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
	}
}

type CloudUtterance struct {
	Text       string  `json:"text"`
	Start      int64   `json:"start"` // ms
	End        int64   `json:"end"`   // ms
	Speaker    string  `json:"speaker"`
	Confidence float64 `json:"confidence"`
}

type CloudSentiment struct {
	Text       string  `json:"text"`
	Start      int64   `json:"start"` // ms
	End        int64   `json:"end"`   // ms
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	Speaker    string  `json:"speaker,omitempty"`
}

type CloudEntity struct {
	EntityType string `json:"entity_type"`
	Text       string `json:"text"`
	Start      int64  `json:"start"` // ms
	End        int64  `json:"end"`   // ms
}

type CloudChapter struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Start    int64  `json:"start"` // ms
	End      int64  `json:"end"`   // ms
}

// CloudTranscript is the subset of the transcript resource the pipeline
// consumes.
type CloudTranscript struct {
	ID         string           `json:"id"`
	Status     string           `json:"status"` // queued|processing|completed|error
	Error      string           `json:"error,omitempty"`
	Text       string           `json:"text"`
	Utterances []CloudUtterance `json:"utterances"`
	Sentiments []CloudSentiment `json:"sentiment_analysis_results"`
	Entities   []CloudEntity    `json:"entities"`
	Chapters   []CloudChapter   `json:"auto_chapters_results"`
}

func (a *AssemblyAI) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", a.apiKey)
	resp, err := a.c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("assemblyai %s: %s", resp.Status, string(body))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("assemblyai decode: %w", err)
	}
	return nil
}

// Upload streams the local audio file to the API and returns the URL the
// transcript job should reference.
func (a *AssemblyAI) Upload(ctx context.Context, path string) (string, error) {
	fd, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer fd.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.base+"/v2/upload", fd)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	var out struct {
		UploadURL string `json:"upload_url"`
	}
	if err := a.do(req, &out); err != nil {
		return "", err
	}
	if out.UploadURL == "" {
		return "", errors.New("assemblyai upload: empty upload_url")
	}
	return out.UploadURL, nil
}

// Submit creates the transcript job with the full feature set the pipeline
// maps downstream: speakers, per-utterance sentiment, entities and chapters.
func (a *AssemblyAI) Submit(ctx context.Context, audioURL string) (string, error) {
	payload, _ := json.Marshal(map[string]any{
		"audio_url":          audioURL,
		"speaker_labels":     true,
		"sentiment_analysis": true,
		"entity_detection":   true,
		"auto_chapters":      true,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.base+"/v2/transcript", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var out CloudTranscript
	if err := a.do(req, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", errors.New("assemblyai submit: empty transcript id")
	}
	return out.ID, nil
}

// Get fetches the current state of a transcript job.
func (a *AssemblyAI) Get(ctx context.Context, id string) (*CloudTranscript, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.base+"/v2/transcript/"+id, nil)
	if err != nil {
		return nil, err
	}
	var out CloudTranscript
	if err := a.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Await polls the job at a fixed interval until it completes, fails, the
// poll deadline passes (ErrPollTimeout) or the context is cancelled.
func (a *AssemblyAI) Await(ctx context.Context, id string) (*CloudTranscript, error) {
	deadline := time.NewTimer(a.pollTimeout)
	defer deadline.Stop()
	tick := time.NewTicker(a.pollInterval)
	defer tick.Stop()

	for {
		tr, err := a.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		switch tr.Status {
		case "completed":
			return tr, nil
		case "error":
			return nil, fmt.Errorf("assemblyai job %s failed: %s", id, tr.Error)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, ErrPollTimeout
		case <-tick.C:
		}
	}
}

// Analyze is the full cloud path: upload, submit, await.
func (a *AssemblyAI) Analyze(ctx context.Context, audioPath string) (*CloudTranscript, error) {
	url, err := a.Upload(ctx, audioPath)
	if err != nil {
		return nil, err
	}
	id, err := a.Submit(ctx, url)
	if err != nil {
		return nil, err
	}
	return a.Await(ctx, id)
}
