package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// --- Text sentiment (/analyze) ---
type SentimentReq struct {
	Text string `json:"text"`
}

type SentimentResp struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
}

// Sentiment scores one utterance's text with the local sentiment classifier.
func (h *HTTP) Sentiment(ctx context.Context, url, text string) (*SentimentResp, error) {
	payload, _ := json.Marshal(SentimentReq{Text: text})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"/analyze", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("sentiment %s: %s", resp.Status, string(body))
	}

	var out SentimentResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("sentiment decode: %w", err)
	}
	return &out, nil
}
