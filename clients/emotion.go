package clients

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
	"strconv"
)

// --- Voice emotion (/detect) ---
type EmotionLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type EmotionResp struct {
	Emotions []EmotionLabel `json:"emotions"`
	Dominant string         `json:"dominant_emotion"`
}

// Emotion scores one time window of the audio track with the local voice
// emotion classifier. Offsets are seconds into the file; the service slices
// the audio itself so we upload the file once per window rather than
// resampling locally.
func (h *HTTP) Emotion(ctx context.Context, url, wavPath string, start, end float64) (*EmotionResp, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	if err := w.WriteField("start", strconv.FormatFloat(start, 'f', 3, 64)); err != nil {
		return nil, err
	}
	if err := w.WriteField("end", strconv.FormatFloat(end, 'f', 3, 64)); err != nil {
		return nil, err
	}
	fw, err := w.CreateFormFile("file", filepath.Base(wavPath))
	if err != nil {
		return nil, err
	}
	fd, err := os.Open(wavPath)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	if _, err = io.Copy(fw, fd); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"/detect", &b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("emotion %s: %s", resp.Status, string(body))
	}

	var out EmotionResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("emotion decode: %w", err)
	}
	return &out, nil
}
