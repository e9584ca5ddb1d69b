package analysis

import (
	"fmt"
	"time"
)

// Backend selects one of the two analysis strategies. It is fixed when the
// request is built and never changes during a run.
type Backend string

const (
	BackendLocal Backend = "local"
	BackendCloud Backend = "cloud"
)

func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case BackendLocal, BackendCloud:
		return Backend(s), nil
	}
	return "", fmt.Errorf("unknown backend %q (want local or cloud)", s)
}

// Request describes a single analysis run. OutputDir and the API key travel
// with the request so the pipeline never reads ambient process state.
type Request struct {
	VideoPath string
	OutputDir string
	Backend   Backend
	APIKey    string
}

type Utterance struct {
	Speaker string  `json:"speaker,omitempty"`
	Start   float64 `json:"start"` // sec
	End     float64 `json:"end"`   // sec
	Text    string  `json:"text"`
}

func (u Utterance) Mid() float64 { return (u.Start + u.End) / 2 }

type Transcript struct {
	Language   string      `json:"language,omitempty"`
	Text       string      `json:"text"`
	Utterances []Utterance `json:"utterances"`
}

type SentimentScore struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
}

// EmotionScore maps every category in Categories to a value in [0,1].
// Both backends produce the full category set so downstream consumers never
// branch on which backend ran.
type EmotionScore map[string]float64

// Categories is the fixed emotion category set shared by both backends.
var Categories = []string{"happy", "sad", "angry", "neutral"}

func ZeroEmotion() EmotionScore {
	e := make(EmotionScore, len(Categories))
	for _, c := range Categories {
		e[c] = 0
	}
	return e
}

func NeutralEmotion() EmotionScore {
	e := ZeroEmotion()
	e["neutral"] = 1
	return e
}

type TimelinePoint struct {
	Time      float64        `json:"time"` // sec, strictly increasing within a result
	Sentiment SentimentScore `json:"sentiment"`
	Emotion   EmotionScore   `json:"emotion"`
}

type Entity struct {
	Type  string  `json:"type"`
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type Chapter struct {
	Headline string  `json:"headline"`
	Summary  string  `json:"summary"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
}

// Extras carries the richer cloud-only metadata. Nil on the local backend.
type Extras struct {
	Speakers []string  `json:"speakers,omitempty"`
	Entities []Entity  `json:"entities,omitempty"`
	Chapters []Chapter `json:"chapters,omitempty"`
}

// Result is assembled once at the end of a run and never mutated afterwards.
type Result struct {
	RunID       string          `json:"run_id"`
	Backend     Backend         `json:"backend"`
	GeneratedAt time.Time       `json:"generated_at"`
	VideoPath   string          `json:"video_path"`
	AudioPath   string          `json:"audio_path,omitempty"`
	Transcript  Transcript      `json:"transcript"`
	Timeline    []TimelinePoint `json:"timeline"`
	Sentiment   SentimentScore  `json:"sentiment"`
	Emotion     EmotionScore    `json:"emotion"`
	Summary     string          `json:"summary,omitempty"`
	Extras      *Extras         `json:"extras,omitempty"`
}
