package analysis

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/cooper-labs/cooper-video-analysis/clients"
)

// emotionSample is one voice-emotion measurement at the midpoint of a fixed
// audio window.
type emotionSample struct {
	mid   float64
	score EmotionScore
}

// runLocal drives the local backend: transcribe, then score text sentiment
// per utterance and voice emotion per audio window, and zip the two series
// into the timeline.
func (p *Pipeline) runLocal(ctx context.Context, audioPath string, res *Result) error {
	asr, err := p.asr.Transcribe(ctx, audioPath)
	if err != nil {
		return stageErr(StageTranscribe, err)
	}

	sort.Slice(asr.Segments, func(i, j int) bool { return asr.Segments[i].Start < asr.Segments[j].Start })
	utts := make([]Utterance, 0, len(asr.Segments))
	for _, s := range asr.Segments {
		utts = append(utts, Utterance{Start: s.Start, End: s.End, Text: s.Text})
	}
	res.Transcript = Transcript{
		Language:   asr.Language,
		Text:       transcriptText(asr, utts),
		Utterances: utts,
	}
	if len(utts) == 0 {
		// silent or speech-free audio: empty timeline, neutral aggregates
		return nil
	}

	samples, err := p.scoreEmotionWindows(ctx, audioPath, utts)
	if err != nil {
		return stageErr(StageScore, err)
	}

	tolerance := float64(p.cfg.Features.TimeWindow)
	points := make([]TimelinePoint, 0, len(utts))
	for _, u := range utts {
		var sent SentimentScore
		if u.Text != "" {
			sent, err = p.sentiment.Score(ctx, u.Text)
			if err != nil {
				return stageErr(StageScore, err)
			}
		}
		points = append(points, TimelinePoint{
			Time:      u.Mid(),
			Sentiment: sent,
			Emotion:   nearestEmotion(samples, u.Mid(), tolerance),
		})
	}

	res.Timeline = dedupTimeline(points)
	return nil
}

// scoreEmotionWindows slides a fixed window over the span covered by the
// utterances and scores each window's audio.
func (p *Pipeline) scoreEmotionWindows(ctx context.Context, audioPath string, utts []Utterance) ([]emotionSample, error) {
	start := utts[0].Start
	end := utts[len(utts)-1].End
	w := float64(p.cfg.Features.TimeWindow)
	step := w - float64(p.cfg.Features.Overlap)
	if step <= 0 {
		step = w
	}

	var out []emotionSample
	for t0 := start; t0 < end; t0 += step {
		t1 := math.Min(t0+w, end)
		score, err := p.emotion.Score(ctx, audioPath, t0, t1)
		if err != nil {
			return nil, err
		}
		out = append(out, emotionSample{mid: (t0 + t1) / 2, score: score})
	}
	return out, nil
}

// nearestEmotion pairs an utterance midpoint with the closest emotion window
// midpoint. No sample within tolerance means full neutral; the category set
// stays fixed either way.
func nearestEmotion(samples []emotionSample, mid, tolerance float64) EmotionScore {
	best := -1
	bestDist := math.Inf(1)
	for i, s := range samples {
		if d := math.Abs(s.mid - mid); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 || bestDist > tolerance {
		return NeutralEmotion()
	}
	return samples[best].score
}

// dedupTimeline enforces strictly increasing time offsets, keeping the first
// point at any given time.
func dedupTimeline(points []TimelinePoint) []TimelinePoint {
	out := points[:0]
	last := math.Inf(-1)
	for _, pt := range points {
		if pt.Time <= last {
			continue
		}
		out = append(out, pt)
		last = pt.Time
	}
	return out
}

// emotionAliases maps classifier label variants onto the shared category set.
var emotionAliases = map[string]string{
	"joy":       "happy",
	"happiness": "happy",
	"sadness":   "sad",
	"anger":     "angry",
}

// normalizeEmotion projects whatever labels the local classifier emits onto
// the fixed category set, dropping anything it cannot place.
func normalizeEmotion(labels []clients.EmotionLabel) EmotionScore {
	e := ZeroEmotion()
	for _, l := range labels {
		name := strings.ToLower(l.Label)
		if alias, ok := emotionAliases[name]; ok {
			name = alias
		}
		if _, ok := e[name]; ok {
			e[name] = clamp01(l.Score)
		}
	}
	return e
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func transcriptText(asr *clients.TranscribeResp, utts []Utterance) string {
	if asr.Text != "" {
		return asr.Text
	}
	parts := make([]string, 0, len(utts))
	for _, u := range utts {
		if u.Text != "" {
			parts = append(parts, strings.TrimSpace(u.Text))
		}
	}
	return strings.Join(parts, " ")
}
