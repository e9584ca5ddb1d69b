package analysis

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/cooper-labs/cooper-video-analysis/clients"
)

// runCloud drives the cloud backend: one remote job returns transcript and
// per-utterance sentiment together, which the adapter maps into the shared
// schema.
func (p *Pipeline) runCloud(ctx context.Context, audioPath, apiKey string, res *Result) error {
	tr, err := p.newCloud(apiKey).Analyze(ctx, audioPath)
	if err != nil {
		if errors.Is(err, clients.ErrPollTimeout) {
			return stageErr(StageTranscribe, ErrTimeout)
		}
		return stageErr(StageTranscribe, err)
	}
	if err := mapCloudTranscript(tr, res); err != nil {
		return stageErr(StageMap, err)
	}
	return nil
}

// mapCloudTranscript reshapes the cloud response into the result record the
// local backend would have produced, plus the cloud-only extras. Timestamps
// arrive in milliseconds.
func mapCloudTranscript(tr *clients.CloudTranscript, res *Result) error {
	utts := make([]Utterance, 0, len(tr.Utterances))
	for _, u := range tr.Utterances {
		utts = append(utts, Utterance{
			Speaker: u.Speaker,
			Start:   ms(u.Start),
			End:     ms(u.End),
			Text:    u.Text,
		})
	}
	sort.Slice(utts, func(i, j int) bool { return utts[i].Start < utts[j].Start })
	res.Transcript = Transcript{Text: tr.Text, Utterances: utts}

	points := make([]TimelinePoint, 0, len(tr.Sentiments))
	for _, s := range tr.Sentiments {
		emo, sent, err := mapSentiment(s.Sentiment, s.Confidence)
		if err != nil {
			return err
		}
		points = append(points, TimelinePoint{
			Time:      (ms(s.Start) + ms(s.End)) / 2,
			Sentiment: sent,
			Emotion:   emo,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Time < points[j].Time })
	res.Timeline = dedupTimeline(points)

	res.Extras = cloudExtras(tr, utts)
	return nil
}

// mapSentiment converts one cloud sentiment sample into both score shapes.
// A missing sentiment field defaults to full neutral (documented policy);
// an unknown label is a MappingError.
func mapSentiment(label string, confidence float64) (EmotionScore, SentimentScore, error) {
	if label == "" {
		return NeutralEmotion(), SentimentScore{Positive: 0.5, Negative: 0.5}, nil
	}
	emo, err := EmotionFromSentiment(label, confidence)
	if err != nil {
		return nil, SentimentScore{}, err
	}
	var sent SentimentScore
	switch strings.ToUpper(label) {
	case "POSITIVE":
		sent = SentimentScore{Positive: confidence, Negative: 1 - confidence}
	case "NEGATIVE":
		sent = SentimentScore{Positive: 1 - confidence, Negative: confidence}
	default: // NEUTRAL
		sent = SentimentScore{Positive: 0.5, Negative: 0.5}
	}
	return emo, sent, nil
}

func cloudExtras(tr *clients.CloudTranscript, utts []Utterance) *Extras {
	ex := &Extras{}

	seen := map[string]bool{}
	for _, u := range utts {
		if u.Speaker != "" && !seen[u.Speaker] {
			seen[u.Speaker] = true
			ex.Speakers = append(ex.Speakers, u.Speaker)
		}
	}
	sort.Strings(ex.Speakers)

	for _, e := range tr.Entities {
		ex.Entities = append(ex.Entities, Entity{
			Type:  e.EntityType,
			Text:  e.Text,
			Start: ms(e.Start),
			End:   ms(e.End),
		})
	}
	for _, c := range tr.Chapters {
		ex.Chapters = append(ex.Chapters, Chapter{
			Headline: c.Headline,
			Summary:  c.Summary,
			Start:    ms(c.Start),
			End:      ms(c.End),
		})
	}
	return ex
}

func ms(v int64) float64 { return float64(v) / 1000 }
