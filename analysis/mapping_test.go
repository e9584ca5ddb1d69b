package analysis

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestEmotionFromSentiment(t *testing.T) {
	cases := []struct {
		name       string
		label      string
		confidence float64
		want       map[string]float64
	}{
		{
			name:       "positive",
			label:      "POSITIVE",
			confidence: 0.9,
			want:       map[string]float64{"happy": 0.9, "neutral": 0.1, "sad": 0, "angry": 0},
		},
		{
			name:       "negative splits sad and angry",
			label:      "NEGATIVE",
			confidence: 0.8,
			want:       map[string]float64{"happy": 0, "sad": 0.48, "angry": 0.32, "neutral": 0.2},
		},
		{
			name:       "neutral",
			label:      "NEUTRAL",
			confidence: 0.7,
			want:       map[string]float64{"happy": 0, "sad": 0, "angry": 0, "neutral": 0.7},
		},
		{
			name:       "lowercase label accepted",
			label:      "positive",
			confidence: 1,
			want:       map[string]float64{"happy": 1, "neutral": 0, "sad": 0, "angry": 0},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EmotionFromSentiment(tc.label, tc.confidence)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(Categories) {
				t.Fatalf("got %d categories, want %d", len(got), len(Categories))
			}
			for c, want := range tc.want {
				if !almostEqual(got[c], want) {
					t.Errorf("%s = %v, want %v", c, got[c], want)
				}
			}
		})
	}
}

func TestEmotionFromSentimentDeterministic(t *testing.T) {
	a, err := EmotionFromSentiment("NEGATIVE", 0.63)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		b, err := EmotionFromSentiment("NEGATIVE", 0.63)
		if err != nil {
			t.Fatal(err)
		}
		for _, c := range Categories {
			if a[c] != b[c] {
				t.Fatalf("run %d: %s = %v, want %v", i, c, b[c], a[c])
			}
		}
	}
}

func TestEmotionFromSentimentUnknownLabel(t *testing.T) {
	_, err := EmotionFromSentiment("MIXED", 0.5)
	if err == nil {
		t.Fatal("expected error for unknown label")
	}
	var me *MappingError
	if !errors.As(err, &me) {
		t.Fatalf("expected MappingError, got %T", err)
	}
	if me.Label != "MIXED" {
		t.Errorf("label = %q, want MIXED", me.Label)
	}
}

func TestMapSentimentMissingLabelDefaultsNeutral(t *testing.T) {
	emo, sent, err := mapSentiment("", 0.99)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(emo["neutral"], 1) {
		t.Errorf("neutral = %v, want 1", emo["neutral"])
	}
	if !almostEqual(sent.Positive, 0.5) || !almostEqual(sent.Negative, 0.5) {
		t.Errorf("sentiment = %+v, want 0.5/0.5", sent)
	}
}
