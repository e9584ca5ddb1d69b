package viz

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/cooper-labs/cooper-video-analysis/analysis"
)

func sampleResult() *analysis.Result {
	happy := analysis.ZeroEmotion()
	happy["happy"] = 0.9
	happy["neutral"] = 0.1
	return &analysis.Result{
		Backend: analysis.BackendLocal,
		Timeline: []analysis.TimelinePoint{
			{Time: 1, Sentiment: analysis.SentimentScore{Positive: 0.9, Negative: 0.1}, Emotion: happy},
			{Time: 3, Sentiment: analysis.SentimentScore{Positive: 0.2, Negative: 0.8}, Emotion: analysis.NeutralEmotion()},
		},
		Sentiment: analysis.SentimentScore{Positive: 0.55, Negative: 0.45},
		Emotion:   analysis.NeutralEmotion(),
	}
}

func TestToSeriesOrdering(t *testing.T) {
	cases := []struct {
		name string
		res  *analysis.Result
	}{
		{"empty", &analysis.Result{Emotion: analysis.NeutralEmotion()}},
		{"single", &analysis.Result{
			Timeline:  sampleResult().Timeline[:1],
			Sentiment: analysis.SentimentScore{Positive: 0.9, Negative: 0.1},
			Emotion:   analysis.NeutralEmotion(),
		}},
		{"multi", sampleResult()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := ToSeries(tc.res)
			for i := 1; i < len(s.Timeline); i++ {
				if s.Timeline[i].Time < s.Timeline[i-1].Time {
					t.Fatalf("timeline decreasing at %d: %v < %v", i, s.Timeline[i].Time, s.Timeline[i-1].Time)
				}
			}
		})
	}
}

func TestToSeriesDeterministic(t *testing.T) {
	res := sampleResult()
	a := ToSeries(res)
	b := ToSeries(res)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("ToSeries is not deterministic for the same result")
	}
}

func TestToSeriesValues(t *testing.T) {
	s := ToSeries(sampleResult())

	// 2 points x (2 sentiment + 4 emotion categories)
	if len(s.Timeline) != 12 {
		t.Fatalf("timeline = %d samples, want 12", len(s.Timeline))
	}
	first := s.Timeline[0]
	if first.Category != "positive" || first.Value != 0.9 {
		t.Errorf("first sample = %+v", first)
	}
	if s.Distribution["positive"] != 0.55 {
		t.Errorf("distribution positive = %v", s.Distribution["positive"])
	}
	if s.Distribution["neutral"] != 1 {
		t.Errorf("distribution neutral = %v", s.Distribution["neutral"])
	}
}

func TestRendererWritesCharts(t *testing.T) {
	dir := t.TempDir()
	paths, err := NewRenderer().Render(sampleResult(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %v", paths)
	}
	for _, p := range []string{filepath.Join(dir, TimelineFile), filepath.Join(dir, DistributionFile)} {
		st, err := os.Stat(p)
		if err != nil {
			t.Fatalf("%s missing: %v", p, err)
		}
		if st.Size() == 0 {
			t.Errorf("%s is empty", p)
		}
	}
}
