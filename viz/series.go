// Package viz turns a finished analysis result into chart-ready series and
// renders them. ToSeries is a pure transform; rendering is kept separate so
// the transform stays deterministic and I/O free.
package viz

import (
	"github.com/cooper-labs/cooper-video-analysis/analysis"
)

// SeriesPoint is one (time, category, value) sample of the timeline chart.
type SeriesPoint struct {
	Time     float64 `json:"time"`
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

// Series is the chart-ready view of a result: a flattened timeline ordered by
// time (category order fixed within one timestamp) and the aggregate
// distribution per category.
type Series struct {
	Timeline     []SeriesPoint      `json:"timeline"`
	Distribution map[string]float64 `json:"distribution"`
}

// sentimentCategories precede the emotion categories at every timestamp so
// the flattened order is stable.
var sentimentCategories = []string{"positive", "negative"}

// ToSeries flattens a result into chart series. It is deterministic for a
// given result and never reorders the timeline: output times are
// non-decreasing because result timelines are ordered.
func ToSeries(res *analysis.Result) Series {
	s := Series{
		Timeline:     make([]SeriesPoint, 0, len(res.Timeline)*(len(sentimentCategories)+len(analysis.Categories))),
		Distribution: make(map[string]float64, len(sentimentCategories)+len(analysis.Categories)),
	}

	for _, pt := range res.Timeline {
		s.Timeline = append(s.Timeline,
			SeriesPoint{Time: pt.Time, Category: "positive", Value: pt.Sentiment.Positive},
			SeriesPoint{Time: pt.Time, Category: "negative", Value: pt.Sentiment.Negative},
		)
		for _, c := range analysis.Categories {
			s.Timeline = append(s.Timeline, SeriesPoint{Time: pt.Time, Category: c, Value: pt.Emotion[c]})
		}
	}

	s.Distribution["positive"] = res.Sentiment.Positive
	s.Distribution["negative"] = res.Sentiment.Negative
	for _, c := range analysis.Categories {
		s.Distribution[c] = res.Emotion[c]
	}
	return s
}
