package viz

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/cooper-labs/cooper-video-analysis/analysis"
)

const (
	TimelineFile     = "timeline.html"
	DistributionFile = "distribution.html"
)

// Renderer writes HTML chart artifacts with go-echarts. It implements
// analysis.ChartRenderer.
type Renderer struct{}

func NewRenderer() *Renderer { return &Renderer{} }

// Render writes the timeline and distribution charts for res into outDir and
// returns the written paths.
func (r *Renderer) Render(res *analysis.Result, outDir string) ([]string, error) {
	s := ToSeries(res)

	timelinePath := filepath.Join(outDir, TimelineFile)
	if err := renderTimeline(s, timelinePath); err != nil {
		return nil, fmt.Errorf("render timeline: %w", err)
	}
	distPath := filepath.Join(outDir, DistributionFile)
	if err := renderDistribution(s, distPath); err != nil {
		return nil, fmt.Errorf("render distribution: %w", err)
	}
	return []string{timelinePath, distPath}, nil
}

func chartCategories() []string {
	return append(append([]string{}, sentimentCategories...), analysis.Categories...)
}

func renderTimeline(s Series, path string) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Sentiment and emotion over time",
			Subtitle: "score per analyzed segment",
		}),
	)

	// regroup the flat series per category over the shared time axis
	times := make([]string, 0)
	perCategory := map[string][]opts.LineData{}
	seen := map[float64]bool{}
	for _, pt := range s.Timeline {
		if !seen[pt.Time] {
			seen[pt.Time] = true
			times = append(times, fmt.Sprintf("%.1fs", pt.Time))
		}
		perCategory[pt.Category] = append(perCategory[pt.Category], opts.LineData{Value: pt.Value})
	}

	line.SetXAxis(times)
	for _, c := range chartCategories() {
		line.AddSeries(c, perCategory[c])
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return line.Render(f)
}

func renderDistribution(s Series, path string) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Aggregate distribution",
			Subtitle: "mean score across the whole run",
		}),
	)

	cats := chartCategories()
	values := make([]opts.BarData, 0, len(cats))
	for _, c := range cats {
		values = append(values, opts.BarData{Value: s.Distribution[c]})
	}
	bar.SetXAxis(cats)
	bar.AddSeries("aggregate", values)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return bar.Render(f)
}
