package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cooper-labs/cooper-video-analysis/analysis"
	"github.com/cooper-labs/cooper-video-analysis/media"
	"github.com/cooper-labs/cooper-video-analysis/viz"
)

var (
	outputDir   string
	backendName string
	apiKey      string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <video>",
	Short: "Analyze one video file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := analysis.ParseBackend(backendName)
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		videoPath, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		outDir := outputDir
		if outDir == "" {
			outDir = cfg.Paths.Outputs
		}

		extractor, err := media.NewExtractor(log, cfg.Audio)
		if err != nil {
			return err
		}
		pipeline := analysis.NewPipeline(cfg, log, extractor, viz.NewRenderer())

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		res, err := pipeline.Run(ctx, analysis.Request{
			VideoPath: videoPath,
			OutputDir: outDir,
			Backend:   backend,
			APIKey:    apiKey,
		})
		if err != nil {
			return err
		}

		printResult(res, outDir)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory for analysis artifacts (default: paths.outputs)")
	analyzeCmd.Flags().StringVar(&backendName, "backend", string(analysis.BackendLocal), "analysis backend: local or cloud")
	analyzeCmd.Flags().StringVar(&apiKey, "api-key", "", "cloud API key (default: ASSEMBLYAI_API_KEY)")
	rootCmd.AddCommand(analyzeCmd)
}

func printResult(res *analysis.Result, outDir string) {
	fmt.Println("\nAnalysis complete!")

	fmt.Println("\nText Sentiment:")
	fmt.Printf("  Positive: %.4f\n", res.Sentiment.Positive)
	fmt.Printf("  Negative: %.4f\n", res.Sentiment.Negative)

	fmt.Println("\nVoice Emotion:")
	cats := make([]string, 0, len(res.Emotion))
	for c := range res.Emotion {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, c := range cats {
		fmt.Printf("  %s: %.4f\n", c, res.Emotion[c])
	}

	if res.Summary != "" {
		fmt.Printf("\nSummary:\n  %s\n", res.Summary)
	}

	fmt.Printf("\nArtifacts saved to %s\n", outDir)
	fmt.Printf("  - Result:       %s\n", filepath.Join(outDir, analysis.ResultFile))
	fmt.Printf("  - Transcript:   %s\n", filepath.Join(outDir, analysis.TranscriptFile))
	fmt.Printf("  - Timeline:     %s\n", filepath.Join(outDir, viz.TimelineFile))
	fmt.Printf("  - Distribution: %s\n", filepath.Join(outDir, viz.DistributionFile))
}
