package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cooper-labs/cooper-video-analysis/analysis"
	"github.com/cooper-labs/cooper-video-analysis/config"
)

var (
	cfgFile string
	verbose bool

	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:           "cooper",
	Short:         "Video sentiment and emotion analysis",
	Long:          "Cooper extracts the audio track of a short video, transcribes the speech and scores its sentiment and emotional content, using either local model services or a cloud speech API.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (default: config/<env>/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// loadConfig resolves configuration and applies the log level. Called by the
// subcommands once flags are parsed.
func loadConfig() (*config.Root, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	lvl := cfg.Pipeline.LogLvl
	if verbose {
		lvl = "debug"
	}
	level, err := logrus.ParseLevel(lvl)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return cfg, nil
}

// Execute runs the CLI and maps failures onto exit codes: 1 for a pipeline
// stage failure, 2 for invalid arguments or configuration.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	var pe *analysis.PipelineError
	if errors.As(err, &pe) {
		log.WithField("stage", pe.Stage).Error(pe.Err)
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(2)
}
