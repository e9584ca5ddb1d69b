package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cooper-labs/cooper-video-analysis/analysis"
	"github.com/cooper-labs/cooper-video-analysis/media"
	"github.com/cooper-labs/cooper-video-analysis/server"
	"github.com/cooper-labs/cooper-video-analysis/viz"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis endpoint",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		extractor, err := media.NewExtractor(log, cfg.Audio)
		if err != nil {
			return err
		}
		pipeline := analysis.NewPipeline(cfg, log, extractor, viz.NewRenderer())

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(cfg, log, pipeline)
		if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr)")
	rootCmd.AddCommand(serveCmd)
}
