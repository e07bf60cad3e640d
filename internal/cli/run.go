package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/opsdash/mcsync/internal/config"
	"github.com/opsdash/mcsync/internal/graph"
	"github.com/opsdash/mcsync/internal/pipeline"
	"github.com/opsdash/mcsync/internal/storage"
)

var (
	clientSecret string
	dataDir      string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, transform, and persist message center announcements",
	RunE:  runSync,
}

func init() {
	runCmd.Flags().StringVar(&clientSecret, "client-secret", "", "client secret (takes precedence over MCSYNC_GRAPH_CLIENT_SECRET and .env)")
	runCmd.Flags().StringVar(&dataDir, "data-dir", "", "output directory (overrides config)")

	rootCmd.AddCommand(runCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	// Flag values beat the environment and the config file.
	if clientSecret != "" {
		viper.Set("graph.client_secret", clientSecret)
	}
	if dataDir != "" {
		viper.Set("storage.data_dir", dataDir)
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := storage.NewStore(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("Failed to close storage")
		}
	}()

	connect := func(ctx context.Context) (pipeline.Source, error) {
		return graph.Connect(ctx, cfg.Graph)
	}

	runner := pipeline.New(connect, store, cfg.Storage.DataDir)
	summary, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Processed %d messages across %d services in %s\n",
		summary.MessagesProcessed, summary.ServicesSeen,
		summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond))
	if summary.ArchiveFailures > 0 {
		fmt.Printf("Warning: %d archive writes failed\n", summary.ArchiveFailures)
	}
	fmt.Printf("Output written to %s\n", summary.OutputDir)
	return nil
}
