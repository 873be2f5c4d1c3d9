package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"jobpilot/internal/logger"
	"jobpilot/internal/pipeline"
	"jobpilot/internal/store"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch job postings and store the new ones",
	Run: func(_ *cobra.Command, _ []string) {
		ingest()
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func ingest() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	st, err := newStore(config)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err))
	}

	// Ingestion needs neither a letter generator nor a draft capability.
	p := pipeline.New(st, newSelector(config), nil, nil, logger)

	count, err := p.Ingest(ctx, newSource(config, logger), ingestFilters(config)...)
	if err != nil {
		logger.Fatal("ingesting jobs", zap.Error(err))
	}

	logger.Info("ingestion finished", zap.Int("count", count))

	stats, err := st.Stats(ctx)
	if err != nil {
		logger.Fatal("reading stats", zap.Error(err))
	}

	printStats(stats, logger)
}

func printStats(stats *store.Stats, logger *zap.Logger) {
	logger.Info("current stats",
		zap.Int64("total_jobs", stats.TotalJobs),
		zap.Int64("pending", stats.PendingJobs),
		zap.Int64("applied", stats.AppliedJobs),
		zap.Int64("skipped", stats.SkippedJobs),
		zap.Int64("interviews", stats.Interviews),
		zap.Int64("deadline_today", stats.DeadlineToday),
		zap.Int64("applications_sent", stats.SentApplications),
	)
}
