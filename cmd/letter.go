package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"jobpilot/internal/logger"
)

var letterCmd = &cobra.Command{
	Use:   "letter <job-id>",
	Short: "Generate a cover letter for a job without touching its status",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		letterRun(args[0])
	},
}

var draftCmd = &cobra.Command{
	Use:   "draft <job-id>",
	Short: "Generate a letter and create an email draft for a job",
	Run: func(cmd *cobra.Command, args []string) {
		draftRun(cmd, args[0])
	},
	Args: cobra.ExactArgs(1),
}

func init() {
	rootCmd.AddCommand(letterCmd)
	rootCmd.AddCommand(draftCmd)

	draftCmd.Flags().String("to", "", "recipient address, defaults to the stored contact or a company placeholder")
	draftCmd.Flags().String("text", "", "use this letter text instead of generating one")
}

func letterRun(jobID string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	p, err := newPipeline(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the pipeline", zap.Error(err))
	}

	genCtx, cancel := context.WithTimeout(ctx, letterTimeout(config))
	defer cancel()

	generated, err := p.GenerateLetter(genCtx, jobID)
	if err != nil {
		logger.Fatal("generating a letter", zap.String("job_id", jobID), zap.Error(err))
	}

	printJob(generated.Job)
	printLetter(generated)
}

func draftRun(cmd *cobra.Command, jobID string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	p, err := newPipeline(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the pipeline", zap.Error(err))
	}

	text := cmd.Flag("text").Value.String()
	if text == "" {
		genCtx, cancel := context.WithTimeout(ctx, letterTimeout(config))
		generated, err := p.GenerateLetter(genCtx, jobID)
		cancel()
		if err != nil {
			logger.Fatal("generating a letter", zap.String("job_id", jobID), zap.Error(err))
		}

		printLetter(generated)
		text = generated.Letter.Text
	}

	submission, err := p.SubmitDraft(ctx, jobID, text, cmd.Flag("to").Value.String())
	if err != nil {
		logger.Fatal("submitting a draft", zap.String("job_id", jobID), zap.Error(err))
	}

	logger.Info("draft created",
		zap.String("job_id", jobID),
		zap.Uint("application_id", submission.ApplicationID),
		zap.String("draft_reference", submission.DraftReference),
		zap.String("recipient", submission.Recipient),
		zap.String("subject", submission.Subject),
	)
}
