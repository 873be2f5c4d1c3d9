package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"jobpilot/internal/logger"
	"jobpilot/internal/pipeline"
	"jobpilot/internal/store"
)

const (
	PromptDraft      = "Create an email draft"
	PromptRegenerate = "Regenerate the letter"
	PromptSkip       = "Skip this job"
	PromptQuit       = "Quit"
)

var errExit = errors.New("exit requested")

var reviewPrompt = promptui.Select{
	Label: "What now?",
	Items: []string{PromptDraft, PromptRegenerate, PromptSkip, PromptQuit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch new jobs and review them one by one",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("no-ingest", false, "review already stored jobs without fetching new ones")
}

// run is the main command for the cli. It optionally ingests fresh postings,
// then walks pending jobs in review order: generate a letter, let the user
// decide, repeat until the queue is empty or the user quits.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting jobpilot", zap.String("version", version))

	p, err := newPipeline(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the pipeline", zap.Error(err))
	}

	if cmd.Flag("no-ingest").Value.String() == "false" {
		count, err := p.Ingest(ctx, newSource(config, logger), ingestFilters(config)...)
		if err != nil {
			logger.Fatal("ingesting jobs", zap.Error(err))
		}
		logger.Info("ingestion finished", zap.Int("count", count))
	}

	for {
		job, err := p.NextJob(ctx)
		if err != nil {
			logger.Fatal("picking the next job", zap.Error(err))
		}

		if job == nil {
			logger.Info("exiting", zap.String("reason", "no pending jobs left"))
			return
		}

		if err := review(ctx, p, job, letterTimeout(config), logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

// review generates a letter for a single job and loops the prompt until the
// user drafts, skips or quits. Regeneration stays within the same job.
func review(ctx context.Context, p *pipeline.Pipeline, job *store.Job, timeout time.Duration, logger *zap.Logger) error {
	printJob(job)

	for {
		genCtx, cancel := context.WithTimeout(ctx, timeout)
		generated, err := p.GenerateLetter(genCtx, job.ID)
		cancel()
		if err != nil {
			return fmt.Errorf("generating a letter for job %s: %w", job.ID, err)
		}

		printLetter(generated)

		_, action, err := reviewPrompt.Run()
		if err != nil {
			return err
		}

		switch action {
		case PromptDraft:
			submission, err := p.SubmitDraft(ctx, job.ID, generated.Letter.Text, "")
			if err != nil {
				return fmt.Errorf("submitting a draft for job %s: %w", job.ID, err)
			}
			logger.Info("draft created",
				zap.String("job_id", job.ID),
				zap.String("draft_reference", submission.DraftReference),
				zap.String("recipient", submission.Recipient),
			)
			return nil
		case PromptRegenerate:
			continue
		case PromptSkip:
			if err := p.Skip(ctx, job.ID); err != nil {
				return err
			}
			logger.Info("job skipped", zap.String("job_id", job.ID))
			return nil
		case PromptQuit:
			return errExit
		default:
			return fmt.Errorf("invalid action: %s", action)
		}
	}
}

func printJob(job *store.Job) {
	fmt.Printf("\n%s at %s (%s)\n", job.Title, job.Company, job.Location)
	if job.Deadline != nil {
		fmt.Printf("deadline: %s\n", job.Deadline.Format("2006-01-02"))
	}
	fmt.Printf("%s\n\n", job.URL)
}

func printLetter(generated *pipeline.GeneratedLetter) {
	fmt.Printf("--- %s / %s ---\n\n%s\n\n", generated.Persona.Name, generated.Letter.Provider, generated.Letter.Text)
	if generated.Letter.NeedsReview {
		fmt.Printf("NEEDS REVIEW: %s\n\n", generated.Letter.ReviewReason)
	}
}
