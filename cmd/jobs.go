package cmd

import (
	"context"
	"log"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"jobpilot/internal/logger"
	"jobpilot/internal/store"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect and manage stored jobs",
}

var jobsNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next pending job in review order",
	Run: func(_ *cobra.Command, _ []string) {
		withStore(func(ctx context.Context, st *store.Store, log *zap.Logger) {
			job, err := st.NextPendingJob(ctx)
			if err != nil {
				log.Fatal("picking the next job", zap.Error(err))
			}
			if job == nil {
				log.Info("no pending jobs")
				return
			}
			printJob(job)
		})
	},
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored jobs, most recently scraped first",
	Run: func(cmd *cobra.Command, _ []string) {
		withStore(func(ctx context.Context, st *store.Store, log *zap.Logger) {
			limit, _ := cmd.Flags().GetInt("limit")
			jobs, err := st.ListJobs(ctx, limit)
			if err != nil {
				log.Fatal("listing jobs", zap.Error(err))
			}
			for _, job := range jobs {
				fields := []zap.Field{
					zap.String("job_id", job.ID),
					zap.String("title", job.Title),
					zap.String("company", job.Company),
					zap.String("status", string(job.Status)),
				}
				if job.Deadline != nil {
					fields = append(fields, zap.String("deadline", job.Deadline.Format("2006-01-02")))
				}
				log.Info("job", fields...)
			}
		})
	},
}

var jobsSkipCmd = &cobra.Command{
	Use:   "skip <job-id>",
	Short: "Mark a job skipped",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		withStore(func(ctx context.Context, st *store.Store, log *zap.Logger) {
			if err := st.SetJobStatus(ctx, args[0], store.JobSkipped); err != nil {
				log.Fatal("skipping the job", zap.String("job_id", args[0]), zap.Error(err))
			}
			log.Info("job skipped", zap.String("job_id", args[0]))
		})
	},
}

var jobsExpireCmd = &cobra.Command{
	Use:   "expire <job-id>",
	Short: "Mark a job's posting link expired",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		withStore(func(ctx context.Context, st *store.Store, log *zap.Logger) {
			if err := st.SetLinkStatus(ctx, args[0], store.LinkExpired); err != nil {
				log.Fatal("expiring the job link", zap.String("job_id", args[0]), zap.Error(err))
			}
			log.Info("job link expired", zap.String("job_id", args[0]))
		})
	},
}

var jobsInterviewCmd = &cobra.Command{
	Use:   "interview <job-id>",
	Short: "Mark a job as having reached the interview stage",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		withStore(func(ctx context.Context, st *store.Store, log *zap.Logger) {
			if err := st.SetJobStatus(ctx, args[0], store.JobInterview); err != nil {
				log.Fatal("updating the job", zap.String("job_id", args[0]), zap.Error(err))
			}
			log.Info("job moved to interview", zap.String("job_id", args[0]))
		})
	},
}

var jobsDeleteCmd = &cobra.Command{
	Use:   "delete <job-id>",
	Short: "Remove a job and its applications",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		withStore(func(ctx context.Context, st *store.Store, log *zap.Logger) {
			if err := st.DeleteJob(ctx, args[0]); err != nil {
				log.Fatal("deleting the job", zap.String("job_id", args[0]), zap.Error(err))
			}
			log.Info("job deleted", zap.String("job_id", args[0]))
		})
	},
}

var applicationsCmd = &cobra.Command{
	Use:   "applications <job-id>",
	Short: "List applications recorded for a job",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		withStore(func(ctx context.Context, st *store.Store, log *zap.Logger) {
			apps, err := st.ApplicationsForJob(ctx, args[0])
			if err != nil {
				log.Fatal("listing applications", zap.String("job_id", args[0]), zap.Error(err))
			}
			for _, app := range apps {
				fields := []zap.Field{
					zap.Uint("application_id", app.ID),
					zap.String("status", string(app.Status)),
				}
				if app.DraftReference != "" {
					fields = append(fields, zap.String("draft_reference", app.DraftReference))
				}
				if app.SentAt != nil {
					fields = append(fields, zap.Time("sent_at", *app.SentAt))
				}
				log.Info("application", fields...)
			}
			if len(apps) == 0 {
				log.Info("no applications", zap.String("job_id", args[0]))
			}
		})
	},
}

var applicationsMarkCmd = &cobra.Command{
	Use:   "mark <application-id> <responded|rejected>",
	Short: "Record an employer response on an application",
	Args:  cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		withStore(func(ctx context.Context, st *store.Store, log *zap.Logger) {
			appID, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				log.Fatal("parsing the application id", zap.String("value", args[0]), zap.Error(err))
			}

			status := store.ApplicationStatus(args[1])
			if status != store.ApplicationResponded && status != store.ApplicationRejected {
				log.Fatal("invalid status, expected responded or rejected", zap.String("value", args[1]))
			}

			if err := st.SetApplicationStatus(ctx, uint(appID), status); err != nil {
				log.Fatal("updating the application", zap.Uint64("application_id", appID), zap.Error(err))
			}
			log.Info("application updated", zap.Uint64("application_id", appID), zap.String("status", string(status)))
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show job and application counters",
	Run: func(_ *cobra.Command, _ []string) {
		withStore(func(ctx context.Context, st *store.Store, log *zap.Logger) {
			stats, err := st.Stats(ctx)
			if err != nil {
				log.Fatal("reading stats", zap.Error(err))
			}
			printStats(stats, log)
		})
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(applicationsCmd)
	rootCmd.AddCommand(statsCmd)

	jobsCmd.AddCommand(jobsNextCmd)
	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsSkipCmd)
	jobsCmd.AddCommand(jobsExpireCmd)
	jobsCmd.AddCommand(jobsInterviewCmd)
	jobsCmd.AddCommand(jobsDeleteCmd)

	applicationsCmd.AddCommand(applicationsMarkCmd)

	jobsListCmd.Flags().Int("limit", 50, "maximum number of jobs to show")
}

// withStore is the shared boot for commands that only need the store.
func withStore(f func(ctx context.Context, st *store.Store, log *zap.Logger)) {
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

	f(ctx, st, logger)
}
