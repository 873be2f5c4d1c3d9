package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrNotFound is returned when a referenced job or application id is absent.
// It is always a caller error and never retried.
var ErrNotFound = errors.New("not found")

// Store persists jobs and applications in SQLite.
type Store struct {
	db *gorm.DB
}

// Config holds database settings, constructed once at process start.
type Config struct {
	Path string
}

// Open connects to the SQLite database at cfg.Path, creating the directory
// when needed, and migrates the schema.
func Open(cfg Config) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = filepath.Join("data", "jobs.db")
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA foreign_keys=ON")

	if err := db.AutoMigrate(&Job{}, &Application{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// UpsertJob inserts the record or merges it into the existing row. Descriptive
// fields (title, company, location, description, url, deadline, link status)
// are last-write-wins; contact email, contact name and why-perfect keep the
// existing value when the incoming one is empty. A duplicate id is the
// expected common case, not an error.
func (s *Store) UpsertJob(ctx context.Context, rec JobRecord) (*Job, error) {
	if rec.ID == "" {
		return nil, errors.New("job id is required")
	}

	var result *Job
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Job
		err := tx.First(&existing, "id = ?", rec.ID).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			job := newJobFromRecord(rec)
			if err := tx.Create(job).Error; err != nil {
				return err
			}
			result = job
			return nil
		case err != nil:
			return err
		}

		existing.Title = rec.Title
		existing.Company = rec.Company
		existing.Location = rec.Location
		existing.Description = rec.Description
		existing.URL = rec.URL
		existing.Source = rec.Source
		existing.Deadline = rec.Deadline
		if rec.LinkStatus != "" {
			existing.LinkStatus = rec.LinkStatus
		}

		// Enrichment is monotonic: never regress to unknown once known.
		if rec.ContactEmail != "" {
			existing.ContactEmail = rec.ContactEmail
		}
		if rec.ContactName != "" {
			existing.ContactName = rec.ContactName
		}
		if rec.WhyPerfect != "" {
			existing.WhyPerfect = rec.WhyPerfect
		}

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		result = &existing
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("upserting job %s: %w", rec.ID, err)
	}

	return result, nil
}

func newJobFromRecord(rec JobRecord) *Job {
	linkStatus := rec.LinkStatus
	if linkStatus == "" {
		linkStatus = LinkActive
	}

	return &Job{
		ID:           rec.ID,
		Title:        rec.Title,
		Company:      rec.Company,
		Location:     rec.Location,
		Description:  rec.Description,
		URL:          rec.URL,
		Source:       rec.Source,
		Deadline:     rec.Deadline,
		ContactEmail: rec.ContactEmail,
		ContactName:  rec.ContactName,
		WhyPerfect:   rec.WhyPerfect,
		LinkStatus:   linkStatus,
		Status:       JobPending,
	}
}

// NextPendingJob returns the pending job with the nearest deadline. Jobs
// without a deadline come last; ties go to the most recently scraped job.
// Returns (nil, nil) when no pending job exists.
func (s *Store) NextPendingJob(ctx context.Context) (*Job, error) {
	var job Job
	err := s.db.WithContext(ctx).
		Where("status = ? AND link_status = ?", JobPending, LinkActive).
		Order("deadline IS NULL, deadline ASC, updated_at DESC").
		First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching next pending job: %w", err)
	}

	return &job, nil
}

// GetJob returns the job with the given id or ErrNotFound.
func (s *Store) GetJob(ctx context.Context, id string) (*Job, error) {
	var job Job
	err := s.db.WithContext(ctx).First(&job, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching job %s: %w", id, err)
	}

	return &job, nil
}

// ListJobs returns jobs ordered by most recently scraped first.
func (s *Store) ListJobs(ctx context.Context, limit int) ([]*Job, error) {
	if limit <= 0 {
		limit = 100
	}

	var jobs []*Job
	if err := s.db.WithContext(ctx).Order("updated_at DESC").Limit(limit).Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}

	return jobs, nil
}

// SetJobStatus overwrites the status of the job. Any value of the enum may
// transition to any other since skip and undo flows are allowed.
func (s *Store) SetJobStatus(ctx context.Context, id string, status JobStatus) error {
	res := s.db.WithContext(ctx).Model(&Job{}).Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("updating job %s status: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("job %s: %w", id, ErrNotFound)
	}

	return nil
}

// SetLinkStatus marks the listing as active or expired.
func (s *Store) SetLinkStatus(ctx context.Context, id, linkStatus string) error {
	res := s.db.WithContext(ctx).Model(&Job{}).Where("id = ?", id).
		Update("link_status", linkStatus)
	if res.Error != nil {
		return fmt.Errorf("updating job %s link status: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("job %s: %w", id, ErrNotFound)
	}

	return nil
}

// DeleteJob removes a job and, via the foreign key, its applications.
func (s *Store) DeleteJob(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&Application{}).Error; err != nil {
			return fmt.Errorf("deleting applications for job %s: %w", id, err)
		}

		res := tx.Delete(&Job{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("deleting job %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("job %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

// RecordApplication creates an application row for the job and returns its id.
func (s *Store) RecordApplication(ctx context.Context, jobID, coverLetter string, status ApplicationStatus) (uint, error) {
	if _, err := s.GetJob(ctx, jobID); err != nil {
		return 0, err
	}

	app := Application{
		JobID:       jobID,
		Status:      status,
		CoverLetter: coverLetter,
	}
	if err := s.db.WithContext(ctx).Create(&app).Error; err != nil {
		return 0, fmt.Errorf("recording application for job %s: %w", jobID, err)
	}

	return app.ID, nil
}

// MarkApplicationSent transitions the application to sent with the draft
// reference reported by the draft capability.
func (s *Store) MarkApplicationSent(ctx context.Context, appID uint, draftRef string) error {
	now := time.Now().UTC()
	res := s.db.WithContext(ctx).Model(&Application{}).Where("id = ?", appID).
		Updates(map[string]any{
			"status":          ApplicationSent,
			"draft_reference": draftRef,
			"sent_at":         &now,
		})
	if res.Error != nil {
		return fmt.Errorf("marking application %d sent: %w", appID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("application %d: %w", appID, ErrNotFound)
	}

	return nil
}

// SetApplicationStatus records an out-of-band status change (responded,
// rejected) made by the user.
func (s *Store) SetApplicationStatus(ctx context.Context, appID uint, status ApplicationStatus) error {
	res := s.db.WithContext(ctx).Model(&Application{}).Where("id = ?", appID).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("updating application %d status: %w", appID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("application %d: %w", appID, ErrNotFound)
	}

	return nil
}

// SentApplication returns the sent application for the job, or nil when none
// exists. At most one application per job may be sent.
func (s *Store) SentApplication(ctx context.Context, jobID string) (*Application, error) {
	var app Application
	err := s.db.WithContext(ctx).
		Where("job_id = ? AND status = ?", jobID, ApplicationSent).
		First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching sent application for job %s: %w", jobID, err)
	}

	return &app, nil
}

// ApplicationsForJob lists applications for a job, newest first.
func (s *Store) ApplicationsForJob(ctx context.Context, jobID string) ([]*Application, error) {
	var apps []*Application
	err := s.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("listing applications for job %s: %w", jobID, err)
	}

	return apps, nil
}

// Stats aggregates job and application counters by status.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	db := s.db.WithContext(ctx)
	stats := &Stats{}

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalJobs, db.Model(&Job{}).Where("link_status = ?", LinkActive)},
		{&stats.PendingJobs, db.Model(&Job{}).Where("status = ? AND link_status = ?", JobPending, LinkActive)},
		{&stats.AppliedJobs, db.Model(&Job{}).Where("status = ?", JobApplied)},
		{&stats.SkippedJobs, db.Model(&Job{}).Where("status = ?", JobSkipped)},
		{&stats.Interviews, db.Model(&Job{}).Where("status = ?", JobInterview)},
		{&stats.TotalApplications, db.Model(&Application{})},
		{&stats.SentApplications, db.Model(&Application{}).Where("status = ?", ApplicationSent)},
	}

	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("aggregating stats: %w", err)
		}
	}

	startOfDay := time.Now().UTC().Truncate(24 * time.Hour)
	err := db.Model(&Job{}).
		Where("link_status = ? AND deadline >= ? AND deadline < ?", LinkActive, startOfDay, startOfDay.Add(24*time.Hour)).
		Count(&stats.DeadlineToday).Error
	if err != nil {
		return nil, fmt.Errorf("aggregating deadline stats: %w", err)
	}

	return stats, nil
}
