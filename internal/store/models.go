package store

import "time"

// JobStatus is the lifecycle state of a job posting.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobApplied   JobStatus = "applied"
	JobSkipped   JobStatus = "skipped"
	JobInterview JobStatus = "interview"
)

// ApplicationStatus is the lifecycle state of a single application.
type ApplicationStatus string

const (
	ApplicationDraft     ApplicationStatus = "draft"
	ApplicationSent      ApplicationStatus = "sent"
	ApplicationResponded ApplicationStatus = "responded"
	ApplicationRejected  ApplicationStatus = "rejected"
)

const (
	LinkActive  = "active"
	LinkExpired = "expired"
)

// Job is one external posting, keyed by a stable source-derived id.
// ContactEmail, ContactName and WhyPerfect are enrichment fields: once set
// they survive re-ingestion with empty incoming values.
type Job struct {
	ID           string `gorm:"primaryKey"`
	Title        string `gorm:"not null"`
	Company      string `gorm:"not null"`
	Location     string
	Description  string
	URL          string
	Source       string
	Deadline     *time.Time `gorm:"index"`
	ContactEmail string
	ContactName  string
	WhyPerfect   string
	LinkStatus   string    `gorm:"default:active"`
	Status       JobStatus `gorm:"index;default:pending"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Applications []Application `gorm:"constraint:OnDelete:CASCADE"`
}

func (Job) TableName() string { return "jobs" }

// Application is one generated cover letter tied to a job. DraftReference is
// the opaque id returned by the draft capability once a draft exists.
type Application struct {
	ID             uint   `gorm:"primaryKey"`
	JobID          string `gorm:"not null;index"`
	Status         ApplicationStatus
	CoverLetter    string
	DraftReference string
	Notes          string
	SentAt         *time.Time
	FollowUpAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Application) TableName() string { return "applications" }

// JobRecord is the raw, idempotently upsertable shape produced by a job
// source. Empty enrichment values never overwrite persisted ones.
type JobRecord struct {
	ID           string
	Title        string
	Company      string
	Location     string
	Description  string
	URL          string
	Source       string
	Deadline     *time.Time
	ContactEmail string
	ContactName  string
	WhyPerfect   string
	LinkStatus   string
}

// Stats aggregates counters for the status dashboard.
type Stats struct {
	TotalJobs         int64
	PendingJobs       int64
	AppliedJobs       int64
	SkippedJobs       int64
	Interviews        int64
	TotalApplications int64
	SentApplications  int64
	DeadlineToday     int64
}
