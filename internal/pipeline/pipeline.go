// Package pipeline orchestrates the job-to-application flow: ingest, persona
// selection, letter generation, draft emission and the status state machine.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"jobpilot/internal/draft"
	"jobpilot/internal/letter"
	"jobpilot/internal/persona"
	"jobpilot/internal/source"
	"jobpilot/internal/store"

	"go.uber.org/zap"
)

// ErrJobBusy is returned when a generation or draft operation is already in
// flight for the same job. Operations are serialized per job id.
var ErrJobBusy = errors.New("another operation is in flight for this job")

// Pipeline wires the store, the persona selector, the letter generator and
// the draft capability together. All dependencies are constructed once at
// process start and passed in.
type Pipeline struct {
	store    *store.Store
	personas *persona.Selector
	letters  *letter.Generator
	drafts   draft.Creator
	logger   *zap.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// New builds a Pipeline. The draft creator may be nil when drafting is not
// configured; SubmitDraft then fails with the config-missing error.
func New(st *store.Store, sel *persona.Selector, gen *letter.Generator, creator draft.Creator, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}

	return &Pipeline{
		store:    st,
		personas: sel,
		letters:  gen,
		drafts:   creator,
		logger:   log,
		inflight: make(map[string]struct{}),
	}
}

func (p *Pipeline) acquire(jobID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, busy := p.inflight[jobID]; busy {
		return fmt.Errorf("job %s: %w", jobID, ErrJobBusy)
	}
	p.inflight[jobID] = struct{}{}
	return nil
}

func (p *Pipeline) release(jobID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inflight, jobID)
}

// Ingest fetches records from the source, runs them through the filters and
// upserts the survivors one by one. Cancellation is checked between records;
// a partially ingested batch is safe because upsert is idempotent and
// re-running converges to the same end state. Returns the number of records
// upserted.
func (p *Pipeline) Ingest(ctx context.Context, src source.Source, filters ...source.Filter) (int, error) {
	records, err := src.Fetch(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetching from %s: %w", src.Name(), err)
	}

	p.logger.Info("fetched job records",
		zap.String("source", src.Name()),
		zap.Int("count", len(records)),
	)

	for _, f := range filters {
		var step source.Step
		records, step = f.Apply(records)
		p.logger.Info("ingest filter step",
			zap.String("name", f.Name()),
			zap.Int("initial", step.Initial),
			zap.Int("dropped", step.Dropped),
			zap.Int("left", step.Left),
		)
	}

	count := 0
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("ingestion cancelled",
				zap.Int("upserted", count),
				zap.Int("remaining", len(records)-count),
			)
			return count, err
		}

		job, err := p.store.UpsertJob(ctx, store.JobRecord{
			ID:          rec.ID,
			Title:       rec.Title,
			Company:     rec.Company,
			Location:    rec.Location,
			Description: rec.Description,
			URL:         rec.URL,
			Source:      src.Name(),
			Deadline:    rec.Deadline,
			LinkStatus:  store.LinkActive,
		})
		if err != nil {
			return count, err
		}

		count++
		p.logger.Debug("upserted job",
			zap.String("job_id", job.ID),
			zap.String("title", job.Title),
		)
	}

	return count, nil
}

// NextJob returns the next eligible pending job, or nil when the queue is
// empty.
func (p *Pipeline) NextJob(ctx context.Context) (*store.Job, error) {
	return p.store.NextPendingJob(ctx)
}

// GeneratedLetter pairs the letter with the persona it was written for.
type GeneratedLetter struct {
	Job     *store.Job
	Persona persona.Persona
	Letter  *letter.Letter
}

// GenerateLetter selects a persona for the job and produces a cover letter.
// Nothing is persisted: generation failures leave the job pending with no
// application row.
func (p *Pipeline) GenerateLetter(ctx context.Context, jobID string) (*GeneratedLetter, error) {
	if p.letters == nil {
		return nil, errors.New("letter generation is not configured")
	}

	if err := p.acquire(jobID); err != nil {
		return nil, err
	}
	defer p.release(jobID)

	job, err := p.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	selected := p.personas.Select(job.Title, job.Description)
	p.logger.Info("persona selected",
		zap.String("job_id", job.ID),
		zap.String("persona", selected.Name),
	)

	generated, err := p.letters.Generate(ctx, job, selected)
	if err != nil {
		return nil, err
	}

	return &GeneratedLetter{Job: job, Persona: selected, Letter: generated}, nil
}

// Submission reports a successful draft emission.
type Submission struct {
	ApplicationID  uint
	DraftReference string
	Recipient      string
	Subject        string
}

// SubmitDraft records the reviewed letter as a draft application, emits the
// email draft and then walks the state machine forward: the application
// becomes sent, then the job becomes applied, in that order. An emitter
// failure leaves the application at draft and the job pending. When the store
// write after a successful emission fails, the error tells the operator the
// draft may already exist externally.
func (p *Pipeline) SubmitDraft(ctx context.Context, jobID, coverLetter, toEmail string) (*Submission, error) {
	if err := p.acquire(jobID); err != nil {
		return nil, err
	}
	defer p.release(jobID)

	if p.drafts == nil {
		return nil, fmt.Errorf("%w: no draft capability configured", draft.ErrConfigMissing)
	}

	job, err := p.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if sent, err := p.store.SentApplication(ctx, jobID); err != nil {
		return nil, err
	} else if sent != nil {
		return nil, fmt.Errorf("job %s already has a sent application (draft %s)", jobID, sent.DraftReference)
	}

	appID, err := p.store.RecordApplication(ctx, jobID, coverLetter, store.ApplicationDraft)
	if err != nil {
		return nil, err
	}

	recipient := toEmail
	if recipient == "" {
		recipient = draft.Recipient(job.ContactEmail, job.Company)
	}
	subject := draft.Subject(job.Title, job.Company)

	draftRef, err := p.drafts.CreateDraft(ctx, draft.Request{
		To:      recipient,
		Subject: subject,
		Body:    coverLetter,
	})
	if err != nil {
		// The application stays at draft and the job stays pending.
		return nil, err
	}

	if err := p.store.MarkApplicationSent(ctx, appID, draftRef); err != nil {
		return nil, fmt.Errorf("draft %s was created but recording it failed, the draft may already exist in your mailbox: %w", draftRef, err)
	}

	if err := p.store.SetJobStatus(ctx, jobID, store.JobApplied); err != nil {
		return nil, fmt.Errorf("application %d is sent (draft %s) but updating the job failed: %w", appID, draftRef, err)
	}

	p.logger.Info("application submitted",
		zap.String("job_id", jobID),
		zap.Uint("application_id", appID),
		zap.String("draft_reference", draftRef),
	)

	return &Submission{
		ApplicationID:  appID,
		DraftReference: draftRef,
		Recipient:      recipient,
		Subject:        subject,
	}, nil
}

// Skip marks the job skipped. Always allowed, from any status.
func (p *Pipeline) Skip(ctx context.Context, jobID string) error {
	if err := p.store.SetJobStatus(ctx, jobID, store.JobSkipped); err != nil {
		return err
	}

	p.logger.Info("job skipped", zap.String("job_id", jobID))
	return nil
}

// Stats returns aggregate counts by status.
func (p *Pipeline) Stats(ctx context.Context) (*store.Stats, error) {
	return p.store.Stats(ctx)
}
