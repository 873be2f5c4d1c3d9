// Package draft emits email drafts for reviewed applications. It never sends
// mail and never writes application status; it only reports the outcome of a
// single draft-creation attempt to the orchestrator.
package draft

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Typed emission failures. The emitter never retries on its own: a blind
// retry risks a duplicate draft, which is worse than surfacing the failure.
var (
	ErrAuth          = errors.New("draft auth failure")
	ErrTransport     = errors.New("draft transport failure")
	ErrConfigMissing = errors.New("draft configuration missing")
)

// Request describes one draft to create.
type Request struct {
	To      string
	Subject string
	Body    string
}

// Creator is the external draft-creation capability.
type Creator interface {
	// CreateDraft creates a single draft and returns its opaque reference.
	CreateDraft(ctx context.Context, req Request) (string, error)
}

// Subject derives the draft subject line for a job.
func Subject(title, company string) string {
	return fmt.Sprintf("Application – %s at %s", title, company)
}

// Recipient returns the contact email when known, otherwise a deterministic
// placeholder derived from the company name ("jobb@<company-domain>"). The
// placeholder is meant to be corrected during review, never sent blindly.
func Recipient(contactEmail, company string) string {
	if email := strings.TrimSpace(contactEmail); email != "" {
		return email
	}

	return "jobb@" + companyDomain(company)
}

func companyDomain(company string) string {
	slug := strings.ToLower(strings.TrimSpace(company))
	for _, suffix := range []string{" ab", " sverige", " hb", " kb"} {
		slug = strings.TrimSuffix(slug, suffix)
	}

	var builder strings.Builder
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			builder.WriteRune(r)
		case r == 'å' || r == 'ä':
			builder.WriteRune('a')
		case r == 'ö':
			builder.WriteRune('o')
		}
	}

	domain := builder.String()
	if domain == "" {
		domain = "example"
	}

	return domain + ".se"
}
