package draft

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	gmailBaseURL    = "https://gmail.googleapis.com"
	gmailDraftsPath = "/gmail/v1/users/me/drafts"

	gmailTimeout = 30 * time.Second
)

// GmailCreator creates drafts in the user's Gmail Drafts folder through the
// Gmail REST API.
type GmailCreator struct {
	client     *resty.Client
	sender     string
	configured bool
	logger     *zap.Logger
}

// GmailConfig holds the credentials and sender identity for draft creation.
type GmailConfig struct {
	// AccessToken is an OAuth bearer token with the gmail.compose scope.
	AccessToken string
	// Sender is the From address of created drafts.
	Sender string
	// BaseURL overrides the API endpoint, used by tests.
	BaseURL string
}

// NewGmail builds a GmailCreator. Missing credentials surface as
// ErrConfigMissing on the first call rather than here, so a binary without
// Gmail configured can still run every other command.
func NewGmail(cfg GmailConfig, log *zap.Logger) *GmailCreator {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = gmailBaseURL
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(gmailTimeout)

	configured := false
	if token := strings.TrimSpace(cfg.AccessToken); token != "" {
		client.SetAuthToken(token)
		configured = true
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &GmailCreator{
		client:     client,
		sender:     strings.TrimSpace(cfg.Sender),
		configured: configured,
		logger:     log,
	}
}

type draftPayload struct {
	Message draftMessage `json:"message"`
}

type draftMessage struct {
	Raw string `json:"raw"`
}

type draftResponse struct {
	ID    string `json:"id"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateDraft assembles an RFC 2822 message and stores it as a Gmail draft,
// returning the draft id. Exactly one attempt is made.
func (c *GmailCreator) CreateDraft(ctx context.Context, req Request) (string, error) {
	if !c.configured {
		return "", fmt.Errorf("%w: gmail access token is not set", ErrConfigMissing)
	}
	if strings.TrimSpace(req.To) == "" {
		return "", fmt.Errorf("%w: recipient is required", ErrConfigMissing)
	}

	raw := base64.URLEncoding.EncodeToString([]byte(c.rfc2822(req)))

	var out draftResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(draftPayload{Message: draftMessage{Raw: raw}}).
		SetResult(&out).
		SetError(&out).
		Post(gmailDraftsPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized, resp.StatusCode() == http.StatusForbidden:
		return "", fmt.Errorf("%w: %s", ErrAuth, apiMessage(&out, resp.StatusCode()))
	case resp.IsError():
		return "", fmt.Errorf("%w: %s", ErrTransport, apiMessage(&out, resp.StatusCode()))
	}

	if out.ID == "" {
		return "", fmt.Errorf("%w: gmail api returned no draft id", ErrTransport)
	}

	c.logger.Info("draft created",
		zap.String("draft_id", out.ID),
		zap.String("to", req.To),
	)

	return out.ID, nil
}

func (c *GmailCreator) rfc2822(req Request) string {
	var builder strings.Builder
	if c.sender != "" {
		builder.WriteString("From: " + c.sender + "\r\n")
	}
	builder.WriteString("To: " + req.To + "\r\n")
	builder.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", req.Subject) + "\r\n")
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(req.Body)
	builder.WriteString("\r\n")

	return builder.String()
}

func apiMessage(out *draftResponse, status int) string {
	if out != nil && out.Error != nil && out.Error.Message != "" {
		return fmt.Sprintf("status %d: %s", status, out.Error.Message)
	}
	return fmt.Sprintf("status %d", status)
}
