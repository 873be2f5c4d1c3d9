// Package platsbanken adapts the Swedish public job board API
// (Arbetsförmedlingen's Platsbanken) to the source contract.
package platsbanken

import (
	"context"
	"crypto/md5"
	"fmt"
	"net/http"
	"strings"
	"time"

	"jobpilot/internal/source"

	"github.com/go-resty/resty/v2"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	// SourceName ends up in the Job.Source column.
	SourceName = "platsbanken"

	defaultBaseURL = "https://platsbanken-api.arbetsformedlingen.se"
	searchPath     = "/jobs/v1/search"
	adURLPrefix    = "https://arbetsformedlingen.se/platsbanken/annonser/"

	defaultMaxRecords = 50
	requestTimeout    = 30 * time.Second
)

// Config drives the searches one Fetch performs.
type Config struct {
	// Keywords are searched one by one; results are merged by id.
	Keywords   []string
	MaxRecords int
	BaseURL    string
	UserAgent  string
}

// Client queries the Platsbanken search API.
type Client struct {
	client     *resty.Client
	keywords   []string
	maxRecords int
	logger     *zap.Logger
}

// New builds a Platsbanken source.
func New(cfg Config, log *zap.Logger) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	maxRecords := cfg.MaxRecords
	if maxRecords <= 0 {
		maxRecords = defaultMaxRecords
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout).
		SetHeader("Content-Type", "application/json")

	if ua := strings.TrimSpace(cfg.UserAgent); ua != "" {
		client.SetHeader("User-Agent", ua)
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		client:     client,
		keywords:   cfg.Keywords,
		maxRecords: maxRecords,
		logger:     log,
	}
}

func (c *Client) Name() string { return SourceName }

type searchRequest struct {
	Filters    []searchFilter `json:"filters"`
	Order      string         `json:"order"`
	MaxRecords int            `json:"maxRecords"`
	StartIndex int            `json:"startIndex"`
	Source     string         `json:"source"`
}

type searchFilter struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type searchResponse struct {
	Ads []map[string]any `json:"ads"`
}

// ad is the loosely-typed shape of one search hit. The API mixes naming
// conventions, so the payload is decoded with mapstructure instead of
// hand-picking map keys.
type ad struct {
	ID                  any    `mapstructure:"id"`
	Title               string `mapstructure:"title"`
	WorkplaceName       string `mapstructure:"workplaceName"`
	Workplace           string `mapstructure:"workplace"`
	Description         string `mapstructure:"description"`
	LastApplicationDate string `mapstructure:"lastApplicationDate"`
}

// Fetch runs one search per configured keyword and merges the hits by id.
func (c *Client) Fetch(ctx context.Context) ([]source.Record, error) {
	seen := make(map[string]struct{})
	var records []source.Record

	for _, keyword := range c.keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}

		hits, err := c.search(ctx, keyword)
		if err != nil {
			return nil, fmt.Errorf("searching %q: %w", keyword, err)
		}

		added := 0
		for _, rec := range hits {
			if _, dup := seen[rec.ID]; dup {
				continue
			}
			seen[rec.ID] = struct{}{}
			records = append(records, rec)
			added++
		}

		c.logger.Debug("platsbanken search",
			zap.String("keyword", keyword),
			zap.Int("hits", len(hits)),
			zap.Int("new", added),
		)
	}

	return records, nil
}

func (c *Client) search(ctx context.Context, keyword string) ([]source.Record, error) {
	var out searchResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(searchRequest{
			Filters:    []searchFilter{{Type: "freetext", Value: keyword}},
			Order:      "relevance",
			MaxRecords: c.maxRecords,
			StartIndex: 0,
			Source:     "pb",
		}).
		SetResult(&out).
		Post(searchPath)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status())
	}

	records := make([]source.Record, 0, len(out.Ads))
	for _, raw := range out.Ads {
		var hit ad
		if err := mapstructure.Decode(raw, &hit); err != nil {
			c.logger.Debug("skipping undecodable ad", zap.Error(err))
			continue
		}

		rec := recordFromAd(hit)
		if rec.ID == "" || rec.Title == "" {
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

func recordFromAd(hit ad) source.Record {
	id := strings.TrimSpace(fmt.Sprintf("%v", hit.ID))
	if id == "" || id == "<nil>" {
		id = DeriveID(hit.Title, hit.WorkplaceName, "")
	}

	return source.Record{
		ID:          id,
		Title:       hit.Title,
		Company:     hit.WorkplaceName,
		Location:    hit.Workplace,
		Description: hit.Description,
		URL:         adURLPrefix + id,
		Deadline:    parseDeadline(hit.LastApplicationDate),
	}
}

// DeriveID builds a stable job id from the posting content when the source
// does not provide one.
func DeriveID(title, company, url string) string {
	sum := md5.Sum([]byte(title + company + url))
	return fmt.Sprintf("%x", sum)[:12]
}

func parseDeadline(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}

	return nil
}
