package platsbanken

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newSearchServer(t *testing.T, responses map[string]string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jobs/v1/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		data, _ := io.ReadAll(r.Body)
		var req struct {
			Filters []struct {
				Type  string `json:"type"`
				Value string `json:"value"`
			} `json:"filters"`
		}
		if err := json.Unmarshal(data, &req); err != nil {
			t.Errorf("decoding request: %s", err)
		}
		if len(req.Filters) != 1 || req.Filters[0].Type != "freetext" {
			t.Errorf("unexpected filters: %+v", req.Filters)
		}

		body, ok := responses[req.Filters[0].Value]
		if !ok {
			body = `{"ads": []}`
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server
}

func TestFetchDecodesAds(t *testing.T) {
	server := newSearchServer(t, map[string]string{
		"kundtjänst": `{"ads": [
			{
				"id": 12345,
				"title": "Kundtjänst Medarbetare",
				"workplaceName": "Acme AB",
				"workplace": "Göteborg",
				"description": "Vi söker en medarbetare.",
				"lastApplicationDate": "2025-02-01T23:59:59"
			}
		]}`,
	})

	client := New(Config{
		Keywords: []string{"kundtjänst"},
		BaseURL:  server.URL,
	}, nil)

	records, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.ID != "12345" {
		t.Fatalf("unexpected id: %s", rec.ID)
	}
	if rec.Company != "Acme AB" || rec.Location != "Göteborg" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.URL != adURLPrefix+"12345" {
		t.Fatalf("unexpected url: %s", rec.URL)
	}
	if rec.Deadline == nil || rec.Deadline.Day() != 1 || rec.Deadline.Month() != time.February {
		t.Fatalf("unexpected deadline: %v", rec.Deadline)
	}
}

func TestFetchMergesKeywordsByID(t *testing.T) {
	shared := `{"id": "a1", "title": "Butikssäljare", "workplaceName": "Butiken AB"}`
	server := newSearchServer(t, map[string]string{
		"butik":  `{"ads": [` + shared + `]}`,
		"säljare": `{"ads": [` + shared + `, {"id": "b2", "title": "Säljare", "workplaceName": "Annan AB"}]}`,
	})

	client := New(Config{
		Keywords: []string{"butik", "säljare"},
		BaseURL:  server.URL,
	}, nil)

	records, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(records) != 2 {
		t.Fatalf("expected the duplicate to be merged, got %d records", len(records))
	}
}

func TestFetchSkipsAdsWithoutTitle(t *testing.T) {
	server := newSearchServer(t, map[string]string{
		"kock": `{"ads": [{"id": "x", "workplaceName": "Krogen AB"}]}`,
	})

	client := New(Config{Keywords: []string{"kock"}, BaseURL: server.URL}, nil)

	records, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestFetchBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client := New(Config{Keywords: []string{"kock"}, BaseURL: server.URL}, nil)

	if _, err := client.Fetch(context.Background()); err == nil {
		t.Fatal("expected an error on a bad status")
	}
}

func TestRecordFromAdDerivesMissingID(t *testing.T) {
	rec := recordFromAd(ad{Title: "Servitör", WorkplaceName: "Krogen AB"})

	if rec.ID == "" || len(rec.ID) != 12 {
		t.Fatalf("expected a derived 12-char id, got %q", rec.ID)
	}
	if rec.ID != DeriveID("Servitör", "Krogen AB", "") {
		t.Fatal("derived id is not stable")
	}
}

func TestParseDeadline(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"2025-02-01", true},
		{"2025-02-01T23:59:59", true},
		{"2025-02-01T23:59:59Z", true},
		{"", false},
		{"not a date", false},
	}

	for _, tt := range tests {
		got := parseDeadline(tt.value)
		if (got != nil) != tt.want {
			t.Fatalf("parseDeadline(%q) = %v", tt.value, got)
		}
	}
}
