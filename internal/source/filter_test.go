package source

import (
	"testing"
	"time"
)

func TestLocationFilterKeepsAllowed(t *testing.T) {
	filter := NewLocationFilter([]string{"Göteborg", "Mölndal"})

	records := []Record{
		{ID: "1", Location: "Göteborg"},
		{ID: "2", Location: "Stockholm"},
		{ID: "3", Location: "Mölndal, Västra Götaland"},
		{ID: "4"},
	}

	kept, step := filter.Apply(records)
	if len(kept) != 2 {
		t.Fatalf("expected 2 records, got %d", len(kept))
	}
	if kept[0].ID != "1" || kept[1].ID != "3" {
		t.Fatalf("unexpected records kept: %v", kept)
	}
	if step.Initial != 4 || step.Dropped != 2 || step.Left != 2 {
		t.Fatalf("unexpected step: %+v", step)
	}
}

func TestLocationFilterEmptyListKeepsEverything(t *testing.T) {
	filter := NewLocationFilter(nil)

	kept, step := filter.Apply([]Record{{ID: "1"}, {ID: "2", Location: "Kiruna"}})
	if len(kept) != 2 {
		t.Fatalf("expected everything kept, got %d", len(kept))
	}
	if step.Dropped != 0 {
		t.Fatalf("unexpected step: %+v", step)
	}
}

func TestLocationFilterIsCaseInsensitive(t *testing.T) {
	filter := NewLocationFilter([]string{"göteborg"})

	kept, _ := filter.Apply([]Record{{ID: "1", Location: "GÖTEBORG"}})
	if len(kept) != 1 {
		t.Fatal("expected a case-insensitive match")
	}
}

func TestDeadlineFilterDropsPastDeadlines(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	filter := &deadlineFilter{now: func() time.Time { return now }}

	records := []Record{
		{ID: "past", Deadline: &past},
		{ID: "future", Deadline: &future},
		{ID: "open"},
	}

	kept, step := filter.Apply(records)
	if len(kept) != 2 {
		t.Fatalf("expected 2 records, got %d", len(kept))
	}
	if kept[0].ID != "future" || kept[1].ID != "open" {
		t.Fatalf("unexpected records kept: %v", kept)
	}
	if step.Dropped != 1 {
		t.Fatalf("unexpected step: %+v", step)
	}
}
