package catalog

import (
	"testing"

	"techbrief/internal/core"
)

func TestDefault(t *testing.T) {
	c := Default()

	if c.Len() != 8 {
		t.Fatalf("expected 8 built-in categories, got %d", c.Len())
	}

	wantOrder := []string{
		"ai-models", "robotics", "science-space", "hardware",
		"software", "consumer-tech", "industry", "cybersecurity",
	}
	for i, e := range c.Entries() {
		if e.ID != wantOrder[i] {
			t.Errorf("entry %d: got id %q, want %q", i, e.ID, wantOrder[i])
		}
	}

	entry, ok := c.Lookup("ai-models")
	if !ok {
		t.Fatal("ai-models must be in the default catalog")
	}
	if entry.Title != "AI Models, Frameworks & Tools" || entry.Icon != "brain" {
		t.Errorf("unexpected ai-models entry: %+v", entry)
	}
}

func TestNew_DuplicateIDsKeepFirst(t *testing.T) {
	c := New([]core.CatalogEntry{
		{ID: "a", Title: "First"},
		{ID: "b", Title: "Other"},
		{ID: "a", Title: "Second"},
	})

	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	entry, _ := c.Lookup("a")
	if entry.Title != "First" {
		t.Errorf("duplicate id must keep the first occurrence, got %q", entry.Title)
	}
}

func TestEntries_ReturnsCopy(t *testing.T) {
	c := New([]core.CatalogEntry{{ID: "a", Title: "A"}})

	entries := c.Entries()
	entries[0].Title = "mutated"

	if fresh := c.Entries(); fresh[0].Title != "A" {
		t.Error("mutating the returned slice must not affect the catalog")
	}
}

func TestLookup_Missing(t *testing.T) {
	if _, ok := Default().Lookup("nope"); ok {
		t.Error("unknown id must not resolve")
	}
}
