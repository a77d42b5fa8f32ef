package ai

import (
	"reflect"
	"testing"
)

func TestParseSections(t *testing.T) {
	text := "Quick note first.\n\n## Root Cause\nThe list was nil\nwhen rendered.\n\n**Fix**\n- Default to an empty slice\n  before mapping.\n2. Add a test\n\nNext steps:\n* ship it\n"

	got := ParseSections(text)
	want := []Section{
		{Title: "Overview", Key: "overview", Items: []string{"Quick note first."}},
		{Title: "Root Cause", Key: "root_cause", Items: []string{"The list was nil when rendered."}},
		{Title: "Fix", Key: "fix", Items: []string{"Default to an empty slice before mapping.", "Add a test"}},
		{Title: "Next steps", Key: "next_steps", Items: []string{"ship it"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected sections:\n got: %#v\nwant: %#v", got, want)
	}
}

func TestParseSectionsKeepsCodeFences(t *testing.T) {
	text := "## Fix\n```go\nif x == nil {\n\treturn\n}\n```\n"
	got := ParseSections(text)
	if len(got) != 1 || len(got[0].Items) != 1 {
		t.Fatalf("expected one section with one item, got %#v", got)
	}
	want := "```go\nif x == nil {\n\treturn\n}\n```"
	if got[0].Items[0] != want {
		t.Fatalf("expected fenced block %q, got %q", want, got[0].Items[0])
	}
}

func TestParseSectionsIgnoresSentencesEndingInColon(t *testing.T) {
	got := ParseSections("Here is what I found in the code:\n- one")
	if len(got) != 1 || got[0].Key != "overview" {
		t.Fatalf("expected a single overview section, got %#v", got)
	}
	if len(got[0].Items) != 2 {
		t.Fatalf("expected paragraph and list item, got %#v", got[0].Items)
	}
}

func TestParseSectionsEmptyHeadingHasItems(t *testing.T) {
	got := ParseSections("# Security\n# Performance\n- fine")
	if len(got) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(got))
	}
	if got[0].Items == nil || len(got[0].Items) != 0 {
		t.Fatalf("expected empty non-nil items, got %#v", got[0].Items)
	}
}

func TestFind(t *testing.T) {
	sections := []Section{
		{Key: "summary", Items: []string{"ok"}},
		{Key: "security_notes", Items: []string{"no secrets"}},
	}
	if got := Find(sections, "secur"); len(got) != 1 || got[0] != "no secrets" {
		t.Fatalf("unexpected result %v", got)
	}
	if got := Find(sections, "perform"); got != nil {
		t.Fatalf("expected nil for missing section, got %v", got)
	}
}
