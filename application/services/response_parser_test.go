package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/inbound"
	"github.com/Abdo12KM/children-storybook-generator/domain"
	"reflect"
	"strings"
	"testing"
)

func storyJSON(t *testing.T, pageCount int) string {
	t.Helper()
	pages := make([]map[string]any, pageCount)
	for i := range pages {
		pages[i] = map[string]any{
			"pageNumber":  i + 1,
			"content":     fmt.Sprintf("Page %d content.", i+1),
			"imagePrompt": fmt.Sprintf("Scene %d", i+1),
			"vocabulary":  []string{"forest", "fox"},
		}
	}
	payload, err := json.Marshal(map[string]any{
		"title":               "Mia and the Fox",
		"characterSheet":      "A red fox with a blue scarf",
		"pages":               pages,
		"summary":             "Mia makes a friend.",
		"keyVocabulary":       []string{"friend", "forest"},
		"discussionQuestions": []string{"Who did Mia meet?"},
		"activityIdea":        "Draw a fox.",
	})
	if err != nil {
		t.Fatal("Failed to marshal story:", err)
	}
	return string(payload)
}

func parseParams(raw string, pageCount int) inbound.ParseResponseParams {
	req := sampleRequest()
	return inbound.ParseResponseParams{
		RawText:        raw,
		Request:        req,
		PageCount:      pageCount,
		CharacterSheet: BuildCharacterSheet(req),
	}
}

func TestResponseParser_Failures(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		reason domain.ParseFailureReason
	}{
		{"empty", "", domain.NoJSONFound},
		{"prose", "Once upon a time there was a fox.", domain.NoJSONFound},
		{"closing before opening", "} nothing here {", domain.NoJSONFound},
		{"syntax error", "{\"title\": \"x\", \"pages\": [}", domain.InvalidJSON},
		{"missing title", "{\"pages\": []}", domain.MissingFields},
		{"blank title", "{\"title\": \"  \", \"pages\": []}", domain.MissingFields},
		{"pages not array", "{\"title\": \"x\", \"pages\": {}}", domain.MissingFields},
	}

	parser := NewResponseParser(newTestLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			story, err := parser.Parse(parseParams(tt.raw, 6))
			if story != nil {
				t.Fatal("expected no story")
			}
			var pf *domain.ParseFailure
			if !errors.As(err, &pf) {
				t.Fatalf("expected ParseFailure, got %v", err)
			}
			if pf.Reason != tt.reason {
				t.Errorf("got reason %q, want %q", pf.Reason, tt.reason)
			}
		})
	}
}

func TestResponseParser_WellFormed(t *testing.T) {
	parser := NewResponseParser(newTestLogger())
	raw := "Here is your story:\n```json\n" + storyJSON(t, 6) + "\n```\nEnjoy!"

	story, err := parser.Parse(parseParams(raw, 6))
	if err != nil {
		t.Fatal("Failed to parse story:", err)
	}
	if len(story.Pages) != 6 {
		t.Fatalf("got %d pages", len(story.Pages))
	}
	if story.Pages[0].PageNumber != 1 || story.Pages[5].PageNumber != 6 {
		t.Errorf("unexpected numbering %d..%d", story.Pages[0].PageNumber, story.Pages[5].PageNumber)
	}
	if story.Title != "Mia and the Fox" || story.CharacterSheet != "A red fox with a blue scarf" {
		t.Errorf("unexpected header fields %q / %q", story.Title, story.CharacterSheet)
	}
	if story.Pages[2].ImagePrompt != "Scene 3" {
		t.Errorf("unexpected image prompt %q", story.Pages[2].ImagePrompt)
	}
}

func TestResponseParser_ReconcilesPageCount(t *testing.T) {
	tests := []struct {
		name      string
		received  int
		pageCount int
	}{
		{"pads medium story", 9, 12},
		{"truncates long story", 25, 20},
		{"pads empty pages", 0, 6},
	}

	parser := NewResponseParser(newTestLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			story, err := parser.Parse(parseParams(storyJSON(t, tt.received), tt.pageCount))
			if err != nil {
				t.Fatal("Failed to parse story:", err)
			}
			if len(story.Pages) != tt.pageCount {
				t.Fatalf("got %d pages, want %d", len(story.Pages), tt.pageCount)
			}
			for i, page := range story.Pages {
				if page.PageNumber != i+1 {
					t.Errorf("page %d has number %d", i, page.PageNumber)
				}
				if page.Content == "" || page.ImagePrompt == "" {
					t.Errorf("page %d has empty content or prompt", i+1)
				}
			}
			if tt.received > tt.pageCount && story.Pages[tt.pageCount-1].Content != fmt.Sprintf("Page %d content.", tt.pageCount) {
				t.Errorf("expected the first pages to be kept, last is %q", story.Pages[tt.pageCount-1].Content)
			}
			if tt.received < tt.pageCount && !strings.Contains(story.Pages[tt.pageCount-1].Content, "a fox") {
				t.Errorf("expected padded page to reference the character, got %q", story.Pages[tt.pageCount-1].Content)
			}
		})
	}
}

func TestResponseParser_BackfillsFields(t *testing.T) {
	raw := `{"title": "Fox Friends", "pages": [
		{"pageNumber": 7, "content": "Mia saw a fox.", "vocabulary": ["fox", 3, ""]},
		"not a page",
		{"pageNumber": 2, "imagePrompt": "A fox waving"}
	], "keyVocabulary": "not-an-array", "discussionQuestions": [], "summary": 42}`

	story, err := NewResponseParser(newTestLogger()).Parse(parseParams(raw, 6))
	if err != nil {
		t.Fatal("Failed to parse story:", err)
	}

	if story.Summary == "" || len(story.KeyVocabulary) == 0 || len(story.DiscussionQuestions) == 0 || story.ActivityIdea == "" {
		t.Fatalf("required fields not backfilled: %+v", story)
	}
	if !reflect.DeepEqual(story.KeyVocabulary, []string{"adventure", "friendship", "brave"}) {
		t.Errorf("unexpected vocabulary %v", story.KeyVocabulary)
	}
	if story.CharacterSheet == "" {
		t.Error("character sheet not backfilled")
	}
	if !reflect.DeepEqual(story.Pages[0].Vocabulary, []string{"fox"}) {
		t.Errorf("unexpected page vocabulary %v", story.Pages[0].Vocabulary)
	}
	if !strings.Contains(story.Pages[0].ImagePrompt, "Mia saw a fox.") {
		t.Errorf("missing image prompt not derived from content: %q", story.Pages[0].ImagePrompt)
	}
	if story.Pages[1].ImagePrompt != "A fox waving" || story.Pages[1].Content == "" {
		t.Errorf("unexpected second page %+v", story.Pages[1])
	}
	if story.Pages[0].PageNumber != 1 || story.Pages[1].PageNumber != 2 {
		t.Error("pages were not renumbered densely")
	}
}

func TestResponseParser_Idempotent(t *testing.T) {
	parser := NewResponseParser(newTestLogger())
	raw := storyJSON(t, 4)

	first, err := parser.Parse(parseParams(raw, 6))
	if err != nil {
		t.Fatal("Failed to parse story:", err)
	}
	second, err := parser.Parse(parseParams(raw, 6))
	if err != nil {
		t.Fatal("Failed to parse story:", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical stories for identical input")
	}
}
