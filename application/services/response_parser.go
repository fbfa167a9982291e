package services

import (
	"encoding/json"
	"errors"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/inbound"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/outbound"
	"github.com/Abdo12KM/children-storybook-generator/domain"
	"regexp"
	"strings"
)

type responseParser struct {
	logger      outbound.LoggerPort
	fenceRegexp *regexp.Regexp
}

func NewResponseParser(logger outbound.LoggerPort) inbound.ResponseParserPort {
	return &responseParser{
		logger:      logger,
		fenceRegexp: regexp.MustCompile("```[A-Za-z]*"),
	}
}

func (r *responseParser) Parse(params inbound.ParseResponseParams) (*domain.GeneratedStory, error) {
	raw, err := r.extractObject(params.RawText)
	if err != nil {
		return nil, err
	}

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, &domain.ParseFailure{Reason: domain.InvalidJSON, Err: err}
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, &domain.ParseFailure{Reason: domain.InvalidJSON, Err: errors.New("top-level value is not an object")}
	}

	title, _ := obj["title"].(string)
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &domain.ParseFailure{Reason: domain.MissingFields, Err: errors.New("title is missing")}
	}
	rawPages, ok := obj["pages"].([]any)
	if !ok {
		return nil, &domain.ParseFailure{Reason: domain.MissingFields, Err: errors.New("pages is not an array")}
	}

	templates := newStoryTemplates(params.Request, params.CharacterSheet)

	characterSheet := nonEmptyString(obj["characterSheet"])
	if characterSheet == "" {
		characterSheet = templates.characterSheet
	}

	pages := r.reconcilePages(rawPages, params.PageCount, templates)
	if len(rawPages) != params.PageCount {
		r.logger.WarnWithFields("Reconciled story page count", map[string]interface{}{
			"expected": params.PageCount,
			"received": len(rawPages),
		})
	}

	story := &domain.GeneratedStory{
		Title:               title,
		CharacterSheet:      characterSheet,
		Pages:               pages,
		Summary:             nonEmptyString(obj["summary"]),
		KeyVocabulary:       stringSlice(obj["keyVocabulary"]),
		DiscussionQuestions: stringSlice(obj["discussionQuestions"]),
		ActivityIdea:        nonEmptyString(obj["activityIdea"]),
	}
	if story.Summary == "" {
		story.Summary = templates.summary()
	}
	if len(story.KeyVocabulary) == 0 {
		story.KeyVocabulary = templates.keyVocabulary()
	}
	if len(story.DiscussionQuestions) == 0 {
		story.DiscussionQuestions = templates.discussionQuestions()
	}
	if story.ActivityIdea == "" {
		story.ActivityIdea = templates.activityIdea()
	}

	return story, nil
}

func (r *responseParser) extractObject(text string) (string, error) {
	cleaned := r.fenceRegexp.ReplaceAllString(text, "")
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end < start {
		return "", &domain.ParseFailure{Reason: domain.NoJSONFound}
	}
	return cleaned[start : end+1], nil
}

// reconcilePages returns exactly pageCount pages numbered 1..pageCount.
func (r *responseParser) reconcilePages(rawPages []any, pageCount int, templates storyTemplates) []domain.StoryPage {
	pages := make([]domain.StoryPage, 0, pageCount)
	for _, rawPage := range rawPages {
		if len(pages) == pageCount {
			break
		}
		obj, ok := rawPage.(map[string]any)
		if !ok {
			continue
		}
		page := domain.StoryPage{
			Content:     nonEmptyString(obj["content"]),
			ImagePrompt: nonEmptyString(obj["imagePrompt"]),
			Vocabulary:  stringSlice(obj["vocabulary"]),
		}
		if page.Content == "" {
			page.Content = templates.continuationContent()
		}
		if page.ImagePrompt == "" {
			page.ImagePrompt = templates.sceneImagePrompt(page.Content)
		}
		pages = append(pages, page)
	}

	for len(pages) < pageCount {
		pages = append(pages, templates.continuationPage(0))
	}

	for i := range pages {
		pages[i].PageNumber = i + 1
	}
	return pages
}

func nonEmptyString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := nonEmptyString(item); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
