package services

import (
	"github.com/Abdo12KM/children-storybook-generator/application/ports/inbound"
	"github.com/Abdo12KM/children-storybook-generator/domain"
)

type fallbackSynthesizer struct{}

func NewFallbackSynthesizer() inbound.FallbackSynthesizerPort {
	return &fallbackSynthesizer{}
}

// Synthesize never fails. Page one introduces the character and the last page resolves the moral.
func (f *fallbackSynthesizer) Synthesize(request domain.StoryRequest, profile domain.LengthProfile, characterSheet string) domain.GeneratedStory {
	templates := newStoryTemplates(request, characterSheet)

	pageCount := profile.PageCount
	if pageCount < 1 {
		pageCount = domain.ResolveLengthProfile(domain.ShortStory).PageCount
	}

	pages := make([]domain.StoryPage, pageCount)
	for i := range pages {
		switch {
		case pageCount == 1:
			pages[i] = domain.StoryPage{
				Content:     templates.introContent() + " " + templates.moralContent(),
				ImagePrompt: templates.introImagePrompt(),
			}
		case i == 0:
			pages[i] = domain.StoryPage{
				Content:     templates.introContent(),
				ImagePrompt: templates.introImagePrompt(),
				Vocabulary:  []string{"wonderful", "magical"},
			}
		case i == pageCount-1:
			pages[i] = domain.StoryPage{
				Content:     templates.moralContent(),
				ImagePrompt: templates.moralImagePrompt(),
				Vocabulary:  []string{"journey", "promise"},
			}
		default:
			pages[i] = templates.continuationPage(0)
		}
		pages[i].PageNumber = i + 1
	}

	return domain.GeneratedStory{
		Title:               templates.title(),
		CharacterSheet:      templates.characterSheet,
		Pages:               pages,
		Summary:             templates.summary(),
		KeyVocabulary:       templates.keyVocabulary(),
		DiscussionQuestions: templates.discussionQuestions(),
		ActivityIdea:        templates.activityIdea(),
	}
}
