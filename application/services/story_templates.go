package services

import (
	"fmt"
	"github.com/Abdo12KM/children-storybook-generator/domain"
	"strings"
)

const defaultArtStyle = "children's book illustration"

// storyTemplates holds the deterministic text used to repair or synthesize a story.
type storyTemplates struct {
	request        domain.StoryRequest
	characterSheet string
}

func newStoryTemplates(request domain.StoryRequest, characterSheet string) storyTemplates {
	if strings.TrimSpace(characterSheet) == "" {
		characterSheet = BuildCharacterSheet(request)
	}
	return storyTemplates{request: request, characterSheet: characterSheet}
}

func (t storyTemplates) artStyle() string {
	if s := strings.TrimSpace(t.request.ArtStyle); s != "" {
		return s
	}
	return defaultArtStyle
}

func (t storyTemplates) title() string {
	return fmt.Sprintf("%s and the %s", t.request.ChildName, t.request.MainCharacter)
}

func (t storyTemplates) introContent() string {
	return fmt.Sprintf("Once upon a time, there was a child named %s who met a wonderful %s in %s. "+
		"This is their magical adventure about %s.",
		t.request.ChildName, t.request.MainCharacter, t.request.Setting, t.request.Theme)
}

func (t storyTemplates) introImagePrompt() string {
	return fmt.Sprintf("%s A child named %s meeting a %s in %s, %s style",
		t.characterSheet, t.request.ChildName, t.request.MainCharacter, t.request.Setting, t.artStyle())
}

func (t storyTemplates) continuationContent() string {
	return fmt.Sprintf("%s and the %s continued their adventure in %s, discovering more about %s with every step they took together.",
		t.request.ChildName, t.request.MainCharacter, t.request.Setting, t.request.Theme)
}

func (t storyTemplates) continuationImagePrompt() string {
	return fmt.Sprintf("%s %s and the %s exploring %s together, %s style",
		t.characterSheet, t.request.ChildName, t.request.MainCharacter, t.request.Setting, t.artStyle())
}

func (t storyTemplates) moralContent() string {
	return fmt.Sprintf("At the end of their journey, %s and the %s understood the true meaning of %s. "+
		"They promised to remember it wherever their next adventure might take them.",
		t.request.ChildName, t.request.MainCharacter, moralPhrase(t.request))
}

func (t storyTemplates) moralImagePrompt() string {
	return fmt.Sprintf("%s %s and the %s smiling together at the end of their adventure in %s, %s style",
		t.characterSheet, t.request.ChildName, t.request.MainCharacter, t.request.Setting, t.artStyle())
}

// sceneImagePrompt builds an illustration prompt from page text when the model left it out.
func (t storyTemplates) sceneImagePrompt(content string) string {
	scene := []rune(strings.TrimSpace(content))
	if len(scene) > 200 {
		scene = scene[:200]
	}
	return fmt.Sprintf("%s Scene: %s, %s style", t.characterSheet, string(scene), t.artStyle())
}

func (t storyTemplates) continuationPage(pageNumber int) domain.StoryPage {
	return domain.StoryPage{
		PageNumber:  pageNumber,
		Content:     t.continuationContent(),
		ImagePrompt: t.continuationImagePrompt(),
	}
}

func (t storyTemplates) summary() string {
	return fmt.Sprintf("A heartwarming story about %s learning about %s with help from a %s.",
		t.request.ChildName, t.request.Theme, t.request.MainCharacter)
}

func (t storyTemplates) keyVocabulary() []string {
	return []string{"adventure", "friendship", "brave"}
}

func (t storyTemplates) discussionQuestions() []string {
	return []string{
		fmt.Sprintf("What did %s learn from the %s?", t.request.ChildName, t.request.MainCharacter),
		fmt.Sprintf("How can you be brave like %s?", t.request.ChildName),
	}
}

func (t storyTemplates) activityIdea() string {
	return fmt.Sprintf("Draw your own picture of %s and the %s having an adventure together.",
		t.request.ChildName, t.request.MainCharacter)
}
