package inbound

import "github.com/Abdo12KM/children-storybook-generator/domain"

type Prompt struct {
	SystemText     string
	PromptText     string
	CharacterSheet string
	PageCount      int
	WordsPerPage   int
}

type PromptBuilderPort interface {
	Build(request domain.StoryRequest) Prompt
}
