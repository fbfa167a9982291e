package inbound

import "github.com/Abdo12KM/children-storybook-generator/domain"

type ParseResponseParams struct {
	RawText        string
	Request        domain.StoryRequest
	PageCount      int
	CharacterSheet string
}

// ResponseParserPort returns a *domain.ParseFailure when no story can be recovered.
type ResponseParserPort interface {
	Parse(params ParseResponseParams) (*domain.GeneratedStory, error)
}
