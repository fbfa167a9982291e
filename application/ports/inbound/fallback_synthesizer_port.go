package inbound

import "github.com/Abdo12KM/children-storybook-generator/domain"

type FallbackSynthesizerPort interface {
	Synthesize(request domain.StoryRequest, profile domain.LengthProfile, characterSheet string) domain.GeneratedStory
}
