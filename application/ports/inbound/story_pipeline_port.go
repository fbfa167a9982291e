package inbound

import (
	"context"
	"github.com/Abdo12KM/children-storybook-generator/domain"
)

type StageObserver func(event domain.StageEvent)

type GenerateStoryParams struct {
	Request  domain.StoryRequest
	Observer StageObserver
}

type GenerateStoryResult struct {
	Story    domain.GeneratedStory
	FellBack bool
}

type StoryPipelinePort interface {
	Generate(ctx context.Context, params GenerateStoryParams) (*GenerateStoryResult, error)
}
