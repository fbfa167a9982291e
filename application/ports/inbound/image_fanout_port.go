package inbound

import (
	"context"
	"github.com/Abdo12KM/children-storybook-generator/domain"
)

type ImageContext struct {
	ArtStyle       string
	CharacterSheet string
}

type ImageFanoutPort interface {
	Illustrate(ctx context.Context, pages []domain.StoryPage, imageCtx ImageContext) []domain.StoryPage
}
