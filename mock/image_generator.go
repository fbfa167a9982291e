package mock_generator

import (
	"context"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/outbound"
)

// PixelDataURL is a transparent 1x1 PNG.
const PixelDataURL = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type mockImageGenerator struct{}

func NewMockImageGenerator() outbound.ImageGeneratorPort {
	return mockImageGenerator{}
}

func (mockImageGenerator) Generate(ctx context.Context, _ outbound.GenerateImageRequest) (*outbound.GenerateImageResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &outbound.GenerateImageResponse{ImageURL: PixelDataURL}, nil
}
