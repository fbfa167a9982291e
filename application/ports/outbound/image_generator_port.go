package outbound

import "context"

type GenerateImageRequest struct {
	Prompt         string
	Style          string
	CharacterSheet string
}

type GenerateImageResponse struct {
	ImageURL string
}

// ImageGeneratorPort produces an addressable illustration for a single page.
type ImageGeneratorPort interface {
	Generate(ctx context.Context, req GenerateImageRequest) (*GenerateImageResponse, error)
}

// ImageRendererPort returns raw image bytes from a provider.
type ImageRendererPort interface {
	Render(ctx context.Context, prompt string) ([]byte, error)
}
