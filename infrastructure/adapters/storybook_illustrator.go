package adapters

import (
	"context"
	"fmt"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/outbound"
	"github.com/google/uuid"
	"strings"
)

const illustrationPrefix = "stories/illustrations"

type storybookIllustrator struct {
	logger     outbound.LoggerPort
	renderer   outbound.ImageRendererPort
	mediaStore outbound.MediaStorePort
}

// NewStorybookIllustrator renders a page image and returns the stored object's URL.
func NewStorybookIllustrator(renderer outbound.ImageRendererPort, mediaStore outbound.MediaStorePort, logger outbound.LoggerPort) outbound.ImageGeneratorPort {
	return &storybookIllustrator{
		logger:     logger,
		renderer:   renderer,
		mediaStore: mediaStore,
	}
}

func (s *storybookIllustrator) Generate(ctx context.Context, req outbound.GenerateImageRequest) (*outbound.GenerateImageResponse, error) {
	image, err := s.renderer.Render(ctx, s.composePrompt(req))
	if err != nil {
		return nil, err
	}

	url, err := s.mediaStore.Save(ctx, outbound.SaveMediaRequest{
		Key:         fmt.Sprintf("%s/%s.png", illustrationPrefix, uuid.NewString()),
		ContentType: "image/png",
		Content:     image,
	})
	if err != nil {
		return nil, err
	}

	return &outbound.GenerateImageResponse{ImageURL: url}, nil
}

func (s *storybookIllustrator) composePrompt(req outbound.GenerateImageRequest) string {
	parts := make([]string, 0, 3)
	if req.CharacterSheet != "" && !strings.Contains(req.Prompt, req.CharacterSheet) {
		parts = append(parts, req.CharacterSheet)
	}
	parts = append(parts, req.Prompt)

	style := req.Style
	if style == "" {
		style = "cartoon"
	}
	return fmt.Sprintf("%s, in a %s style, safe and friendly for young children", strings.Join(parts, " "), style)
}
