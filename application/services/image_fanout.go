package services

import (
	"context"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/inbound"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/outbound"
	"github.com/Abdo12KM/children-storybook-generator/domain"
	"net/url"
	"strings"
	"sync"
)

type imageFanout struct {
	logger         outbound.LoggerPort
	imageGenerator outbound.ImageGeneratorPort
	workerPool     outbound.TaskDispatcher
}

func NewImageFanout(logger outbound.LoggerPort, imageGenerator outbound.ImageGeneratorPort, workerPool outbound.TaskDispatcher) inbound.ImageFanoutPort {
	return &imageFanout{
		logger:         logger,
		imageGenerator: imageGenerator,
		workerPool:     workerPool,
	}
}

// Illustrate returns a copy of pages with ImageURL set on every page, in the input order.
func (f *imageFanout) Illustrate(ctx context.Context, pages []domain.StoryPage, imageCtx inbound.ImageContext) []domain.StoryPage {
	out := make([]domain.StoryPage, len(pages))
	copy(out, pages)

	var wg sync.WaitGroup
	for i := range out {
		wg.Add(1)
		idx := i
		err := f.workerPool.Submit(func() {
			defer wg.Done()
			out[idx].ImageURL = f.illustratePage(ctx, out[idx], imageCtx)
		})
		if err != nil {
			wg.Done()
			f.logger.ErrorWithFields(err, "Failed to submit image task to worker pool", map[string]interface{}{
				"page": out[idx].PageNumber,
			})
			out[idx].ImageURL = PlaceholderImageURL(out[idx].ImagePrompt)
		}
	}
	wg.Wait()

	return out
}

func (f *imageFanout) illustratePage(ctx context.Context, page domain.StoryPage, imageCtx inbound.ImageContext) string {
	if err := ctx.Err(); err != nil {
		f.logger.WarnWithFields("Skipping image generation, request cancelled", map[string]interface{}{
			"page": page.PageNumber,
		})
		return PlaceholderImageURL(page.ImagePrompt)
	}

	res, err := f.imageGenerator.Generate(ctx, outbound.GenerateImageRequest{
		Prompt:         page.ImagePrompt,
		Style:          imageCtx.ArtStyle,
		CharacterSheet: imageCtx.CharacterSheet,
	})
	if err != nil {
		f.logger.ErrorWithFields(err, "Failed to generate image for page", map[string]interface{}{
			"page": page.PageNumber,
		})
		return PlaceholderImageURL(page.ImagePrompt)
	}
	if res == nil || res.ImageURL == "" {
		f.logger.WarnWithFields("Image generator returned no URL", map[string]interface{}{
			"page": page.PageNumber,
		})
		return PlaceholderImageURL(page.ImagePrompt)
	}

	return res.ImageURL
}

// componentUnescaper undoes QueryEscape for the characters encodeURIComponent leaves alone.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// PlaceholderImageURL encodes the prompt the way a browser's encodeURIComponent does.
func PlaceholderImageURL(prompt string) string {
	return "/placeholder.svg?height=400&width=600&query=" + componentUnescaper.Replace(url.QueryEscape(prompt))
}
