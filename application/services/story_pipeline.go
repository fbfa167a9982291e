package services

import (
	"context"
	"errors"
	"fmt"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/inbound"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/outbound"
	"github.com/Abdo12KM/children-storybook-generator/domain"
	"time"
)

type storyPipeline struct {
	logger        outbound.LoggerPort
	textGenerator outbound.TextGeneratorPort
	promptBuilder inbound.PromptBuilderPort
	parser        inbound.ResponseParserPort
	fallback      inbound.FallbackSynthesizerPort
	imageFanout   inbound.ImageFanoutPort
	temperature   float64
}

func NewStoryPipeline(
	logger outbound.LoggerPort,
	textGenerator outbound.TextGeneratorPort,
	promptBuilder inbound.PromptBuilderPort,
	parser inbound.ResponseParserPort,
	fallback inbound.FallbackSynthesizerPort,
	imageFanout inbound.ImageFanoutPort,
	temperature float64,
) inbound.StoryPipelinePort {
	return &storyPipeline{
		logger:        logger,
		textGenerator: textGenerator,
		promptBuilder: promptBuilder,
		parser:        parser,
		fallback:      fallback,
		imageFanout:   imageFanout,
		temperature:   temperature,
	}
}

// Generate runs Built -> Generated -> Parsed|FallenBack -> Illustrated -> Done.
// Only a text generation failure is returned to the caller.
func (s *storyPipeline) Generate(ctx context.Context, params inbound.GenerateStoryParams) (*inbound.GenerateStoryResult, error) {
	request := params.Request
	notify := func(stage domain.PipelineStage) {
		s.logger.DebugWithFields("Story pipeline stage", map[string]interface{}{
			"stage": stage,
			"child": request.ChildName,
		})
		if params.Observer != nil {
			params.Observer(domain.StageEvent{Stage: stage, At: time.Now()})
		}
	}

	prompt := s.promptBuilder.Build(request)
	notify(domain.StageBuilt)

	rawText, err := s.textGenerator.Generate(ctx, outbound.GenerateTextRequest{
		SystemText:  prompt.SystemText,
		PromptText:  prompt.PromptText,
		Temperature: s.temperature,
		JSONMode:    true,
	})
	if err != nil {
		s.logger.Error(err, "Failed to generate story text")
		return nil, fmt.Errorf("%w: %w", domain.ErrTextGeneration, err)
	}
	notify(domain.StageGenerated)

	fellBack := false
	var story domain.GeneratedStory

	parsed, err := s.parser.Parse(inbound.ParseResponseParams{
		RawText:        rawText,
		Request:        request,
		PageCount:      prompt.PageCount,
		CharacterSheet: prompt.CharacterSheet,
	})
	if err == nil {
		story = *parsed
		notify(domain.StageParsed)
	} else {
		reason := domain.ParseFailureReason("unknown")
		var parseFailure *domain.ParseFailure
		if errors.As(err, &parseFailure) {
			reason = parseFailure.Reason
		}
		s.logger.WarnWithFields("Story response could not be parsed, synthesizing fallback", map[string]interface{}{
			"reason": reason,
			"error":  err.Error(),
		})
		story = s.fallback.Synthesize(request, domain.LengthProfile{
			PageCount:    prompt.PageCount,
			WordsPerPage: prompt.WordsPerPage,
		}, prompt.CharacterSheet)
		fellBack = true
		notify(domain.StageFallenBack)
	}

	story.Pages = s.imageFanout.Illustrate(ctx, story.Pages, inbound.ImageContext{
		ArtStyle:       request.ArtStyle,
		CharacterSheet: story.CharacterSheet,
	})
	notify(domain.StageIllustrated)

	s.logger.InfoWithFields("Story generation complete", map[string]interface{}{
		"title":     story.Title,
		"pages":     len(story.Pages),
		"fell_back": fellBack,
	})
	notify(domain.StageDone)

	return &inbound.GenerateStoryResult{Story: story, FellBack: fellBack}, nil
}
