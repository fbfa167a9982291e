package mock_generator

import (
	"context"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/outbound"
	"time"
)

type mockTextGenerator struct {
	logger      outbound.LoggerPort
	storyReader StoryReader
	fileName    string
}

// NewMockTextGenerator replays the story in fileName, fenced the way chat models tend to reply.
func NewMockTextGenerator(storyReader StoryReader, fileName string, logger outbound.LoggerPort) outbound.TextGeneratorPort {
	return &mockTextGenerator{
		logger:      logger,
		storyReader: storyReader,
		fileName:    fileName,
	}
}

func (m *mockTextGenerator) Generate(ctx context.Context, _ outbound.GenerateTextRequest) (string, error) {
	story, err := m.storyReader.Read(m.fileName)
	if err != nil {
		m.logger.Error(err, "failed to read mock story")
		return "", err
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(time.Duration(story.Delay) * time.Millisecond):
	}

	m.logger.DebugWithFields("Replaying mock story", map[string]interface{}{
		"file": m.fileName,
	})

	return "```json\n" + string(story.Story) + "\n```", nil
}
