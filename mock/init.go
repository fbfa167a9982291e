package mock_generator

import (
	"github.com/Abdo12KM/children-storybook-generator/application/ports/outbound"
)

const DefaultStoryFile = "mock/story.json"

// Init returns offline generators for running the server without provider credentials.
func Init(logger outbound.LoggerPort, storyFile string) (outbound.TextGeneratorPort, outbound.ImageGeneratorPort) {
	if storyFile == "" {
		storyFile = DefaultStoryFile
	}
	storyReader := NewFileStoryReader(logger)

	return NewMockTextGenerator(storyReader, storyFile, logger), NewMockImageGenerator()
}
