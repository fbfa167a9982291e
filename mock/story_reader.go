package mock_generator

import (
	"encoding/json"
	"errors"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/outbound"
	"os"
)

type StoryReader interface {
	Read(fileName string) (*MockStory, error)
}

type fileStoryReader struct {
	logger outbound.LoggerPort
}

func NewFileStoryReader(logger outbound.LoggerPort) StoryReader {
	return &fileStoryReader{
		logger: logger,
	}
}

func (f *fileStoryReader) Read(fileName string) (*MockStory, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer func(file *os.File) {
		err := file.Close()
		if err != nil {
			f.logger.Error(err, "failed to close file")
		}
	}(file)

	var story MockStory
	if err := json.NewDecoder(file).Decode(&story); err != nil {
		f.logger.Error(err, "failed to decode json")
		return nil, err
	}
	if len(story.Story) == 0 {
		return nil, errors.New("mock story file has no story")
	}

	return &story, nil
}
