package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/outbound"
	"io"
	"net/http"
	"time"
)

type StoryApiRequest struct {
	Input  string `json:"input"`
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Title  string `json:"title"`
}

type storySaver struct {
	logger      outbound.LoggerPort
	storyApiUrl string
	authorizer  Authorizer
	client      *http.Client
}

// NewStorySaver notifies the remote story API that a story was created.
func NewStorySaver(storyApiUrl string, authorizer Authorizer, logger outbound.LoggerPort) outbound.StorySaverPort {
	return &storySaver{
		logger:      logger,
		storyApiUrl: storyApiUrl,
		authorizer:  authorizer,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *storySaver) Save(ctx context.Context, params outbound.SaveStoryParams) error {
	token, err := s.authorizer.Authorize(ctx)
	if err != nil {
		s.logger.Error(err, "Failed to authorize")
		return err
	}

	payload, err := json.Marshal(StoryApiRequest{
		Input:  params.Input,
		ID:     params.ID,
		UserID: params.UserID,
		Title:  params.Title,
	})
	if err != nil {
		s.logger.Error(err, "Failed to marshal story request")
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.storyApiUrl, bytes.NewReader(payload))
	if err != nil {
		s.logger.Error(err, "Failed to create request")
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error(err, "Failed to send request")
		return err
	}

	defer func(closer io.ReadCloser) {
		err := closer.Close()
		if err != nil {
			s.logger.Error(err, "Failed to close response body")
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusCreated {
		err = fmt.Errorf("story api returned status %d", resp.StatusCode)
		s.logger.ErrorWithFields(err, "Received unexpected status code", map[string]interface{}{
			"story_id": params.ID,
		})
		return err
	}

	return nil
}
