package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/outbound"
	"github.com/Abdo12KM/children-storybook-generator/config"
	"github.com/donovanhide/eventsource"
	"io"
	"net/http"
	"strings"
)

const DoneSignal = "[DONE]"
const MaxRetries = 3

type chatGptRequest struct {
	Stream         bool                   `json:"stream"`
	Model          string                 `json:"model"`
	Messages       []chatGptMessage       `json:"messages"`
	Temperature    float64                `json:"temperature"`
	ResponseFormat *chatGptResponseFormat `json:"response_format,omitempty"`
}

type chatGptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatGptResponseFormat struct {
	Type string `json:"type"`
}

type chatGptChunkBody struct {
	Choices []chatGptResponseChoice `json:"choices"`
}

type chatGptResponseChoice struct {
	Index int `json:"index"`
	Delta struct {
		Content string `json:"content"`
	} `json:"delta"`
}

type gptTextGenerator struct {
	logger    outbound.LoggerPort
	gptConfig *config.GptConfig
}

func NewGptTextGenerator(gptConfig *config.GptConfig, logger outbound.LoggerPort) outbound.TextGeneratorPort {
	return &gptTextGenerator{
		logger:    logger,
		gptConfig: gptConfig,
	}
}

// Generate streams a chat completion and returns the concatenated deltas.
func (g *gptTextGenerator) Generate(ctx context.Context, genReq outbound.GenerateTextRequest) (string, error) {
	req, err := g.createRequest(ctx, genReq)
	if err != nil {
		return "", err
	}

	stream, err := eventsource.SubscribeWithRequest("", req)
	if err != nil {
		g.logger.Error(err, "Failed to subscribe to completion stream")
		return "", err
	}
	defer stream.Close()

	var builder strings.Builder
	retryCount := 0
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case ev, ok := <-stream.Events:
			if !ok {
				return builder.String(), nil
			}
			if ev.Data() == DoneSignal {
				g.logger.DebugWithFields("Completion stream finished", map[string]interface{}{
					"length": builder.Len(),
				})
				return builder.String(), nil
			}
			payload, err := g.extractPayload(ev)
			if err != nil {
				return "", err
			}
			builder.WriteString(payload)
			retryCount = 0
		case err := <-stream.Errors:
			if errors.Is(err, io.EOF) {
				g.logger.Info("Completion stream closed")
				return builder.String(), nil
			} else if retryCount < MaxRetries {
				g.logger.ErrorWithFields(err, "Error occurred during streaming, retrying", map[string]interface{}{
					"retry_count": retryCount})
				retryCount++
				// The reconnect replays the completion from the start.
				builder.Reset()
				continue
			}
			g.logger.Error(err, "Error occurred during streaming, max retries reached")
			return "", err
		}
	}
}

func (g *gptTextGenerator) extractPayload(event eventsource.Event) (string, error) {
	var chunkBody chatGptChunkBody
	err := json.Unmarshal([]byte(event.Data()), &chunkBody)
	if err != nil {
		g.logger.Error(err, "Failed to unmarshal event data")
		return "", err
	}
	if len(chunkBody.Choices) == 0 {
		return "", nil
	}

	return chunkBody.Choices[0].Delta.Content, nil
}

func (g *gptTextGenerator) createRequest(ctx context.Context, genReq outbound.GenerateTextRequest) (*http.Request, error) {
	messages := make([]chatGptMessage, 0, 2)
	if genReq.SystemText != "" {
		messages = append(messages, chatGptMessage{Role: "system", Content: genReq.SystemText})
	}
	messages = append(messages, chatGptMessage{Role: "user", Content: genReq.PromptText})

	promptReq := chatGptRequest{
		Stream:      true,
		Model:       g.gptConfig.Model,
		Messages:    messages,
		Temperature: genReq.Temperature,
	}
	if genReq.JSONMode {
		promptReq.ResponseFormat = &chatGptResponseFormat{Type: "json_object"}
	}

	payloadBytes, err := json.Marshal(promptReq)
	if err != nil {
		g.logger.Error(err, "Failed to marshal the request body")
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.gptConfig.ApiUrl, bytes.NewBuffer(payloadBytes))
	if err != nil {
		g.logger.Error(err, "Failed to create the HTTP request")
		return nil, fmt.Errorf("create completion request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+g.gptConfig.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}
