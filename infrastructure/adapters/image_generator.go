package adapters

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/outbound"
	"github.com/Abdo12KM/children-storybook-generator/config"
	"net/http"
)

type DalleApiRequest struct {
	Model          string `json:"model,omitempty"`
	Prompt         string `json:"prompt"`
	Size           string `json:"size"`
	Number         int    `json:"n"`
	ResponseFormat string `json:"response_format"`
}

type DalleApiResponse struct {
	Data []struct {
		B64Json string `json:"b64_json"`
	} `json:"data"`
}

type dalleImageRenderer struct {
	ContentFetcher
	logger      outbound.LoggerPort
	dalleConfig *config.DaLLeConfig
}

func NewDalleImageRenderer(contentFetcher ContentFetcher, dalleConfig *config.DaLLeConfig, logger outbound.LoggerPort) outbound.ImageRendererPort {
	return &dalleImageRenderer{
		logger:         logger,
		ContentFetcher: contentFetcher,
		dalleConfig:    dalleConfig,
	}
}

func (d *dalleImageRenderer) Render(ctx context.Context, prompt string) ([]byte, error) {
	req, err := d.getRequest(ctx, prompt)
	if err != nil {
		return nil, err
	}

	rawRes, err := d.FetchContent(req)
	if err != nil {
		d.logger.Error(err, "Failed to fetch the content")
		return nil, err
	}

	var dalleRes DalleApiResponse
	err = json.Unmarshal(rawRes, &dalleRes)
	if err != nil {
		d.logger.Error(err, "Failed to unmarshal the response")
		return nil, err
	}
	if len(dalleRes.Data) == 0 {
		return nil, errors.New("image response contained no data")
	}

	decodedImage, err := base64.StdEncoding.DecodeString(dalleRes.Data[0].B64Json)
	if err != nil {
		d.logger.Error(err, "Failed to decode the image")
		return nil, err
	}

	return decodedImage, nil
}

func (d *dalleImageRenderer) getRequest(ctx context.Context, prompt string) (*http.Request, error) {
	reqBody := DalleApiRequest{
		Model:          d.dalleConfig.Model,
		Prompt:         prompt,
		Size:           d.dalleConfig.Size,
		Number:         1,
		ResponseFormat: "b64_json",
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		d.logger.Error(err, "Failed to marshal the request body")
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", d.dalleConfig.ApiUrl, bytes.NewBuffer(jsonPayload))
	if err != nil {
		d.logger.Error(err, "Failed to create the HTTP request")
		return nil, err
	}

	reqHeaders := map[string]string{
		"Authorization": "Bearer " + d.dalleConfig.ApiKey,
		"Content-Type":  "application/json",
	}
	for key, value := range reqHeaders {
		req.Header.Add(key, value)
	}

	return req, nil
}
