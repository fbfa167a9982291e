package adapters

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/outbound"
	"github.com/Abdo12KM/children-storybook-generator/config"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// tokenRefreshMargin renews a cached token shortly before the identity provider expires it.
const tokenRefreshMargin = time.Minute

type Authorizer interface {
	Authorize(ctx context.Context) (string, error)
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type clientCredentialsAuthorizer struct {
	logger outbound.LoggerPort
	conf   *config.AuthorizerConfig
	client *http.Client
	now    func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewCognitoAuthorizer obtains client-credentials tokens and caches them until shortly before expiry.
func NewCognitoAuthorizer(logger outbound.LoggerPort, conf *config.AuthorizerConfig) Authorizer {
	return &clientCredentialsAuthorizer{
		logger: logger,
		conf:   conf,
		client: &http.Client{Timeout: 15 * time.Second},
		now:    time.Now,
	}
}

func (a *clientCredentialsAuthorizer) Authorize(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.token != "" && a.now().Before(a.expiresAt) {
		return a.token, nil
	}

	tokenResponse, err := a.requestToken(ctx)
	if err != nil {
		return "", err
	}

	a.token = tokenResponse.AccessToken
	a.expiresAt = a.now().Add(time.Duration(tokenResponse.ExpiresIn)*time.Second - tokenRefreshMargin)
	a.logger.DebugWithFields("Obtained client credentials token", map[string]interface{}{
		"expires_in": tokenResponse.ExpiresIn,
	})

	return a.token, nil
}

func (a *clientCredentialsAuthorizer) requestToken(ctx context.Context) (*TokenResponse, error) {
	clientCredentials := base64.StdEncoding.EncodeToString([]byte(a.conf.ClientID + ":" + a.conf.ClientSecret))

	req, err := http.NewRequestWithContext(ctx, "POST", a.conf.TokenEndpoint, strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		a.logger.Error(err, "Failed to create the HTTP request")
		return nil, err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+clientCredentials)

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error(err, "Failed to send the HTTP request")
		return nil, err
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			a.logger.Error(err, "Failed to close the response body")
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var tokenResponse TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		a.logger.Error(err, "Failed to unmarshal the response body")
		return nil, err
	}
	if tokenResponse.AccessToken == "" {
		return nil, fmt.Errorf("token endpoint returned no access token")
	}

	return &tokenResponse, nil
}
