package middleware

import (
	"errors"
	"fmt"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/outbound"
	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"net/http"
	"strings"
	"time"
)

const ContextUserIDKey = "userID"

type AuthHandler interface {
	// AuthMiddleware rejects requests without a valid bearer token.
	AuthMiddleware() gin.HandlerFunc
	// OptionalAuthMiddleware identifies the caller when a token is present.
	OptionalAuthMiddleware() gin.HandlerFunc
}

type authHandler struct {
	logger  outbound.LoggerPort
	keyfunc jwt.Keyfunc
}

func NewAuthHandler(jwksURL string, logger outbound.LoggerPort) (AuthHandler, error) {
	options := keyfunc.Options{
		RefreshErrorHandler: func(err error) {
			logger.Error(err, "There was an error with the jwt.Keyfunc")
		},
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  time.Minute * 5,
		RefreshTimeout:    time.Second * 10,
		RefreshUnknownKID: true,
	}

	jwks, err := keyfunc.Get(jwksURL, options)
	if err != nil {
		return nil, fmt.Errorf("create JWKS from %s: %w", jwksURL, err)
	}

	return NewAuthHandlerWithKeyfunc(jwks.Keyfunc, logger), nil
}

func NewAuthHandlerWithKeyfunc(kf jwt.Keyfunc, logger outbound.LoggerPort) AuthHandler {
	return &authHandler{logger: logger, keyfunc: kf}
}

var errMissingToken = errors.New("authorization header is required")

func (h *authHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.authenticate(c); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}

func (h *authHandler) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		err := h.authenticate(c)
		if err != nil && !errors.Is(err, errMissingToken) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}

func (h *authHandler) authenticate(c *gin.Context) error {
	header := c.GetHeader("Authorization")
	if header == "" {
		return errMissingToken
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, h.keyfunc)
	if err != nil || !token.Valid {
		h.logger.DebugWithFields("Rejected bearer token", map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		return errors.New("invalid token")
	}
	if claims.Subject == "" {
		return errors.New("invalid token claims")
	}

	c.Set(ContextUserIDKey, claims.Subject)
	return nil
}
