package controllers

import (
	"errors"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/inbound"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/outbound"
	"github.com/Abdo12KM/children-storybook-generator/infrastructure/gin_interface/dto"
	"github.com/Abdo12KM/children-storybook-generator/middleware"
	"github.com/gin-gonic/gin"
	"net/http"
	"strconv"
)

type LibraryController interface {
	ListStories(c *gin.Context)
	GetStory(c *gin.Context)
	ToggleFavorite(c *gin.Context)
	TogglePublic(c *gin.Context)
	DeleteStory(c *gin.Context)
	ShareStory(c *gin.Context)
	GetSharedStory(c *gin.Context)
	RegisterRoutes(g gin.IRouter, requireAuth gin.HandlerFunc)
}

type libraryController struct {
	logger  outbound.LoggerPort
	library inbound.StoryLibraryPort
}

func NewLibraryController(logger outbound.LoggerPort, library inbound.StoryLibraryPort) LibraryController {
	return &libraryController{
		logger:  logger,
		library: library,
	}
}

func (l *libraryController) ListStories(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	records, err := l.library.List(c.Request.Context(), c.GetString(middleware.ContextUserIDKey), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stories": dto.NewStorySummaries(records)})
}

func (l *libraryController) GetStory(c *gin.Context) {
	record, err := l.library.Get(c.Request.Context(), c.GetString(middleware.ContextUserIDKey), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (l *libraryController) ToggleFavorite(c *gin.Context) {
	record, err := l.library.ToggleFavorite(c.Request.Context(), c.GetString(middleware.ContextUserIDKey), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": record.ID, "isFavorite": record.IsFavorite})
}

func (l *libraryController) TogglePublic(c *gin.Context) {
	record, err := l.library.TogglePublic(c.Request.Context(), c.GetString(middleware.ContextUserIDKey), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": record.ID, "isPublic": record.IsPublic})
}

func (l *libraryController) DeleteStory(c *gin.Context) {
	if err := l.library.Delete(c.Request.Context(), c.GetString(middleware.ContextUserIDKey), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (l *libraryController) ShareStory(c *gin.Context) {
	var body dto.ShareStoryRequest
	// An empty body shares without expiry.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid share options"})
			return
		}
	}

	res, err := l.library.Share(c.Request.Context(), c.GetString(middleware.ContextUserIDKey), c.Param("id"), body.ExpiresInDays)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (l *libraryController) GetSharedStory(c *gin.Context) {
	record, err := l.library.GetShared(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":        record.ID,
		"title":     record.Title,
		"story":     record.Story,
		"createdAt": record.CreatedAt,
	})
}

func (l *libraryController) RegisterRoutes(g gin.IRouter, requireAuth gin.HandlerFunc) {
	stories := g.Group("/stories", requireAuth)
	stories.GET("", l.ListStories)
	stories.GET("/:id", l.GetStory)
	stories.POST("/:id/favorite", l.ToggleFavorite)
	stories.POST("/:id/public", l.TogglePublic)
	stories.POST("/:id/share", l.ShareStory)
	stories.DELETE("/:id", l.DeleteStory)

	g.GET("/shared/:token", l.GetSharedStory)
}

func parseListFilter(c *gin.Context) (inbound.ListStoriesFilter, error) {
	var filter inbound.ListStoriesFilter

	for name, target := range map[string]**bool{"favorite": &filter.Favorite, "public": &filter.Public} {
		raw, ok := c.GetQuery(name)
		if !ok {
			continue
		}
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, errors.New("invalid " + name + " filter")
		}
		*target = &value
	}

	if raw, ok := c.GetQuery("limit"); ok {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filter, errors.New("invalid limit")
		}
		filter.Limit = limit
	}

	return filter, nil
}

// RegisterHealthRoute exposes a liveness check.
func RegisterHealthRoute(g gin.IRouter) {
	g.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
