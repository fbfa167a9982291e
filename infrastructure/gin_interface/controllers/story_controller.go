package controllers

import (
	"context"
	"encoding/json"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/inbound"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/outbound"
	"github.com/Abdo12KM/children-storybook-generator/domain"
	"github.com/Abdo12KM/children-storybook-generator/infrastructure/gin_interface/dto"
	"github.com/Abdo12KM/children-storybook-generator/middleware"
	"github.com/gin-gonic/gin"
	"net/http"
	"sync"
	"time"
)

const heartbeatInterval = 10 * time.Second

type StoryController interface {
	GenerateStory(c *gin.Context)
	StreamStory(c *gin.Context)
	RegisterRoutes(g gin.IRouter, optionalAuth gin.HandlerFunc)
}

type storyController struct {
	logger     outbound.LoggerPort
	pipeline   inbound.StoryPipelinePort
	library    inbound.StoryLibraryPort
	storySaver outbound.StorySaverPort
	heartbeat  time.Duration
	marshal    func(v any) ([]byte, error)
}

// NewStoryController accepts a nil library or storySaver when persistence is disabled.
func NewStoryController(
	logger outbound.LoggerPort,
	pipeline inbound.StoryPipelinePort,
	library inbound.StoryLibraryPort,
	storySaver outbound.StorySaverPort,
) StoryController {
	return &storyController{
		logger:     logger,
		pipeline:   pipeline,
		library:    library,
		storySaver: storySaver,
		heartbeat:  heartbeatInterval,
		marshal:    json.Marshal,
	}
}

func (s *storyController) GenerateStory(c *gin.Context) {
	request, ok := s.bindRequest(c)
	if !ok {
		return
	}

	res, err := s.pipeline.Generate(c.Request.Context(), inbound.GenerateStoryParams{Request: request})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.GenerateStoryResponse{
		ID:             s.persist(c.Request.Context(), c.GetString(middleware.ContextUserIDKey), request, res.Story),
		GeneratedStory: res.Story,
	})
}

// StreamStory reports pipeline stages as SSE events and finishes with a story or error event.
// The pipeline runs on the request goroutine. The heartbeat stays off the worker pool,
// which is reserved for page illustrations.
func (s *storyController) StreamStory(c *gin.Context) {
	request, ok := s.bindRequest(c)
	if !ok {
		return
	}
	userID := c.GetString(middleware.ContextUserIDKey)

	stream := &eventStream{c: c}
	defer stream.close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	go func() {
		ticker := time.NewTicker(s.heartbeat)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				stream.send("heartbeat", t.UTC().Format(time.RFC3339))
			}
		}
	}()

	res, err := s.pipeline.Generate(ctx, inbound.GenerateStoryParams{
		Request: request,
		Observer: func(event domain.StageEvent) {
			stream.send("stage", event)
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			s.logger.Info("Client disconnected from story stream")
		}
		stream.finish("error", dto.ErrorResponse{Error: "Failed to generate story", Details: err.Error()})
		return
	}

	stream.finish("story", dto.GenerateStoryResponse{
		ID:             s.persist(ctx, userID, request, res.Story),
		GeneratedStory: res.Story,
	})
}

// eventStream serializes SSE writes from the handler and the heartbeat task.
type eventStream struct {
	mu     sync.Mutex
	c      *gin.Context
	closed bool
}

func (e *eventStream) send(name string, data interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.write(name, data)
}

// finish writes the terminal event; later sends are dropped.
func (e *eventStream) finish(name string, data interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.write(name, data)
	e.closed = true
}

func (e *eventStream) write(name string, data interface{}) {
	if e.closed {
		return
	}
	e.c.SSEvent(name, data)
	e.c.Writer.Flush()
}

func (e *eventStream) close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
}

func (s *storyController) bindRequest(c *gin.Context) (domain.StoryRequest, bool) {
	var body dto.GenerateStoryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		s.logger.DebugWithFields("Rejected story request", map[string]interface{}{
			"error": err.Error(),
		})
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Missing required fields"})
		return domain.StoryRequest{}, false
	}
	return body.ToDomain(), true
}

// persist saves the story for an identified caller; failures are logged and never fail the request.
func (s *storyController) persist(ctx context.Context, userID string, request domain.StoryRequest, story domain.GeneratedStory) string {
	if userID == "" || s.library == nil {
		return ""
	}

	record, err := s.library.Save(ctx, userID, request, story)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to save generated story", map[string]interface{}{
			"user_id": userID,
		})
		return ""
	}

	if s.storySaver != nil {
		input, err := s.marshal(request)
		if err != nil {
			s.logger.ErrorWithFields(err, "Failed to marshal story input", map[string]interface{}{
				"story_id": record.ID,
			})
			return record.ID
		}
		err = s.storySaver.Save(ctx, outbound.SaveStoryParams{
			ID:     record.ID,
			UserID: userID,
			Title:  record.Title,
			Input:  string(input),
		})
		if err != nil {
			s.logger.ErrorWithFields(err, "Failed to notify story api", map[string]interface{}{
				"story_id": record.ID,
			})
		}
	}

	return record.ID
}

func (s *storyController) RegisterRoutes(g gin.IRouter, optionalAuth gin.HandlerFunc) {
	g.POST("/stories/generate", optionalAuth, s.GenerateStory)
	g.POST("/stories/generate/stream", optionalAuth, middleware.SSEMiddleware(), s.StreamStory)
}
