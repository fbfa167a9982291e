package controllers

import (
	"context"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/inbound"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/outbound"
	"github.com/Abdo12KM/children-storybook-generator/domain"
	"github.com/Abdo12KM/children-storybook-generator/infrastructure/adapters"
	"github.com/Abdo12KM/children-storybook-generator/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"sync"
	"time"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestLogger() outbound.LoggerPort {
	return adapters.NewZerologWrapperWithLogger(zerolog.Nop())
}

// asUser stands in for the auth middleware.
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.ContextUserIDKey, userID)
		}
		c.Next()
	}
}

type fakePipeline struct {
	stages []domain.PipelineStage
	story  domain.GeneratedStory
	err    error
	delay  time.Duration
}

func (f *fakePipeline) Generate(_ context.Context, params inbound.GenerateStoryParams) (*inbound.GenerateStoryResult, error) {
	for _, stage := range f.stages {
		if params.Observer != nil {
			params.Observer(domain.StageEvent{Stage: stage, At: time.Now()})
		}
	}
	time.Sleep(f.delay)
	if f.err != nil {
		return nil, f.err
	}
	return &inbound.GenerateStoryResult{Story: f.story}, nil
}

type fakeLibrary struct {
	mu        sync.Mutex
	records   map[string]*domain.StoryRecord
	shares    map[string]string
	filter    inbound.ListStoriesFilter
	saveErr   error
	toggleErr error
}

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{records: map[string]*domain.StoryRecord{}, shares: map[string]string{}}
}

func (f *fakeLibrary) Save(_ context.Context, userID string, request domain.StoryRequest, story domain.GeneratedStory) (*domain.StoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	record := &domain.StoryRecord{ID: "story-1", UserID: userID, Title: story.Title, Request: request, Story: story}
	f.records[record.ID] = record
	return record, nil
}

func (f *fakeLibrary) owned(userID, storyID string) (*domain.StoryRecord, error) {
	record, ok := f.records[storyID]
	if !ok {
		return nil, domain.ErrStoryNotFound
	}
	if record.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return record, nil
}

func (f *fakeLibrary) Get(_ context.Context, userID, storyID string) (*domain.StoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.owned(userID, storyID)
}

func (f *fakeLibrary) List(_ context.Context, userID string, filter inbound.ListStoriesFilter) ([]domain.StoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter = filter
	var out []domain.StoryRecord
	for _, record := range f.records {
		if record.UserID == userID {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (f *fakeLibrary) ToggleFavorite(_ context.Context, userID, storyID string) (*domain.StoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.toggleErr != nil {
		return nil, f.toggleErr
	}
	record, err := f.owned(userID, storyID)
	if err != nil {
		return nil, err
	}
	record.IsFavorite = !record.IsFavorite
	return record, nil
}

func (f *fakeLibrary) TogglePublic(_ context.Context, userID, storyID string) (*domain.StoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, err := f.owned(userID, storyID)
	if err != nil {
		return nil, err
	}
	record.IsPublic = !record.IsPublic
	return record, nil
}

func (f *fakeLibrary) Delete(_ context.Context, userID, storyID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.owned(userID, storyID); err != nil {
		return err
	}
	delete(f.records, storyID)
	return nil
}

func (f *fakeLibrary) Share(_ context.Context, userID, storyID string, expiresInDays int) (*inbound.ShareStoryResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, err := f.owned(userID, storyID)
	if err != nil {
		return nil, err
	}
	f.shares["tok"] = storyID
	res := &inbound.ShareStoryResult{ShareURL: "http://app/shared/tok", Title: record.Title, StoryID: storyID, Token: "tok"}
	if expiresInDays > 0 {
		expires := time.Now().AddDate(0, 0, expiresInDays)
		res.ExpiresAt = &expires
	}
	return res, nil
}

func (f *fakeLibrary) GetShared(_ context.Context, token string) (*domain.StoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	storyID, ok := f.shares[token]
	if !ok {
		return nil, domain.ErrStoryNotFound
	}
	return f.records[storyID], nil
}

type recordingSaver struct {
	mu     sync.Mutex
	params []outbound.SaveStoryParams
}

func (r *recordingSaver) Save(_ context.Context, params outbound.SaveStoryParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.params = append(r.params, params)
	return nil
}

func sampleStory() domain.GeneratedStory {
	return domain.GeneratedStory{
		Title: "Mia and the Fox",
		Pages: []domain.StoryPage{
			{PageNumber: 1, Content: "Once upon a time", ImagePrompt: "a fox", ImageURL: "https://img/1.png"},
		},
	}
}
