package services

import (
	"context"
	"errors"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/outbound"
	"github.com/Abdo12KM/children-storybook-generator/domain"
	"github.com/Abdo12KM/children-storybook-generator/infrastructure/adapters"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
	"sort"
	"sync"
	"testing"
	"time"
)

func newTestLogger() outbound.LoggerPort {
	return adapters.NewZerologWrapperWithLogger(zerolog.Nop())
}

func newTestPool(t *testing.T, size int) *ants.Pool {
	t.Helper()
	workerPool, err := ants.NewPool(size)
	if err != nil {
		t.Fatal("Failed to create worker pool:", err)
	}
	t.Cleanup(workerPool.Release)
	return workerPool
}

type fakeTextGenerator struct {
	text     string
	err      error
	received []outbound.GenerateTextRequest
}

func (f *fakeTextGenerator) Generate(_ context.Context, req outbound.GenerateTextRequest) (string, error) {
	f.received = append(f.received, req)
	return f.text, f.err
}

type fakeImageGenerator struct {
	mu       sync.Mutex
	generate func(req outbound.GenerateImageRequest) (*outbound.GenerateImageResponse, error)
	calls    []outbound.GenerateImageRequest
}

func (f *fakeImageGenerator) Generate(_ context.Context, req outbound.GenerateImageRequest) (*outbound.GenerateImageResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	return f.generate(req)
}

func (f *fakeImageGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type rejectingDispatcher struct{}

func (rejectingDispatcher) Submit(func()) error {
	return errors.New("pool overloaded")
}

type memoryStoryRepository struct {
	mu      sync.Mutex
	stories map[string]domain.StoryRecord
	shares  map[string]domain.StoryShare
	saveErr error

	// beforeSetFlag runs inside SetStoryFlag before the condition is checked.
	beforeSetFlag func(record *domain.StoryRecord)
}

func newMemoryStoryRepository() *memoryStoryRepository {
	return &memoryStoryRepository{
		stories: map[string]domain.StoryRecord{},
		shares:  map[string]domain.StoryShare{},
	}
}

func (m *memoryStoryRepository) SaveStory(_ context.Context, record domain.StoryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.stories[record.ID] = record
	return nil
}

func (m *memoryStoryRepository) GetStory(_ context.Context, storyID string) (*domain.StoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.stories[storyID]
	if !ok {
		return nil, domain.ErrStoryNotFound
	}
	return &record, nil
}

func (m *memoryStoryRepository) ListStoriesByUser(_ context.Context, userID string, limit int) ([]domain.StoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.StoryRecord
	for _, record := range m.stories {
		if record.UserID == userID {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryStoryRepository) SetStoryFlag(_ context.Context, storyID string, flag domain.StoryFlag, expected, value bool, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.stories[storyID]
	if !ok {
		return domain.ErrStoryConflict
	}
	if m.beforeSetFlag != nil {
		m.beforeSetFlag(&record)
	}
	field := &record.IsFavorite
	if flag == domain.PublicFlag {
		field = &record.IsPublic
	}
	if *field != expected {
		m.stories[storyID] = record
		return domain.ErrStoryConflict
	}
	*field = value
	record.UpdatedAt = updatedAt
	m.stories[storyID] = record
	return nil
}

func (m *memoryStoryRepository) DeleteStory(_ context.Context, storyID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stories, storyID)
	return nil
}

func (m *memoryStoryRepository) SaveShare(_ context.Context, share domain.StoryShare) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shares[share.Token] = share
	return nil
}

func (m *memoryStoryRepository) GetShare(_ context.Context, token string) (*domain.StoryShare, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	share, ok := m.shares[token]
	if !ok {
		return nil, domain.ErrStoryNotFound
	}
	return &share, nil
}

func (m *memoryStoryRepository) IncrementShareViews(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	share, ok := m.shares[token]
	if !ok {
		return domain.ErrStoryNotFound
	}
	share.ViewCount++
	m.shares[token] = share
	return nil
}

func sampleRequest() domain.StoryRequest {
	return domain.StoryRequest{
		ChildName:         "Mia",
		ChildAge:          "4-6",
		MainCharacter:     "a fox",
		Setting:           "forest",
		Theme:             "friendship",
		StoryLength:       domain.ShortStory,
		Difficulty:        domain.BeginnerDifficulty,
		ArtStyle:          "watercolor",
		PersonalityTraits: []string{},
	}
}
