package inbound

import (
	"context"
	"github.com/Abdo12KM/children-storybook-generator/domain"
	"time"
)

type ListStoriesFilter struct {
	Favorite *bool
	Public   *bool
	Limit    int
}

type ShareStoryResult struct {
	ShareURL    string     `json:"shareUrl"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StoryID     string     `json:"storyId"`
	Token       string     `json:"token"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

type StoryLibraryPort interface {
	Save(ctx context.Context, userID string, request domain.StoryRequest, story domain.GeneratedStory) (*domain.StoryRecord, error)
	Get(ctx context.Context, userID, storyID string) (*domain.StoryRecord, error)
	List(ctx context.Context, userID string, filter ListStoriesFilter) ([]domain.StoryRecord, error)
	ToggleFavorite(ctx context.Context, userID, storyID string) (*domain.StoryRecord, error)
	TogglePublic(ctx context.Context, userID, storyID string) (*domain.StoryRecord, error)
	Delete(ctx context.Context, userID, storyID string) error
	Share(ctx context.Context, userID, storyID string, expiresInDays int) (*ShareStoryResult, error)
	GetShared(ctx context.Context, token string) (*domain.StoryRecord, error)
}
