package outbound

import (
	"context"
	"github.com/Abdo12KM/children-storybook-generator/domain"
	"time"
)

type StoryRepositoryPort interface {
	SaveStory(ctx context.Context, record domain.StoryRecord) error
	GetStory(ctx context.Context, storyID string) (*domain.StoryRecord, error)
	ListStoriesByUser(ctx context.Context, userID string, limit int) ([]domain.StoryRecord, error)
	// SetStoryFlag writes value only while the stored flag still equals expected,
	// returning domain.ErrStoryConflict otherwise.
	SetStoryFlag(ctx context.Context, storyID string, flag domain.StoryFlag, expected, value bool, updatedAt time.Time) error
	DeleteStory(ctx context.Context, storyID string) error
	SaveShare(ctx context.Context, share domain.StoryShare) error
	GetShare(ctx context.Context, token string) (*domain.StoryShare, error)
	IncrementShareViews(ctx context.Context, token string) error
}
