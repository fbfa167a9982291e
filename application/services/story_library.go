package services

import (
	"context"
	"errors"
	"fmt"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/inbound"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/outbound"
	"github.com/Abdo12KM/children-storybook-generator/domain"
	"github.com/google/uuid"
	"strings"
	"time"
)

type storyLibrary struct {
	logger     outbound.LoggerPort
	repository outbound.StoryRepositoryPort
	appURL     string
	now        func() time.Time
}

func NewStoryLibrary(logger outbound.LoggerPort, repository outbound.StoryRepositoryPort, appURL string) inbound.StoryLibraryPort {
	return &storyLibrary{
		logger:     logger,
		repository: repository,
		appURL:     strings.TrimRight(appURL, "/"),
		now:        time.Now,
	}
}

func (l *storyLibrary) Save(ctx context.Context, userID string, request domain.StoryRequest, story domain.GeneratedStory) (*domain.StoryRecord, error) {
	title := strings.TrimSpace(story.Title)
	if title == "" {
		title = fmt.Sprintf("%s's %s Adventure", request.ChildName, request.Theme)
	}

	now := l.now().UTC()
	record := domain.StoryRecord{
		ID:           uuid.NewString(),
		UserID:       userID,
		Title:        title,
		Request:      request,
		Story:        story,
		PageCount:    len(story.Pages),
		WordsPerPage: domain.ResolveLengthProfile(request.StoryLength).WordsPerPage,
		TotalWords:   countWords(story),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := l.repository.SaveStory(ctx, record); err != nil {
		l.logger.ErrorWithFields(err, "Failed to save story", map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	l.logger.InfoWithFields("Story saved", map[string]interface{}{
		"story_id": record.ID,
		"user_id":  userID,
	})
	return &record, nil
}

func (l *storyLibrary) Get(ctx context.Context, userID, storyID string) (*domain.StoryRecord, error) {
	record, err := l.repository.GetStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if record.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return record, nil
}

func (l *storyLibrary) List(ctx context.Context, userID string, filter inbound.ListStoriesFilter) ([]domain.StoryRecord, error) {
	records, err := l.repository.ListStoriesByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	out := make([]domain.StoryRecord, 0, len(records))
	for _, record := range records {
		if filter.Favorite != nil && record.IsFavorite != *filter.Favorite {
			continue
		}
		if filter.Public != nil && record.IsPublic != *filter.Public {
			continue
		}
		out = append(out, record)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// maxToggleAttempts bounds retries when another request flips the same flag first.
const maxToggleAttempts = 3

func (l *storyLibrary) ToggleFavorite(ctx context.Context, userID, storyID string) (*domain.StoryRecord, error) {
	return l.toggle(ctx, userID, storyID, domain.FavoriteFlag)
}

func (l *storyLibrary) TogglePublic(ctx context.Context, userID, storyID string) (*domain.StoryRecord, error) {
	return l.toggle(ctx, userID, storyID, domain.PublicFlag)
}

func (l *storyLibrary) toggle(ctx context.Context, userID, storyID string, flag domain.StoryFlag) (*domain.StoryRecord, error) {
	for attempt := 1; attempt <= maxToggleAttempts; attempt++ {
		record, err := l.Get(ctx, userID, storyID)
		if err != nil {
			return nil, err
		}

		field := flagField(record, flag)
		updatedAt := l.now().UTC()
		err = l.repository.SetStoryFlag(ctx, storyID, flag, *field, !*field, updatedAt)
		if errors.Is(err, domain.ErrStoryConflict) {
			l.logger.WarnWithFields("Story flag changed concurrently, retrying", map[string]interface{}{
				"story_id": storyID,
				"flag":     flag,
				"attempt":  attempt,
			})
			continue
		}
		if err != nil {
			l.logger.ErrorWithFields(err, "Failed to update story", map[string]interface{}{
				"story_id": storyID,
			})
			return nil, err
		}

		*field = !*field
		record.UpdatedAt = updatedAt
		return record, nil
	}
	return nil, domain.ErrStoryConflict
}

func flagField(record *domain.StoryRecord, flag domain.StoryFlag) *bool {
	if flag == domain.PublicFlag {
		return &record.IsPublic
	}
	return &record.IsFavorite
}

func (l *storyLibrary) Delete(ctx context.Context, userID, storyID string) error {
	if _, err := l.Get(ctx, userID, storyID); err != nil {
		return err
	}
	return l.repository.DeleteStory(ctx, storyID)
}

func (l *storyLibrary) Share(ctx context.Context, userID, storyID string, expiresInDays int) (*inbound.ShareStoryResult, error) {
	record, err := l.Get(ctx, userID, storyID)
	if err != nil {
		return nil, err
	}

	now := l.now().UTC()
	share := domain.StoryShare{
		Token:     strings.ReplaceAll(uuid.NewString(), "-", ""),
		StoryID:   storyID,
		Active:    true,
		CreatedAt: now,
	}
	if expiresInDays > 0 {
		expiresAt := now.Add(time.Duration(expiresInDays) * 24 * time.Hour)
		share.ExpiresAt = &expiresAt
	}

	if err := l.repository.SaveShare(ctx, share); err != nil {
		l.logger.ErrorWithFields(err, "Failed to save story share", map[string]interface{}{
			"story_id": storyID,
		})
		return nil, err
	}

	return &inbound.ShareStoryResult{
		ShareURL:    fmt.Sprintf("%s/shared/%s", l.appURL, share.Token),
		Title:       record.Title,
		Description: fmt.Sprintf("Check out this children's story: %s", record.Title),
		StoryID:     storyID,
		Token:       share.Token,
		ExpiresAt:   share.ExpiresAt,
	}, nil
}

func (l *storyLibrary) GetShared(ctx context.Context, token string) (*domain.StoryRecord, error) {
	share, err := l.repository.GetShare(ctx, token)
	if err != nil {
		return nil, err
	}
	if !share.Active || share.Expired(l.now()) {
		return nil, domain.ErrStoryNotFound
	}

	record, err := l.repository.GetStory(ctx, share.StoryID)
	if err != nil {
		return nil, err
	}

	if err := l.repository.IncrementShareViews(ctx, token); err != nil {
		l.logger.ErrorWithFields(err, "Failed to increment share views", map[string]interface{}{
			"token": token,
		})
	}
	return record, nil
}

func countWords(story domain.GeneratedStory) int {
	total := 0
	for _, page := range story.Pages {
		total += len(strings.Fields(page.Content))
	}
	return total
}
