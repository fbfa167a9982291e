package dto

import (
	"github.com/Abdo12KM/children-storybook-generator/domain"
	"time"
)

// GenerateStoryResponse is the generated story with the library id when it was saved.
type GenerateStoryResponse struct {
	ID string `json:"id,omitempty"`
	domain.GeneratedStory
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type StorySummary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	PageCount  int       `json:"pageCount"`
	TotalWords int       `json:"totalWords"`
	IsFavorite bool      `json:"isFavorite"`
	IsPublic   bool      `json:"isPublic"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewStorySummaries(records []domain.StoryRecord) []StorySummary {
	out := make([]StorySummary, len(records))
	for i, record := range records {
		out[i] = StorySummary{
			ID:         record.ID,
			Title:      record.Title,
			PageCount:  record.PageCount,
			TotalWords: record.TotalWords,
			IsFavorite: record.IsFavorite,
			IsPublic:   record.IsPublic,
			CreatedAt:  record.CreatedAt,
		}
	}
	return out
}
