package domain

import "time"

type StoryLength string

const (
	ShortStory  StoryLength = "short"
	MediumStory StoryLength = "medium"
	LongStory   StoryLength = "long"
)

type Difficulty string

const (
	BeginnerDifficulty     Difficulty = "beginner"
	IntermediateDifficulty Difficulty = "intermediate"
	AdvancedDifficulty     Difficulty = "advanced"
)

type StoryRequest struct {
	ChildName            string      `json:"childName"`
	ChildAge             string      `json:"childAge"`
	MainCharacter        string      `json:"mainCharacter"`
	CharacterDescription string      `json:"characterDescription,omitempty"`
	PersonalityTraits    []string    `json:"personalityTraits"`
	Setting              string      `json:"setting"`
	Theme                string      `json:"theme"`
	MoralLesson          string      `json:"moralLesson,omitempty"`
	StoryLength          StoryLength `json:"storyLength"`
	Difficulty           Difficulty  `json:"difficulty"`
	ArtStyle             string      `json:"artStyle"`
	UploadedImage        string      `json:"uploadedImage,omitempty"`
}

type StoryPage struct {
	PageNumber  int      `json:"pageNumber"`
	Content     string   `json:"content"`
	ImagePrompt string   `json:"imagePrompt"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Vocabulary  []string `json:"vocabulary,omitempty"`
}

type GeneratedStory struct {
	Title               string      `json:"title"`
	CharacterSheet      string      `json:"characterSheet,omitempty"`
	Pages               []StoryPage `json:"pages"`
	Summary             string      `json:"summary"`
	KeyVocabulary       []string    `json:"keyVocabulary"`
	DiscussionQuestions []string    `json:"discussionQuestions"`
	ActivityIdea        string      `json:"activityIdea"`
}

type PipelineStage string

const (
	StageBuilt       PipelineStage = "built"
	StageGenerated   PipelineStage = "generated"
	StageParsed      PipelineStage = "parsed"
	StageFallenBack  PipelineStage = "fallen_back"
	StageIllustrated PipelineStage = "illustrated"
	StageDone        PipelineStage = "done"
)

// StageEvent is emitted once per pipeline transition.
type StageEvent struct {
	Stage PipelineStage `json:"stage"`
	At    time.Time     `json:"at"`
}

type StoryRecord struct {
	ID           string         `json:"id"`
	UserID       string         `json:"userId"`
	Title        string         `json:"title"`
	Request      StoryRequest   `json:"request"`
	Story        GeneratedStory `json:"story"`
	PageCount    int            `json:"pageCount"`
	WordsPerPage int            `json:"wordsPerPage"`
	TotalWords   int            `json:"totalWords"`
	IsFavorite   bool           `json:"isFavorite"`
	IsPublic     bool           `json:"isPublic"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// StoryFlag names a boolean library attribute that can be toggled in place.
type StoryFlag string

const (
	FavoriteFlag StoryFlag = "favorite"
	PublicFlag   StoryFlag = "public"
)

type StoryShare struct {
	Token     string     `json:"token"`
	StoryID   string     `json:"storyId"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Active    bool       `json:"active"`
	ViewCount int        `json:"viewCount"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Expired reports whether the share has passed its expiry at the given instant.
func (s StoryShare) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && s.ExpiresAt.Before(now)
}
