package dto

import (
	"github.com/Abdo12KM/children-storybook-generator/domain"
)

type GenerateStoryRequest struct {
	ChildName            string   `json:"childName" binding:"required"`
	ChildAge             string   `json:"childAge" binding:"required"`
	MainCharacter        string   `json:"mainCharacter" binding:"required"`
	CharacterDescription string   `json:"characterDescription"`
	PersonalityTraits    []string `json:"personalityTraits"`
	Setting              string   `json:"setting" binding:"required"`
	Theme                string   `json:"theme" binding:"required"`
	MoralLesson          string   `json:"moralLesson"`
	StoryLength          string   `json:"storyLength" binding:"required"`
	Difficulty           string   `json:"difficulty"`
	ArtStyle             string   `json:"artStyle"`
	UploadedImage        string   `json:"uploadedImage"`
}

func (r GenerateStoryRequest) ToDomain() domain.StoryRequest {
	return domain.StoryRequest{
		ChildName:            r.ChildName,
		ChildAge:             r.ChildAge,
		MainCharacter:        r.MainCharacter,
		CharacterDescription: r.CharacterDescription,
		PersonalityTraits:    r.PersonalityTraits,
		Setting:              r.Setting,
		Theme:                r.Theme,
		MoralLesson:          r.MoralLesson,
		StoryLength:          domain.StoryLength(r.StoryLength),
		Difficulty:           domain.Difficulty(r.Difficulty),
		ArtStyle:             r.ArtStyle,
		UploadedImage:        r.UploadedImage,
	}
}

type ShareStoryRequest struct {
	ExpiresInDays int `json:"expiresInDays" binding:"gte=0"`
}
