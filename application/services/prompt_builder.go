package services

import (
	"fmt"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/inbound"
	"github.com/Abdo12KM/children-storybook-generator/domain"
	"strings"
)

const (
	DefaultTraits      = "kind and brave"
	DefaultDescription = "A friendly character"
	DefaultMoralPhrase = "kindness and friendship"
)

const systemText = "You are a children's story author. Respond with a single JSON object only. " +
	"Do not include any prose, explanations or Markdown code fences before or after the JSON."

const uploadedImageDirective = "IMPORTANT: The user has uploaded an inspiration image. Incorporate elements, " +
	"colors, or themes from this image into the story and illustrations where appropriate."

type promptBuilder struct{}

func NewPromptBuilder() inbound.PromptBuilderPort {
	return &promptBuilder{}
}

func (p *promptBuilder) Build(request domain.StoryRequest) inbound.Prompt {
	profile := domain.ResolveLengthProfile(request.StoryLength)
	characterSheet := BuildCharacterSheet(request)

	return inbound.Prompt{
		SystemText:     systemText,
		PromptText:     p.promptText(request, profile, characterSheet),
		CharacterSheet: characterSheet,
		PageCount:      profile.PageCount,
		WordsPerPage:   profile.WordsPerPage,
	}
}

// BuildCharacterSheet is echoed into every page's image prompt.
func BuildCharacterSheet(request domain.StoryRequest) string {
	description := strings.TrimSpace(request.CharacterDescription)
	if description == "" {
		description = DefaultDescription
	}
	return fmt.Sprintf("Character Appearance: %s with these personality traits: %s. "+
		"Keep this appearance consistent throughout all illustrations.", description, joinTraits(request.PersonalityTraits))
}

func joinTraits(traits []string) string {
	kept := make([]string, 0, len(traits))
	for _, trait := range traits {
		if t := strings.TrimSpace(trait); t != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return DefaultTraits
	}
	return strings.Join(kept, ", ")
}

func moralPhrase(request domain.StoryRequest) string {
	if m := strings.TrimSpace(request.MoralLesson); m != "" {
		return m
	}
	return DefaultMoralPhrase
}

func (p *promptBuilder) promptText(request domain.StoryRequest, profile domain.LengthProfile, characterSheet string) string {
	moralLesson := strings.TrimSpace(request.MoralLesson)
	if moralLesson == "" {
		moralLesson = "The importance of " + DefaultMoralPhrase
	}

	imageContext := ""
	if request.UploadedImage != "" {
		imageContext = uploadedImageDirective
	}

	var b strings.Builder
	b.WriteString("You are a world-class children's story author and educational expert. ")
	b.WriteString("Create a personalized, engaging children's storybook with educational value.\n\n")

	b.WriteString("STORY DETAILS:\n")
	fmt.Fprintf(&b, "- Child's Name: %s\n", request.ChildName)
	fmt.Fprintf(&b, "- Age Group: %s\n", request.ChildAge)
	fmt.Fprintf(&b, "- Reading Level: %s - %s\n", request.Difficulty, domain.VocabularyInstruction(request.Difficulty))
	fmt.Fprintf(&b, "- Main Character: %s\n", request.MainCharacter)
	fmt.Fprintf(&b, "- Character Details: %s\n", characterSheet)
	fmt.Fprintf(&b, "- Setting: %s\n", request.Setting)
	fmt.Fprintf(&b, "- Theme: %s\n", request.Theme)
	fmt.Fprintf(&b, "- Moral Lesson: %s\n", moralLesson)
	fmt.Fprintf(&b, "- Story Length: %d pages, approximately %d words per page\n", profile.PageCount, profile.WordsPerPage)
	fmt.Fprintf(&b, "- Art Style: %s\n\n", request.ArtStyle)

	if imageContext != "" {
		b.WriteString(imageContext + "\n\n")
	}

	b.WriteString("CHARACTER CONSISTENCY REQUIREMENTS:\n")
	b.WriteString("- Create a detailed character sheet description\n")
	b.WriteString("- Use this character sheet in every image prompt to maintain consistent appearance\n")
	b.WriteString("- Include specific details about appearance, clothing, and distinguishing features\n\n")

	b.WriteString("STORY REQUIREMENTS:\n")
	b.WriteString("1. Create an engaging, age-appropriate title\n")
	fmt.Fprintf(&b, "2. Write exactly %d pages of story content\n", profile.PageCount)
	fmt.Fprintf(&b, "3. Each page should be approximately %d words\n", profile.WordsPerPage)
	fmt.Fprintf(&b, "4. Include %s as a key character who learns and grows\n", request.ChildName)
	fmt.Fprintf(&b, "5. Make language appropriate for %s year olds at %s reading level\n", request.ChildAge, request.Difficulty)
	fmt.Fprintf(&b, "6. Incorporate the theme of %s throughout the story\n", request.Theme)
	fmt.Fprintf(&b, "7. End with a clear moral lesson about %s\n", moralPhrase(request))
	fmt.Fprintf(&b, "8. Create detailed, consistent image prompts in %s style\n\n", request.ArtStyle)

	b.WriteString("EDUCATIONAL COMPANION FEATURES:\n")
	b.WriteString("- Identify 5-8 key vocabulary words for this age group\n")
	b.WriteString("- Create 3-4 thoughtful discussion questions for parents/teachers\n")
	b.WriteString("- Suggest 1 creative activity related to the story theme\n\n")

	b.WriteString("IMAGE PROMPT REQUIREMENTS:\n")
	b.WriteString("- Start each image prompt with the character sheet details for consistency\n")
	fmt.Fprintf(&b, "- Include art style: %q\n", request.ArtStyle)
	b.WriteString("- Make images safe, positive, and engaging for children\n")
	b.WriteString("- Ensure diversity and inclusivity in character representations\n\n")

	fmt.Fprintf(&b, "FORMAT YOUR RESPONSE AS JSON with exactly %d entries in \"pages\":\n", profile.PageCount)
	fmt.Fprintf(&b, `{
  "title": "Story Title Here",
  "characterSheet": "Detailed physical description for consistent character appearance",
  "pages": [
    {
      "pageNumber": 1,
      "content": "Page content here...",
      "imagePrompt": "[Character sheet details] + scene description in %s style",
      "vocabulary": ["word1", "word2"]
    }
  ],
  "summary": "Brief story summary...",
  "keyVocabulary": ["word1", "word2", "word3", "word4", "word5"],
  "discussionQuestions": ["Question 1?", "Question 2?", "Question 3?"],
  "activityIdea": "A creative activity suggestion related to the story theme"
}
`, request.ArtStyle)
	b.WriteString("\nCreate a magical, educational, and memorable story that will inspire young minds!")

	return b.String()
}
