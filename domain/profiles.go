package domain

type LengthProfile struct {
	PageCount    int
	WordsPerPage int
}

var lengthProfiles = map[StoryLength]LengthProfile{
	ShortStory:  {PageCount: 6, WordsPerPage: 50},
	MediumStory: {PageCount: 12, WordsPerPage: 60},
	LongStory:   {PageCount: 20, WordsPerPage: 70},
}

var vocabularyLevels = map[Difficulty]string{
	BeginnerDifficulty:     "Use simple, common words that are easy to read and understand.",
	IntermediateDifficulty: "Mix simple words with some slightly more challenging vocabulary to help learning.",
	AdvancedDifficulty:     "Include rich vocabulary and descriptive language while remaining age-appropriate.",
}

// ResolveLengthProfile falls back to the short profile for unknown tiers.
func ResolveLengthProfile(length StoryLength) LengthProfile {
	if profile, ok := lengthProfiles[length]; ok {
		return profile
	}
	return lengthProfiles[ShortStory]
}

func VocabularyInstruction(difficulty Difficulty) string {
	if instruction, ok := vocabularyLevels[difficulty]; ok {
		return instruction
	}
	return vocabularyLevels[BeginnerDifficulty]
}
