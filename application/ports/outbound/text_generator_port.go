package outbound

import "context"

type GenerateTextRequest struct {
	SystemText  string
	PromptText  string
	Temperature float64
	JSONMode    bool
}

type TextGeneratorPort interface {
	Generate(ctx context.Context, req GenerateTextRequest) (string, error)
}
