package domain

import (
	"errors"
	"fmt"
)

var (
	ErrTextGeneration = errors.New("text generation failed")
	ErrStoryNotFound  = errors.New("story not found")
	ErrForbidden      = errors.New("story belongs to another user")
	ErrStoryConflict  = errors.New("story was modified concurrently")
)

type ParseFailureReason string

const (
	NoJSONFound   ParseFailureReason = "no_json_found"
	InvalidJSON   ParseFailureReason = "invalid_json"
	MissingFields ParseFailureReason = "missing_fields"
)

// ParseFailure is returned by the response parser and recovered by the pipeline.
type ParseFailure struct {
	Reason ParseFailureReason
	Err    error
}

func (p *ParseFailure) Error() string {
	if p.Err == nil {
		return fmt.Sprintf("parse failure: %s", p.Reason)
	}
	return fmt.Sprintf("parse failure: %s: %v", p.Reason, p.Err)
}

func (p *ParseFailure) Unwrap() error {
	return p.Err
}
