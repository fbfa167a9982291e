package mock_generator

import "encoding/json"

// MockStory is a canned model reply replayed after Delay milliseconds.
type MockStory struct {
	Delay int             `json:"delay"`
	Story json.RawMessage `json:"story"`
}
