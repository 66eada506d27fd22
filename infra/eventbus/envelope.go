package eventbus

import "encoding/json"

// envelope wraps a serialized event with its type name so consumers can
// pick the right constructor when rehydrating.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}
