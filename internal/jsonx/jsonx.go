package jsonx

import "github.com/goccy/go-json"

// Thin wrapper so the store and the models share one JSON implementation.
var (
	Marshal   = json.Marshal
	Unmarshal = json.Unmarshal
)

type RawMessage = json.RawMessage
