package ssap

import (
	"encoding/json"
	"strings"
)

// URIPrefix is prepended to every relative command path.
const URIPrefix = "ssap://"

// Frame types on the wire.
const (
	TypeRegister   = "register"
	TypeRequest    = "request"
	TypeResponse   = "response"
	TypeRegistered = "registered"
	TypeError      = "error"
)

// OutboundFrame is a message sent to the TV.
type OutboundFrame struct {
	ID      string      `json:"id"`
	Type    string      `json:"type"`
	URI     string      `json:"uri,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// InboundFrame is a message received from the TV. ID is absent on some
// unsolicited frames.
type InboundFrame struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Error   string          `json:"error,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// URI composes a full command URI from a relative path. Paths that
// already carry a scheme prefix are returned unchanged.
func URI(relative string) string {
	if strings.HasPrefix(relative, URIPrefix) {
		return relative
	}
	return URIPrefix + relative
}
