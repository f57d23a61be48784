package ssap

import (
	"encoding/json"
	"testing"
)

func TestURIComposition(t *testing.T) {
	if got := URI("audio/setVolume"); got != "ssap://audio/setVolume" {
		t.Fatalf("URI = %q", got)
	}
	if got := URI("ssap://audio/setVolume"); got != "ssap://audio/setVolume" {
		t.Fatalf("prefixed URI changed: %q", got)
	}
}

func TestRegisterPayloadKeyInclusion(t *testing.T) {
	if _, ok := RegisterPayload("")["client-key"]; ok {
		t.Fatalf("empty credential must not be sent")
	}
	p := RegisterPayload("ABC123")
	if p["client-key"] != "ABC123" {
		t.Fatalf("client-key = %v", p["client-key"])
	}
	if _, ok := p["manifest"]; !ok {
		t.Fatalf("handshake payload missing manifest")
	}
}

func TestInboundFrameDecode(t *testing.T) {
	var f InboundFrame
	data := []byte(`{"id":"X","type":"response","payload":{"volume":15,"returnValue":true}}`)
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if f.ID != "X" || f.Type != TypeResponse {
		t.Fatalf("frame = %+v", f)
	}
	// Frames without an id are valid too.
	f = InboundFrame{}
	if err := json.Unmarshal([]byte(`{"type":"error","error":"boom"}`), &f); err != nil {
		t.Fatalf("unmarshal id-less frame: %v", err)
	}
	if f.ID != "" || f.Error != "boom" {
		t.Fatalf("frame = %+v", f)
	}
}
