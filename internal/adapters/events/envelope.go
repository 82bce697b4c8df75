package events

import (
	"encoding/json"
	"fmt"

	"github.com/streamcart/product-catalog/internal/domain"
	"github.com/streamcart/product-catalog/internal/ports"
)

func EncodeEnvelope(envelope ports.EventEnvelope) ([]byte, error) {
	return json.Marshal(envelope)
}

// DecodeEnvelope parses raw broker bytes back into an envelope. Bytes that do
// not parse, or envelopes carrying an unknown event type, are rejected as
// malformed so a consumer can skip them without stopping its loop.
func DecodeEnvelope(raw []byte) (ports.EventEnvelope, error) {
	var envelope ports.EventEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ports.EventEnvelope{}, fmt.Errorf("%w: %v", domain.ErrMalformedMessage, err)
	}
	if !domain.ValidEventType(envelope.Type) {
		return ports.EventEnvelope{}, fmt.Errorf("%w: unknown event type %q", domain.ErrMalformedMessage, envelope.Type)
	}
	return envelope, nil
}
