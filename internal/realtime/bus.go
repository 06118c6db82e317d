package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
)

// Bus relays messages between API instances. Every instance forwards what it
// receives into its own Hub.
type Bus interface {
	Publish(ctx context.Context, msg Message) error
	StartForwarder(ctx context.Context, onMsg func(Message)) error
	Close() error
}

// BusPublisher publishes through a Bus instead of the local hub directly, so
// subscribers on every instance see the event.
type BusPublisher struct {
	bus Bus
}

func NewBusPublisher(bus Bus) *BusPublisher {
	return &BusPublisher{bus: bus}
}

var _ domain.EventPublisher = (*BusPublisher)(nil)

func (p *BusPublisher) Publish(ctx context.Context, sessionID string, event domain.VitalsEvent) error {
	return p.bus.Publish(ctx, Message{SessionID: sessionID, Event: EventVitalsUpdate, Data: event})
}

func encodeMessage(msg Message) ([]byte, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	return raw, nil
}

func decodeMessage(raw []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Message{}, fmt.Errorf("failed to decode message: %w", err)
	}
	if msg.SessionID == "" {
		return Message{}, fmt.Errorf("message without session id")
	}
	return msg, nil
}
