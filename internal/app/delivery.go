package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cardy/internal/ports"
)

// wireMessage is the JSON shape every client receives.
type wireMessage struct {
	Type    EventKind `json:"type"`
	Content any       `json:"content"`
}

// Encode returns the wire form of ev.
func Encode(ev Event) ([]byte, error) {
	data, err := json.Marshal(wireMessage{Type: ev.Kind, Content: ev.Payload})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s event: %w", ev.Kind, err)
	}
	return data, nil
}

// Deliver pushes every event to each of its recipients. Delivery carries on past failures;
// the joined error lists them for logging.
func Deliver(ctx context.Context, d ports.Deliverer, events []Event) error {
	var errs []error
	for _, ev := range events {
		data, err := Encode(ev)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, connID := range ev.Recipients {
			if err := d.Deliver(ctx, connID, data); err != nil {
				errs = append(errs, fmt.Errorf("deliver %s to %s: %w", ev.Kind, connID, err))
			}
		}
	}
	return errors.Join(errs...)
}
