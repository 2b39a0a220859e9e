package ports

import "context"

// Deliverer pushes an encoded message to one live connection.
type Deliverer interface {
	// Deliver is fire-and-forget. Unknown or closed connections are dropped without an error;
	// the error return is reserved for transport failures worth logging.
	Deliver(ctx context.Context, connectionID string, message []byte) error
}
