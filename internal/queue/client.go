package queue

import "context"

// Client enqueues batch messages for asynchronous processing.
type Client interface {
	Enqueue(ctx context.Context, msg Message) error
}
