// Package delivery holds the inbound transports started by the process.
package delivery

import "context"

// Delivery is a transport that serves until it is stopped.
type Delivery interface {
	Serve(ctx context.Context) error
}
