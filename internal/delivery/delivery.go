// Package delivery defines the contract shared by all transport servers.
package delivery

import "context"

// Delivery is a transport server (HTTP today) started by the fx entrypoint.
type Delivery interface {
	// Serve blocks until the server stops or fails.
	Serve(ctx context.Context) error
}
