// Package delivery defines the contract every transport entry point
// (HTTP server, worker loop) exposes to the composition root.
package delivery

import "context"

// Delivery is a long-running transport that serves until the context is
// cancelled or an unrecoverable error occurs.
type Delivery interface {
	Serve(ctx context.Context) error
}
