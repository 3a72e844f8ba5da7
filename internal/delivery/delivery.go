// Package delivery defines the contract every delivery mechanism of the
// storefront implements.
package delivery

import "context"

// Delivery is a long-running front end, served until its context ends.
type Delivery interface {
	Serve(ctx context.Context) error
}
