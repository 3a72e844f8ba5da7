package service

import "context"

// ApprovalResult is what the payment provider appends to the return
// redirect after the buyer approves the payment.
type ApprovalResult struct {
	ProviderOrderID string // The provider's order id ("token" query parameter).
	PayerID         string // The approving payer's id.
}

// ApprovalListener receives the payment provider's return redirect on a
// local HTTP endpoint, standing in for the storefront's return route.
type ApprovalListener interface {
	// ReturnURL is the redirect target handed to the provider, carrying the
	// given state nonce. Redirects with a different nonce are ignored.
	ReturnURL(state string) string

	// Await blocks until the redirect for the given state arrives, the
	// buyer cancels, or ctx ends.
	Await(ctx context.Context, state string) (*ApprovalResult, error)
}
