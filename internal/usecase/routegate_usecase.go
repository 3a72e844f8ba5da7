// Package usecase contains the application-specific business rules.
package usecase

import "harvest/internal/domain/entity"

// Outcome is the route gate's decision for one navigation.
type Outcome int

const (
	// OutcomeLoading means bootstrap has not completed; the caller must
	// show a neutral loading indicator and must not redirect anywhere.
	OutcomeLoading Outcome = iota
	// OutcomeRender means the requested view may render.
	OutcomeRender
	// OutcomeRedirectLogin means no session exists; go to login, keeping
	// the originally requested destination.
	OutcomeRedirectLogin
	// OutcomeRedirectHome means the session lacks the required role.
	OutcomeRedirectHome
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeLoading:
		return "loading"
	case OutcomeRender:
		return "render"
	case OutcomeRedirectLogin:
		return "redirect_login"
	case OutcomeRedirectHome:
		return "redirect_home"
	default:
		return "unknown"
	}
}

// Decision is the gate's verdict, carrying the originally requested path so
// a successful login can return the user there.
type Decision struct {
	Outcome Outcome
	From    string
}

// RouteGate decides whether a protected view may render for the current
// session. It is a pure function of the session snapshot and the
// requirement; it performs no I/O.
type RouteGate interface {
	Decide(session entity.Session, path string, requiredRole entity.Role) Decision
}
