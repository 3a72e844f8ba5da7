package impl

import (
	"log/slog"

	"harvest/internal/domain/entity"
	"harvest/internal/usecase"
)

// routeGate implements the RouteGate interface. It is pure: every decision
// is a function of the session snapshot and the route requirement.
type routeGate struct {
	logger *slog.Logger
}

// NewRouteGate is the constructor for routeGate.
func NewRouteGate(logger *slog.Logger) usecase.RouteGate {
	return &routeGate{logger: logger}
}

// Decide gates one navigation to a protected view.
func (g *routeGate) Decide(session entity.Session, path string, requiredRole entity.Role) usecase.Decision {
	decision := decide(session, path, requiredRole)

	g.logger.Debug("Route gate decision",
		slog.String("path", path),
		slog.String("required_role", requiredRole.String()),
		slog.String("outcome", decision.Outcome.String()))

	return decision
}

func decide(session entity.Session, path string, requiredRole entity.Role) usecase.Decision {
	// Before bootstrap completes the only correct answer is "keep waiting":
	// redirecting here would flash the login screen at a user whose session
	// is about to be restored.
	if !session.Bootstrapped {
		return usecase.Decision{Outcome: usecase.OutcomeLoading, From: path}
	}

	if session.Profile == nil {
		// Carry the requested destination so login can return the user there.
		return usecase.Decision{Outcome: usecase.OutcomeRedirectLogin, From: path}
	}

	if requiredRole != entity.RoleNone && !session.Profile.HasRole(requiredRole) {
		return usecase.Decision{Outcome: usecase.OutcomeRedirectHome, From: path}
	}

	return usecase.Decision{Outcome: usecase.OutcomeRender, From: path}
}
