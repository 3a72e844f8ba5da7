package impl

import (
	"testing"

	"harvest/internal/domain/entity"
	"harvest/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func gateSession(profile *entity.Profile, bootstrapped bool) entity.Session {
	state := entity.SessionCheckingCredential
	if bootstrapped {
		state = entity.SessionBootstrapped
	}

	return entity.Session{
		Profile:      profile,
		State:        state,
		Bootstrapped: bootstrapped,
	}
}

func TestRouteGate_Decide(t *testing.T) {
	gate := NewRouteGate(discardLogger())

	farmer := &entity.Profile{Identity: entity.Identity{ID: 1, IsFarmer: true}}
	staff := &entity.Profile{Identity: entity.Identity{ID: 2, IsStaff: true}}
	buyer := &entity.Profile{Identity: entity.Identity{ID: 3, IsBuyer: true}}

	tests := []struct {
		name         string
		session      entity.Session
		path         string
		requiredRole entity.Role
		want         usecase.Outcome
	}{
		{
			name:         "loading before bootstrap even when signed in",
			session:      gateSession(buyer, false),
			path:         "/orders",
			requiredRole: entity.RoleNone,
			want:         usecase.OutcomeLoading,
		},
		{
			name:         "anonymous redirected to login",
			session:      gateSession(nil, true),
			path:         "/wishlist",
			requiredRole: entity.RoleNone,
			want:         usecase.OutcomeRedirectLogin,
		},
		{
			name:         "signed in renders roleless page",
			session:      gateSession(buyer, true),
			path:         "/orders",
			requiredRole: entity.RoleNone,
			want:         usecase.OutcomeRender,
		},
		{
			name:         "farmer renders listing form",
			session:      gateSession(farmer, true),
			path:         "/product/add",
			requiredRole: entity.RoleFarmer,
			want:         usecase.OutcomeRender,
		},
		{
			name:         "buyer bounced home from listing form",
			session:      gateSession(buyer, true),
			path:         "/product/add",
			requiredRole: entity.RoleFarmer,
			want:         usecase.OutcomeRedirectHome,
		},
		{
			name:         "staff satisfies admin requirement",
			session:      gateSession(staff, true),
			path:         "/admin",
			requiredRole: entity.RoleAdmin,
			want:         usecase.OutcomeRender,
		},
		{
			name:         "farmer bounced home from admin",
			session:      gateSession(farmer, true),
			path:         "/admin",
			requiredRole: entity.RoleAdmin,
			want:         usecase.OutcomeRedirectHome,
		},
		{
			name:         "unknown role never matches",
			session:      gateSession(staff, true),
			path:         "/admin",
			requiredRole: entity.Role("owner"),
			want:         usecase.OutcomeRedirectHome,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := gate.Decide(tt.session, tt.path, tt.requiredRole)
			assert.Equal(t, tt.want, decision.Outcome)
			assert.Equal(t, tt.path, decision.From)
		})
	}
}
