// Package entity contains the core business objects of the project.
package entity

// SessionState names the phases of the session lifecycle. The sequence is
// Uninitialized -> CheckingCredential -> (Authenticated | Anonymous) ->
// Bootstrapped, and Bootstrapped is a latch: it is entered exactly once per
// process and never left, even across later logins and logouts.
type SessionState int

const (
	// SessionUninitialized means Bootstrap has not started yet.
	SessionUninitialized SessionState = iota
	// SessionCheckingCredential means the stored credential is being verified
	// against the remote profile endpoint.
	SessionCheckingCredential
	// SessionAuthenticated means a profile was restored before the bootstrap
	// latch was set.
	SessionAuthenticated
	// SessionAnonymous means no usable credential was found before the
	// bootstrap latch was set.
	SessionAnonymous
	// SessionBootstrapped means the one-time restore sequence has finished.
	SessionBootstrapped
)

// String returns a human readable state name.
func (s SessionState) String() string {
	switch s {
	case SessionUninitialized:
		return "uninitialized"
	case SessionCheckingCredential:
		return "checking_credential"
	case SessionAuthenticated:
		return "authenticated"
	case SessionAnonymous:
		return "anonymous"
	case SessionBootstrapped:
		return "bootstrapped"
	default:
		return "unknown"
	}
}

// Session is an immutable snapshot of the session controller's state, taken
// for one routing or rendering decision. Profile is nil for anonymous
// sessions.
type Session struct {
	Profile      *Profile
	State        SessionState
	Bootstrapped bool
	Pending      bool
	LastError    string
}

// Authenticated reports whether a signed-in profile is present.
func (s Session) Authenticated() bool {
	return s.Profile != nil
}

// Owner returns the collection owner for the session: the signed-in user's
// id, or the guest pseudo-user when anonymous.
func (s Session) Owner() Owner {
	if s.Profile == nil {
		return OwnerGuest
	}

	return OwnerForUser(s.Profile.Identity.ID)
}
