// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"harvest/config"
	"harvest/internal/domain/entity"
	domainerrors "harvest/internal/domain/errors"
	"harvest/internal/domain/gateway"
	"harvest/internal/domain/repository"
	"harvest/internal/domain/service"
	"harvest/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// sessionController implements the SessionUsecase interface. It is the only
// component that mutates the cached profile, and it keeps the credential
// vault and the in-memory state consistent: no operation leaves a stored
// credential behind with a nil profile once it settles.
type sessionController struct {
	vault       service.CredentialVault
	authGW      gateway.AuthGateway
	profileGW   gateway.ProfileGateway
	collections repository.CollectionRepository
	inspector   service.TokenInspector
	validate    *validator.Validate
	minSplash   time.Duration
	logger      *slog.Logger

	mu           sync.Mutex
	state        entity.SessionState
	profile      *entity.Profile
	lastError    string
	pendingLogin bool
	bootstrapped bool

	// version is the stale-response guard. It advances on every credential
	// change; a profile fetch only applies if the version it started under
	// is still current, so a fetch resolving after logout is discarded.
	version uint64

	bootstrapOnce sync.Once
	ready         chan struct{}
}

// NewSessionController is the constructor for sessionController. It receives all dependencies as interfaces.
func NewSessionController(
	cfg *config.Config,
	vault service.CredentialVault,
	authGW gateway.AuthGateway,
	profileGW gateway.ProfileGateway,
	collections repository.CollectionRepository,
	inspector service.TokenInspector,
	logger *slog.Logger,
) usecase.SessionUsecase {
	return &sessionController{
		vault:       vault,
		authGW:      authGW,
		profileGW:   profileGW,
		collections: collections,
		inspector:   inspector,
		validate:    validator.New(),
		minSplash:   cfg.Bootstrap.MinSplash,
		logger:      logger,
		state:       entity.SessionUninitialized,
		ready:       make(chan struct{}),
	}
}

// Bootstrap runs the one-time session restore. Later calls are no-ops and
// issue no gateway call.
func (srv *sessionController) Bootstrap(ctx context.Context) {
	srv.bootstrapOnce.Do(func() {
		srv.bootstrap(ctx)
	})
}

func (srv *sessionController) bootstrap(ctx context.Context) {
	// The splash timer starts before the credential check so the two run
	// concurrently; readiness is their join.
	splashDone := time.After(srv.minSplash)

	srv.mu.Lock()
	srv.state = entity.SessionCheckingCredential
	version := srv.version
	srv.mu.Unlock()

	srv.logger.Info("Starting session bootstrap")

	credential, found, err := srv.vault.Restore(ctx)
	switch {
	case err != nil:
		// Fail open: a broken local store means anonymous browsing, never
		// a startup failure.
		srv.logger.Warn("Failed to read stored credential, continuing anonymously", slog.Any("error", err))
		srv.finishBootstrap(nil)
	case !found:
		srv.logger.Info("No stored credential, session is anonymous")
		srv.finishBootstrap(nil)
	default:
		if info, inspectErr := srv.inspector.Inspect(credential); inspectErr == nil && info.Expired {
			// Advisory only. The remote API stays the authority on validity.
			srv.logger.Debug("Stored credential is past its expiry claim", slog.Time("expires_at", info.ExpiresAt))
		}

		profile, fetchErr := srv.profileGW.FetchCurrent(ctx)
		if fetchErr != nil {
			// Every failure kind degrades to anonymous, and the credential
			// is cleared so it is never retried silently.
			srv.logger.Warn("Profile restore failed, clearing credential",
				slog.String("kind", domainerrors.KindOf(fetchErr).String()), slog.Any("error", fetchErr))
			if clearErr := srv.vault.Clear(ctx); clearErr != nil {
				srv.logger.Error("Failed to clear rejected credential", slog.Any("error", clearErr))
			}
			srv.finishBootstrap(nil)
		} else if !srv.applyProfile(version, profile) {
			srv.finishBootstrap(nil)
		} else {
			srv.finishBootstrap(profile)
		}
	}

	// Readiness joins the credential check (done here) with the splash
	// timer. Session operations never wait on this.
	go func() {
		<-splashDone
		close(srv.ready)
		srv.logger.Info("Session bootstrap complete", slog.Bool("authenticated", srv.Snapshot().Authenticated()))
	}()
}

// finishBootstrap latches the bootstrapped state. The latch never reverts,
// even across later logins and logouts.
func (srv *sessionController) finishBootstrap(profile *entity.Profile) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if profile != nil {
		srv.state = entity.SessionAuthenticated
	} else {
		srv.state = entity.SessionAnonymous
	}
	srv.logger.Debug("Session resolved", slog.String("state", srv.state.String()))

	srv.state = entity.SessionBootstrapped
	srv.bootstrapped = true
}

// Ready is closed once both the credential check and the splash timer have
// completed.
func (srv *sessionController) Ready() <-chan struct{} {
	return srv.ready
}

// WaitReady blocks until Ready is closed or ctx ends.
func (srv *sessionController) WaitReady(ctx context.Context) error {
	select {
	case <-srv.ready:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "session bootstrap not ready")
	}
}

// Login authenticates against the remote API and loads the profile.
func (srv *sessionController) Login(ctx context.Context, input *usecase.LoginInput) error {
	if err := srv.validate.Struct(input); err != nil {
		return errors.Wrap(err, "invalid login input")
	}

	srv.mu.Lock()
	if srv.pendingLogin {
		srv.mu.Unlock()

		return errors.WithStack(domainerrors.ErrOperationPending)
	}
	srv.pendingLogin = true
	srv.lastError = ""
	srv.mu.Unlock()

	defer func() {
		srv.mu.Lock()
		srv.pendingLogin = false
		srv.mu.Unlock()
	}()

	srv.logger.Info("Starting login", slog.String("username", input.Username))

	credential, err := srv.authGW.Login(ctx, input.Username, input.Password)
	if err != nil {
		return srv.failLogin(ctx, err)
	}

	if err := srv.vault.Store(ctx, credential); err != nil {
		return srv.failLogin(ctx, errors.Wrap(err, "failed to persist credential"))
	}

	srv.mu.Lock()
	srv.version++
	version := srv.version
	srv.mu.Unlock()

	profile, err := srv.profileGW.FetchCurrent(ctx)
	if err != nil {
		return srv.failLogin(ctx, err)
	}

	if !srv.applyProfile(version, profile) {
		return errors.New("session changed during login")
	}

	srv.logger.Info("Login succeeded", slog.Int64("user_id", profile.Identity.ID))

	return nil
}

// failLogin restores the resting invariant after a failed login: no stored
// credential, no profile, and a user-facing message recorded.
func (srv *sessionController) failLogin(ctx context.Context, cause error) error {
	if err := srv.vault.Clear(ctx); err != nil {
		srv.logger.Error("Failed to clear credential after failed login", slog.Any("error", err))
	}

	srv.mu.Lock()
	srv.profile = nil
	srv.version++
	srv.lastError = domainerrors.MessageOf(cause)
	srv.mu.Unlock()

	srv.logger.Warn("Login failed",
		slog.String("kind", domainerrors.KindOf(cause).String()), slog.Any("error", cause))

	return errors.Wrap(cause, "login failed")
}

// Register creates a new account. Session state is untouched on success.
func (srv *sessionController) Register(ctx context.Context, input *usecase.RegisterInput) (*entity.Identity, error) {
	if err := srv.validate.Struct(input); err != nil {
		return nil, errors.Wrap(err, "invalid registration input")
	}

	srv.logger.Info("Starting registration", slog.String("username", input.Username))

	identity, err := srv.authGW.Register(ctx, &gateway.RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		IsFarmer: input.IsFarmer,
		IsBuyer:  input.IsBuyer,
		Phone:    input.Phone,
		Address:  input.Address,
	})
	if err != nil {
		srv.mu.Lock()
		srv.lastError = domainerrors.MessageOf(err)
		srv.mu.Unlock()

		srv.logger.Warn("Registration failed", slog.Any("error", err))

		return nil, errors.Wrap(err, "registration failed")
	}

	srv.logger.Info("Registration succeeded", slog.Int64("user_id", identity.ID))

	return identity, nil
}

// Logout clears the credential and the outgoing user's local collections.
func (srv *sessionController) Logout(ctx context.Context) error {
	srv.mu.Lock()
	outgoing := entity.OwnerGuest
	if srv.profile != nil {
		outgoing = entity.OwnerForUser(srv.profile.Identity.ID)
	}
	srv.profile = nil
	srv.lastError = ""
	srv.version++
	srv.mu.Unlock()

	if err := srv.vault.Clear(ctx); err != nil {
		return errors.Wrap(err, "failed to clear credential on logout")
	}

	if outgoing != entity.OwnerGuest {
		// Non-fatal: a failed purge leaves stale rows, not a broken session.
		if err := srv.collections.PurgeOwner(ctx, outgoing); err != nil {
			srv.logger.Warn("Failed to purge outgoing user's collections",
				slog.String("owner", string(outgoing)), slog.Any("error", err))
		}
	}

	srv.logger.Info("Logged out", slog.String("owner", string(outgoing)))

	return nil
}

// Refresh re-runs the profile fetch for the current credential.
func (srv *sessionController) Refresh(ctx context.Context) error {
	if _, ok := srv.vault.Current(); !ok {
		return errors.WithStack(domainerrors.ErrLoginRequired)
	}

	srv.mu.Lock()
	version := srv.version
	srv.mu.Unlock()

	profile, err := srv.profileGW.FetchCurrent(ctx)
	if err != nil {
		if domainerrors.IsAuth(err) {
			// The transport already invalidated the credential; drop the
			// profile so the resting invariant holds.
			srv.mu.Lock()
			srv.profile = nil
			srv.version++
			srv.mu.Unlock()
		}

		return errors.Wrap(err, "failed to refresh profile")
	}

	if !srv.applyProfile(version, profile) {
		return errors.New("session changed during refresh")
	}

	return nil
}

// applyProfile installs a fetched profile unless the session has moved on
// since the fetch started.
func (srv *sessionController) applyProfile(version uint64, profile *entity.Profile) bool {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if version != srv.version {
		srv.logger.Debug("Discarding stale profile fetch",
			slog.Uint64("fetch_version", version), slog.Uint64("current_version", srv.version))

		return false
	}

	if srv.profile != nil && srv.profile.Identity.ID != profile.Identity.ID {
		// Identity.ID is immutable within a session; a different id means
		// the fetch belongs to another credential entirely.
		srv.logger.Warn("Discarding profile with mismatched identity",
			slog.Int64("have", srv.profile.Identity.ID), slog.Int64("got", profile.Identity.ID))

		return false
	}

	srv.profile = profile
	srv.lastError = ""

	return true
}

// HasRole reports whether the current profile satisfies the role.
func (srv *sessionController) HasRole(role entity.Role) bool {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return srv.profile.HasRole(role)
}

// Snapshot returns an immutable view of the session state.
func (srv *sessionController) Snapshot() entity.Session {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	return entity.Session{
		Profile:      srv.profile,
		State:        srv.state,
		Bootstrapped: srv.bootstrapped,
		Pending:      srv.pendingLogin,
		LastError:    srv.lastError,
	}
}
