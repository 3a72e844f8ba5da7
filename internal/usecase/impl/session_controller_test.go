package impl

import (
	"context"
	"testing"
	"time"

	"harvest/config"
	"harvest/internal/domain/entity"
	domainerrors "harvest/internal/domain/errors"
	"harvest/internal/domain/gateway"
	"harvest/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(
	vault *fakeVault,
	authGW *fakeAuthGateway,
	profileGW *fakeProfileGateway,
	collections *fakeCollectionRepo,
	minSplash time.Duration,
) usecase.SessionUsecase {
	cfg := &config.Config{
		Bootstrap: &config.BootstrapConfig{MinSplash: minSplash},
	}

	return NewSessionController(cfg, vault, authGW, profileGW, collections, &fakeInspector{}, discardLogger())
}

func TestSessionController_Bootstrap_Anonymous(t *testing.T) {
	vault := &fakeVault{}
	session := newTestSession(vault, &fakeAuthGateway{}, &fakeProfileGateway{}, newFakeCollectionRepo(), 0)

	session.Bootstrap(context.Background())

	snapshot := session.Snapshot()
	assert.True(t, snapshot.Bootstrapped)
	assert.Equal(t, entity.SessionBootstrapped, snapshot.State)
	assert.Nil(t, snapshot.Profile)
	assert.Equal(t, entity.OwnerGuest, snapshot.Owner())
}

func TestSessionController_Bootstrap_RestoresProfile(t *testing.T) {
	vault := &fakeVault{credential: "token-1", present: true}
	profileGW := &fakeProfileGateway{
		fetchFn: func(context.Context) (*entity.Profile, error) {
			return buyerProfile(7, "alice"), nil
		},
	}
	session := newTestSession(vault, &fakeAuthGateway{}, profileGW, newFakeCollectionRepo(), 0)

	session.Bootstrap(context.Background())

	snapshot := session.Snapshot()
	require.NotNil(t, snapshot.Profile)
	assert.Equal(t, int64(7), snapshot.Profile.Identity.ID)
	assert.True(t, snapshot.Authenticated())
	assert.Equal(t, entity.Owner("7"), snapshot.Owner())
}

func TestSessionController_Bootstrap_FailsOpenOnStorageError(t *testing.T) {
	vault := &fakeVault{restoreErr: assert.AnError}
	session := newTestSession(vault, &fakeAuthGateway{}, &fakeProfileGateway{}, newFakeCollectionRepo(), 0)

	session.Bootstrap(context.Background())

	snapshot := session.Snapshot()
	assert.True(t, snapshot.Bootstrapped)
	assert.Nil(t, snapshot.Profile)
}

func TestSessionController_Bootstrap_ClearsRejectedCredential(t *testing.T) {
	vault := &fakeVault{credential: "stale-token", present: true}
	profileGW := &fakeProfileGateway{
		fetchFn: func(context.Context) (*entity.Profile, error) {
			return nil, domainerrors.ErrCredentialRejected
		},
	}
	session := newTestSession(vault, &fakeAuthGateway{}, profileGW, newFakeCollectionRepo(), 0)

	session.Bootstrap(context.Background())

	snapshot := session.Snapshot()
	assert.True(t, snapshot.Bootstrapped)
	assert.Nil(t, snapshot.Profile)

	_, present := vault.Current()
	assert.False(t, present)
	assert.GreaterOrEqual(t, vault.clearCalls, 1)
}

func TestSessionController_Bootstrap_Idempotent(t *testing.T) {
	vault := &fakeVault{credential: "token-1", present: true}
	profileGW := &fakeProfileGateway{
		fetchFn: func(context.Context) (*entity.Profile, error) {
			return buyerProfile(7, "alice"), nil
		},
	}
	session := newTestSession(vault, &fakeAuthGateway{}, profileGW, newFakeCollectionRepo(), 0)

	session.Bootstrap(context.Background())
	session.Bootstrap(context.Background())
	session.Bootstrap(context.Background())

	assert.Equal(t, 1, vault.restoreCalls)
	assert.Equal(t, int32(1), profileGW.fetchCalls.Load())
}

func TestSessionController_ReadinessWaitsForSplashTimer(t *testing.T) {
	const minSplash = 80 * time.Millisecond

	session := newTestSession(&fakeVault{}, &fakeAuthGateway{}, &fakeProfileGateway{}, newFakeCollectionRepo(), minSplash)

	start := time.Now()
	session.Bootstrap(context.Background())

	// The session itself resolves without waiting on the timer.
	assert.True(t, session.Snapshot().Bootstrapped)

	require.NoError(t, session.WaitReady(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), minSplash)
}

func TestSessionController_Login_Success(t *testing.T) {
	vault := &fakeVault{}
	authGW := &fakeAuthGateway{
		loginFn: func(_ context.Context, username, password string) (string, error) {
			assert.Equal(t, "alice", username)
			assert.Equal(t, "hunter22", password)

			return "fresh-token", nil
		},
	}
	profileGW := &fakeProfileGateway{
		fetchFn: func(context.Context) (*entity.Profile, error) {
			return buyerProfile(7, "alice"), nil
		},
	}
	session := newTestSession(vault, authGW, profileGW, newFakeCollectionRepo(), 0)
	session.Bootstrap(context.Background())

	err := session.Login(context.Background(), &usecase.LoginInput{Username: "alice", Password: "hunter22"})
	require.NoError(t, err)

	credential, present := vault.Current()
	assert.True(t, present)
	assert.Equal(t, "fresh-token", credential)

	snapshot := session.Snapshot()
	require.NotNil(t, snapshot.Profile)
	assert.Equal(t, "alice", snapshot.Profile.Identity.Username)
	assert.Empty(t, snapshot.LastError)
}

func TestSessionController_Login_WrongPassword(t *testing.T) {
	vault := &fakeVault{}
	authGW := &fakeAuthGateway{
		loginFn: func(context.Context, string, string) (string, error) {
			return "", domainerrors.ErrInvalidCredentials
		},
	}
	session := newTestSession(vault, authGW, &fakeProfileGateway{}, newFakeCollectionRepo(), 0)
	session.Bootstrap(context.Background())

	err := session.Login(context.Background(), &usecase.LoginInput{Username: "alice", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, domainerrors.KindAuth, domainerrors.KindOf(err))

	_, present := vault.Current()
	assert.False(t, present)

	snapshot := session.Snapshot()
	assert.Nil(t, snapshot.Profile)
	assert.Equal(t, domainerrors.ErrInvalidCredentials.Message(), snapshot.LastError)
}

func TestSessionController_Login_FailedProfileFetchClearsCredential(t *testing.T) {
	vault := &fakeVault{}
	authGW := &fakeAuthGateway{
		loginFn: func(context.Context, string, string) (string, error) {
			return "fresh-token", nil
		},
	}
	profileGW := &fakeProfileGateway{
		fetchFn: func(context.Context) (*entity.Profile, error) {
			return nil, domainerrors.ErrNoResponse
		},
	}
	session := newTestSession(vault, authGW, profileGW, newFakeCollectionRepo(), 0)
	session.Bootstrap(context.Background())

	err := session.Login(context.Background(), &usecase.LoginInput{Username: "alice", Password: "hunter22"})
	require.Error(t, err)

	// The half-logged-in state is not observable: credential and profile
	// are both absent again.
	_, present := vault.Current()
	assert.False(t, present)
	assert.Nil(t, session.Snapshot().Profile)
}

func TestSessionController_Login_RejectsConcurrentAttempt(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	authGW := &fakeAuthGateway{
		loginFn: func(context.Context, string, string) (string, error) {
			close(started)
			<-release

			return "", domainerrors.ErrInvalidCredentials
		},
	}
	session := newTestSession(&fakeVault{}, authGW, &fakeProfileGateway{}, newFakeCollectionRepo(), 0)
	session.Bootstrap(context.Background())

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- session.Login(context.Background(), &usecase.LoginInput{Username: "alice", Password: "a"})
	}()

	<-started
	err := session.Login(context.Background(), &usecase.LoginInput{Username: "alice", Password: "b"})
	require.ErrorIs(t, err, domainerrors.ErrOperationPending)
	assert.Equal(t, int32(1), authGW.loginCalls.Load())

	close(release)
	require.Error(t, <-firstDone)
}

func TestSessionController_Login_ValidatesInput(t *testing.T) {
	session := newTestSession(&fakeVault{}, &fakeAuthGateway{}, &fakeProfileGateway{}, newFakeCollectionRepo(), 0)

	err := session.Login(context.Background(), &usecase.LoginInput{Username: "", Password: ""})
	require.Error(t, err)
}

func TestSessionController_Logout_PurgesOutgoingOwner(t *testing.T) {
	vault := &fakeVault{credential: "token-1", present: true}
	profileGW := &fakeProfileGateway{
		fetchFn: func(context.Context) (*entity.Profile, error) {
			return buyerProfile(7, "alice"), nil
		},
	}
	collections := newFakeCollectionRepo()
	session := newTestSession(vault, &fakeAuthGateway{}, profileGW, collections, 0)
	session.Bootstrap(context.Background())
	require.NotNil(t, session.Snapshot().Profile)

	require.NoError(t, session.Logout(context.Background()))

	snapshot := session.Snapshot()
	assert.Nil(t, snapshot.Profile)
	// The bootstrap latch survives logout.
	assert.True(t, snapshot.Bootstrapped)
	assert.Equal(t, entity.SessionBootstrapped, snapshot.State)

	_, present := vault.Current()
	assert.False(t, present)
	assert.Equal(t, []entity.Owner{entity.Owner("7")}, collections.purged)
}

func TestSessionController_Logout_AnonymousKeepsGuestCollections(t *testing.T) {
	collections := newFakeCollectionRepo()
	session := newTestSession(&fakeVault{}, &fakeAuthGateway{}, &fakeProfileGateway{}, collections, 0)
	session.Bootstrap(context.Background())

	require.NoError(t, session.Logout(context.Background()))
	assert.Empty(t, collections.purged)
}

func TestSessionController_StaleProfileFetchDiscardedAfterLogout(t *testing.T) {
	vault := &fakeVault{}
	authGW := &fakeAuthGateway{
		loginFn: func(context.Context, string, string) (string, error) {
			return "fresh-token", nil
		},
	}

	fetchStarted := make(chan struct{})
	releaseFetch := make(chan struct{})
	profileGW := &fakeProfileGateway{
		fetchFn: func(context.Context) (*entity.Profile, error) {
			close(fetchStarted)
			<-releaseFetch

			return buyerProfile(7, "alice"), nil
		},
	}

	session := newTestSession(vault, authGW, profileGW, newFakeCollectionRepo(), 0)
	session.Bootstrap(context.Background())

	loginDone := make(chan error, 1)
	go func() {
		loginDone <- session.Login(context.Background(), &usecase.LoginInput{Username: "alice", Password: "a"})
	}()

	// Log out while the login's profile fetch is still in flight.
	<-fetchStarted
	require.NoError(t, session.Logout(context.Background()))
	close(releaseFetch)

	require.Error(t, <-loginDone)
	assert.Nil(t, session.Snapshot().Profile)
}

func TestSessionController_Register_DoesNotMutateSession(t *testing.T) {
	vault := &fakeVault{}
	authGW := &fakeAuthGateway{
		registerFn: func(_ context.Context, input *gateway.RegisterInput) (*entity.Identity, error) {
			return &entity.Identity{ID: 42, Username: input.Username, IsBuyer: input.IsBuyer}, nil
		},
	}
	session := newTestSession(vault, authGW, &fakeProfileGateway{}, newFakeCollectionRepo(), 0)
	session.Bootstrap(context.Background())

	identity, err := session.Register(context.Background(), &usecase.RegisterInput{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "long-enough",
		IsBuyer:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), identity.ID)

	// Registration never signs the caller in.
	snapshot := session.Snapshot()
	assert.Nil(t, snapshot.Profile)
	_, present := vault.Current()
	assert.False(t, present)
}

func TestSessionController_Refresh_RequiresCredential(t *testing.T) {
	session := newTestSession(&fakeVault{}, &fakeAuthGateway{}, &fakeProfileGateway{}, newFakeCollectionRepo(), 0)
	session.Bootstrap(context.Background())

	err := session.Refresh(context.Background())
	require.ErrorIs(t, err, domainerrors.ErrLoginRequired)
}

func TestSessionController_HasRole(t *testing.T) {
	profileGW := &fakeProfileGateway{
		fetchFn: func(context.Context) (*entity.Profile, error) {
			return buyerProfile(7, "alice"), nil
		},
	}
	session := newTestSession(&fakeVault{credential: "t", present: true}, &fakeAuthGateway{}, profileGW, newFakeCollectionRepo(), 0)
	session.Bootstrap(context.Background())

	assert.True(t, session.HasRole(entity.RoleBuyer))
	assert.False(t, session.HasRole(entity.RoleFarmer))
	assert.False(t, session.HasRole(entity.RoleAdmin))
}
