package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"harvest/internal/domain/entity"
	"harvest/internal/domain/gateway"
	"harvest/internal/domain/repository"
	"harvest/internal/domain/service"
	"harvest/internal/errors"
	"harvest/internal/usecase"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func buyerProfile(id int64, username string) *entity.Profile {
	return &entity.Profile{
		Identity: entity.Identity{
			ID:       id,
			Username: username,
			Email:    username + "@example.com",
			IsBuyer:  true,
		},
	}
}

// fakeVault is an in-memory stand-in for the credential vault.
type fakeVault struct {
	mu         sync.Mutex
	credential string
	present    bool

	restoreErr error
	storeErr   error
	clearErr   error

	restoreCalls int
	clearCalls   int
}

func (v *fakeVault) Restore(context.Context) (string, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.restoreCalls++
	if v.restoreErr != nil {
		return "", false, v.restoreErr
	}

	return v.credential, v.present, nil
}

func (v *fakeVault) Current() (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.credential, v.present
}

func (v *fakeVault) Store(_ context.Context, credential string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.storeErr != nil {
		return v.storeErr
	}
	v.credential = credential
	v.present = true

	return nil
}

func (v *fakeVault) Clear(context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.clearCalls++
	if v.clearErr != nil {
		return v.clearErr
	}
	v.credential = ""
	v.present = false

	return nil
}

func (v *fakeVault) Invalidate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.credential = ""
	v.present = false
}

// fakeAuthGateway scripts login and registration outcomes.
type fakeAuthGateway struct {
	loginFn    func(ctx context.Context, username, password string) (string, error)
	registerFn func(ctx context.Context, input *gateway.RegisterInput) (*entity.Identity, error)
	loginCalls atomic.Int32
}

func (g *fakeAuthGateway) Login(ctx context.Context, username, password string) (string, error) {
	g.loginCalls.Add(1)
	if g.loginFn == nil {
		return "", errors.New("unexpected Login call")
	}

	return g.loginFn(ctx, username, password)
}

func (g *fakeAuthGateway) Register(ctx context.Context, input *gateway.RegisterInput) (*entity.Identity, error) {
	if g.registerFn == nil {
		return nil, errors.New("unexpected Register call")
	}

	return g.registerFn(ctx, input)
}

// fakeProfileGateway scripts the profile fetch.
type fakeProfileGateway struct {
	fetchFn    func(ctx context.Context) (*entity.Profile, error)
	updateFn   func(ctx context.Context, input *gateway.UpdateProfileInput) (*entity.Profile, error)
	fetchCalls atomic.Int32
}

func (g *fakeProfileGateway) FetchCurrent(ctx context.Context) (*entity.Profile, error) {
	g.fetchCalls.Add(1)
	if g.fetchFn == nil {
		return nil, errors.New("unexpected FetchCurrent call")
	}

	return g.fetchFn(ctx)
}

func (g *fakeProfileGateway) UpdateCurrent(ctx context.Context, input *gateway.UpdateProfileInput) (*entity.Profile, error) {
	if g.updateFn == nil {
		return nil, errors.New("unexpected UpdateCurrent call")
	}

	return g.updateFn(ctx, input)
}

// fakeCollectionRepo keeps collections in memory, keyed the same way the
// persistent store keys them.
type fakeCollectionRepo struct {
	mu        sync.Mutex
	carts     map[string][]entity.CartEntry
	wishlists map[string][]entity.WishlistEntry
	purged    []entity.Owner
	failAll   error
}

func newFakeCollectionRepo() *fakeCollectionRepo {
	return &fakeCollectionRepo{
		carts:     map[string][]entity.CartEntry{},
		wishlists: map[string][]entity.WishlistEntry{},
	}
}

func (r *fakeCollectionRepo) LoadCart(_ context.Context, owner entity.Owner) ([]entity.CartEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}

	return append([]entity.CartEntry(nil), r.carts[owner.CartKey()]...), nil
}

func (r *fakeCollectionRepo) SaveCart(_ context.Context, owner entity.Owner, entries []entity.CartEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return r.failAll
	}
	r.carts[owner.CartKey()] = append([]entity.CartEntry(nil), entries...)

	return nil
}

func (r *fakeCollectionRepo) LoadWishlist(_ context.Context, owner entity.Owner) ([]entity.WishlistEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}

	return append([]entity.WishlistEntry(nil), r.wishlists[owner.WishlistKey()]...), nil
}

func (r *fakeCollectionRepo) SaveWishlist(_ context.Context, owner entity.Owner, entries []entity.WishlistEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return r.failAll
	}
	r.wishlists[owner.WishlistKey()] = append([]entity.WishlistEntry(nil), entries...)

	return nil
}

func (r *fakeCollectionRepo) PurgeOwner(_ context.Context, owner entity.Owner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return r.failAll
	}
	delete(r.carts, owner.CartKey())
	delete(r.wishlists, owner.WishlistKey())
	r.purged = append(r.purged, owner)

	return nil
}

// fakeTxManager runs the callback directly against the in-memory repo; the
// fake has no rollback, which the collection tests do not rely on.
type fakeTxManager struct {
	collections *fakeCollectionRepo
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(&fakeRepoFactory{collections: m.collections})
}

type fakeRepoFactory struct {
	collections *fakeCollectionRepo
}

func (f *fakeRepoFactory) CredentialRepo() repository.CredentialRepository {
	panic("credential repository not faked")
}

func (f *fakeRepoFactory) CollectionRepo() repository.CollectionRepository {
	return f.collections
}

// fakeInspector scripts the advisory token inspection.
type fakeInspector struct {
	info *service.TokenInfo
	err  error
}

func (i *fakeInspector) Inspect(string) (*service.TokenInfo, error) {
	if i.err != nil {
		return nil, i.err
	}
	if i.info == nil {
		return &service.TokenInfo{}, nil
	}

	return i.info, nil
}

// fakeOrderGateway scripts the remote order endpoints.
type fakeOrderGateway struct {
	createFn func(ctx context.Context, input *gateway.CreateOrderInput) (*entity.Order, error)
	orders   []*entity.Order
}

func (g *fakeOrderGateway) ListOrders(context.Context) ([]*entity.Order, error) {
	return g.orders, nil
}

func (g *fakeOrderGateway) GetOrder(_ context.Context, id int64) (*entity.Order, error) {
	for _, order := range g.orders {
		if order.ID == id {
			return order, nil
		}
	}

	return nil, errors.New("order not found")
}

func (g *fakeOrderGateway) CreateOrder(ctx context.Context, input *gateway.CreateOrderInput) (*entity.Order, error) {
	return g.createFn(ctx, input)
}

// fakePaymentGateway scripts provider order creation and capture.
type fakePaymentGateway struct {
	createFn  func(ctx context.Context, orderID int64, returnURL string) (*gateway.ProviderOrder, error)
	captureFn func(ctx context.Context, providerOrderID string, orderID int64) (*entity.PaymentCapture, error)
}

func (g *fakePaymentGateway) CreateProviderOrder(ctx context.Context, orderID int64, returnURL string) (*gateway.ProviderOrder, error) {
	return g.createFn(ctx, orderID, returnURL)
}

func (g *fakePaymentGateway) CaptureProviderOrder(ctx context.Context, providerOrderID string, orderID int64) (*entity.PaymentCapture, error) {
	return g.captureFn(ctx, providerOrderID, orderID)
}

// fakeListener resolves every Await with a scripted approval, recording the
// state nonce it was asked to wait for.
type fakeListener struct {
	result       *service.ApprovalResult
	err          error
	awaitedState string
}

func (l *fakeListener) ReturnURL(state string) string {
	return "http://127.0.0.1:4280/payments/return?state=" + state
}

func (l *fakeListener) Await(ctx context.Context, state string) (*service.ApprovalResult, error) {
	l.awaitedState = state
	if l.err != nil {
		return nil, l.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return l.result, nil
}

// fakeQR returns a fixed byte blob for any URL.
type fakeQR struct {
	png []byte
	err error
}

func (q *fakeQR) ApprovalQR(string) ([]byte, error) {
	if q.err != nil {
		return nil, q.err
	}

	return q.png, nil
}

// fakeProductGateway serves a fixed catalog.
type fakeProductGateway struct {
	products   []*entity.Product
	categories []*entity.Category
}

func (g *fakeProductGateway) ListProducts(context.Context) ([]*entity.Product, error) {
	return g.products, nil
}

func (g *fakeProductGateway) GetProduct(_ context.Context, id int64) (*entity.Product, error) {
	for _, product := range g.products {
		if product.ID == id {
			return product, nil
		}
	}

	return nil, errors.New("product not found")
}

func (g *fakeProductGateway) ListCategories(context.Context) ([]*entity.Category, error) {
	return g.categories, nil
}

func (g *fakeProductGateway) CreateProduct(_ context.Context, input *gateway.ProductInput) (*entity.Product, error) {
	product := &entity.Product{ID: int64(len(g.products) + 1), Name: input.Name}
	g.products = append(g.products, product)

	return product, nil
}

func (g *fakeProductGateway) UpdateProduct(_ context.Context, id int64, input *gateway.ProductInput) (*entity.Product, error) {
	return &entity.Product{ID: id, Name: input.Name}, nil
}

func (g *fakeProductGateway) DeleteProduct(context.Context, int64) error {
	return nil
}

func (g *fakeProductGateway) CreateCategory(_ context.Context, input *gateway.CategoryInput) (*entity.Category, error) {
	category := &entity.Category{ID: int64(len(g.categories) + 1), Name: input.Name}
	g.categories = append(g.categories, category)

	return category, nil
}

// fakeSession serves a scripted session snapshot to the profile service.
type fakeSession struct {
	profile      *entity.Profile
	refreshErr   error
	refreshCalls atomic.Int64
}

func (s *fakeSession) Bootstrap(context.Context) {}

func (s *fakeSession) Ready() <-chan struct{} {
	ready := make(chan struct{})
	close(ready)

	return ready
}

func (s *fakeSession) WaitReady(context.Context) error { return nil }

func (s *fakeSession) Login(context.Context, *usecase.LoginInput) error {
	return errors.New("unexpected Login call")
}

func (s *fakeSession) Register(context.Context, *usecase.RegisterInput) (*entity.Identity, error) {
	return nil, errors.New("unexpected Register call")
}

func (s *fakeSession) Logout(context.Context) error {
	return errors.New("unexpected Logout call")
}

func (s *fakeSession) Refresh(context.Context) error {
	s.refreshCalls.Add(1)

	return s.refreshErr
}

func (s *fakeSession) HasRole(role entity.Role) bool {
	return s.profile != nil && s.profile.HasRole(role)
}

func (s *fakeSession) Snapshot() entity.Session {
	return entity.Session{
		Profile:      s.profile,
		State:        entity.SessionBootstrapped,
		Bootstrapped: true,
	}
}
