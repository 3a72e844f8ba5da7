// Package cli implements the interactive terminal storefront. Every
// navigation goes through the route gate, so protected views behave exactly
// like their browser counterparts: loading until bootstrap finishes, login
// redirect when anonymous, home redirect when the role is missing.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"harvest/config"
	"harvest/internal/delivery"
	"harvest/internal/domain/entity"
	domainerrors "harvest/internal/domain/errors"
	"harvest/internal/errors"
	"harvest/internal/usecase"

	"go.uber.org/fx"
)

// errQuit signals a clean shell exit.
var errQuit = errors.New("quit")

// Params holds dependencies for the CLI storefront, injected by Fx.
type Params struct {
	fx.In

	Config   *config.Config
	Logger   *slog.Logger
	Session  usecase.SessionUsecase
	Gate     usecase.RouteGate
	Cart     usecase.CartUsecase
	Wishlist usecase.WishlistUsecase
	Catalog  usecase.CatalogUsecase
	Profile  usecase.ProfileUsecase
	Checkout usecase.CheckoutUsecase
}

type cliServer struct {
	cfg      *config.Config
	logger   *slog.Logger
	session  usecase.SessionUsecase
	gate     usecase.RouteGate
	cart     usecase.CartUsecase
	wishlist usecase.WishlistUsecase
	catalog  usecase.CatalogUsecase
	profile  usecase.ProfileUsecase
	checkout usecase.CheckoutUsecase

	scanner *bufio.Scanner
	out     io.Writer

	// returnTo remembers the destination a login redirect came from, so a
	// successful login lands the user where they were headed.
	returnTo string

	routes []route
}

// route binds a storefront path pattern to its view. Pattern segments
// starting with ':' capture the matching path segment. Protected routes go
// through the route gate; public ones render for anyone once bootstrap has
// finished.
type route struct {
	pattern   string
	protected bool
	role      entity.Role
	render    func(ctx context.Context, params map[string]string) error
}

// NewServer creates the CLI storefront.
func NewServer(params Params) (delivery.Delivery, error) {
	srv := &cliServer{
		cfg:      params.Config,
		logger:   params.Logger,
		session:  params.Session,
		gate:     params.Gate,
		cart:     params.Cart,
		wishlist: params.Wishlist,
		catalog:  params.Catalog,
		profile:  params.Profile,
		checkout: params.Checkout,
		scanner:  bufio.NewScanner(os.Stdin),
		out:      os.Stdout,
	}

	// Literal patterns come before capturing ones so "/product/add" is not
	// swallowed by "/product/:id".
	srv.routes = []route{
		{pattern: "/", render: srv.renderHome},
		{pattern: "/auth", render: srv.renderAuth},
		{pattern: "/products", render: srv.renderProducts},
		{pattern: "/product/add", protected: true, role: entity.RoleFarmer, render: srv.renderProductForm},
		{pattern: "/product/edit/:id", protected: true, role: entity.RoleFarmer, render: srv.renderProductForm},
		{pattern: "/product/:id", render: srv.renderProductDetail},
		{pattern: "/search/:term", render: srv.renderSearch},
		{pattern: "/cart", render: srv.renderCart},
		{pattern: "/profile", protected: true, render: srv.renderProfile},
		{pattern: "/checkout", protected: true, render: srv.renderCheckout},
		{pattern: "/orders", protected: true, render: srv.renderOrders},
		{pattern: "/order/:id", protected: true, render: srv.renderOrderDetail},
		{pattern: "/wishlist", protected: true, render: srv.renderWishlist},
		{pattern: "/admin", protected: true, role: entity.RoleAdmin, render: srv.renderAdmin},
	}

	return srv, nil
}

func (s *cliServer) Serve(ctx context.Context) error {
	// The splash timer and the credential check run while the banner is on
	// screen; the first navigation blocks until both finish.
	go s.session.Bootstrap(ctx)

	fmt.Fprintln(s.out, "Harvest storefront. Type 'help' for commands.")
	if err := s.navigate(ctx, "/"); err != nil {
		return err
	}

	s.prompt()
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			s.prompt()

			continue
		}

		if err := s.dispatch(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}

			fmt.Fprintln(s.out, "error: "+domainerrors.MessageOf(err))
			s.logger.Debug("Command failed", slog.String("command", line), slog.Any("error", err))
		}

		s.prompt()
	}

	return errors.WithStack(s.scanner.Err())
}

func (s *cliServer) prompt() {
	session := s.session.Snapshot()
	who := "guest"
	if session.Profile != nil {
		who = session.Profile.Identity.Username
	}
	fmt.Fprintf(s.out, "%s> ", who)
}

// navigate runs one gated navigation to path.
func (s *cliServer) navigate(ctx context.Context, path string) error {
	matched, params, ok := s.match(path)
	if !ok {
		fmt.Fprintf(s.out, "No such page: %s\n", path)

		return nil
	}

	if !matched.protected {
		// Public views still wait for bootstrap so the first screen a
		// returning user sees reflects their restored session.
		if !s.session.Snapshot().Bootstrapped {
			fmt.Fprintln(s.out, "Loading...")
			if err := s.session.WaitReady(ctx); err != nil {
				return err
			}
		}

		return matched.render(ctx, params)
	}

	allowed, err := s.authorize(ctx, path, matched.role)
	if err != nil || !allowed {
		return err
	}

	return matched.render(ctx, params)
}

// authorize runs the route gate for a protected destination, handling the
// loading and redirect outcomes. It reports whether the caller may proceed.
func (s *cliServer) authorize(ctx context.Context, path string, role entity.Role) (bool, error) {
	for {
		decision := s.gate.Decide(s.session.Snapshot(), path, role)

		switch decision.Outcome {
		case usecase.OutcomeLoading:
			fmt.Fprintln(s.out, "Loading...")
			if err := s.session.WaitReady(ctx); err != nil {
				return false, err
			}
		case usecase.OutcomeRedirectLogin:
			s.returnTo = decision.From
			fmt.Fprintln(s.out, "Please log in to continue.")

			return false, s.renderAuth(ctx, nil)
		case usecase.OutcomeRedirectHome:
			fmt.Fprintln(s.out, "You do not have access to that page.")

			return false, s.renderHome(ctx, nil)
		default:
			return true, nil
		}
	}
}

// match finds the route whose pattern covers path and extracts the
// captured segments.
func (s *cliServer) match(path string) (*route, map[string]string, bool) {
	segments := splitPath(path)

	for i := range s.routes {
		patternSegments := splitPath(s.routes[i].pattern)
		if len(patternSegments) != len(segments) {
			continue
		}

		params := map[string]string{}
		matched := true
		for j, patternSegment := range patternSegments {
			if strings.HasPrefix(patternSegment, ":") {
				params[patternSegment[1:]] = segments[j]

				continue
			}
			if patternSegment != segments[j] {
				matched = false

				break
			}
		}

		if matched {
			return &s.routes[i], params, true
		}
	}

	return nil, nil, false
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}

	return strings.Split(trimmed, "/")
}

// owner resolves the collection owner for the current session.
func (s *cliServer) owner() entity.Owner {
	return s.session.Snapshot().Owner()
}
