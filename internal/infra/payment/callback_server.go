// Package payment runs the local HTTP endpoint that receives the payment
// provider's return redirect, standing in for the storefront's return route.
package payment

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"harvest/config"
	"harvest/internal/domain/service"
	"harvest/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	slogecho "github.com/samber/slog-echo"
	"go.uber.org/fx"
)

const (
	returnPath = "/payments/return"
	cancelPath = "/payments/cancel"
)

// ErrApprovalCancelled is returned when the buyer backs out of the
// provider's approval page instead of approving the payment.
var ErrApprovalCancelled = errors.New("payment approval cancelled by buyer")

// Params holds dependencies for the callback listener, injected by Fx.
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

type callbackListener struct {
	cfg    *config.Config
	logger *slog.Logger
	server *echo.Echo

	mu      sync.Mutex
	waiters map[string]chan waiterOutcome

	startOnce sync.Once
	startErr  error
}

type waiterOutcome struct {
	result *service.ApprovalResult
	err    error
}

// NewCallbackListener creates the approval listener. The HTTP endpoint is
// only bound once the first checkout awaits a redirect.
func NewCallbackListener(params Params) service.ApprovalListener {
	listener := &callbackListener{
		cfg:     params.Config,
		logger:  params.Logger,
		waiters: make(map[string]chan waiterOutcome),
	}

	params.Append(fx.Hook{
		OnStop: listener.stop,
	})

	return listener
}

func (l *callbackListener) ReturnURL(state string) string {
	return "http://" + l.hostPort() + returnPath + "?state=" + url.QueryEscape(state)
}

func (l *callbackListener) Await(ctx context.Context, state string) (*service.ApprovalResult, error) {
	if err := l.start(); err != nil {
		return nil, err
	}

	outcome := make(chan waiterOutcome, 1)

	l.mu.Lock()
	l.waiters[state] = outcome
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		delete(l.waiters, state)
		l.mu.Unlock()
	}()

	select {
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "gave up waiting for payment approval")
	case received := <-outcome:
		if received.err != nil {
			return nil, received.err
		}

		return received.result, nil
	}
}

// start lazily binds the local endpoint. The listener stays up for the rest
// of the process; repeated checkouts reuse it.
func (l *callbackListener) start() error {
	l.startOnce.Do(func() {
		echoServer := echo.New()
		echoServer.HideBanner = true
		echoServer.HidePort = true
		echoServer.Use(slogecho.New(l.logger))
		echoServer.Use(middleware.Recover())

		echoServer.GET(returnPath, l.handleReturn)
		echoServer.GET(cancelPath, l.handleCancel)

		// Bind synchronously so a port conflict surfaces to the caller
		// instead of failing inside the serve goroutine.
		listener, err := net.Listen("tcp", l.hostPort())
		if err != nil {
			l.startErr = errors.Wrap(err, "failed to bind payment callback endpoint")

			return
		}
		echoServer.Listener = listener
		l.server = echoServer

		go func() {
			if err := echoServer.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
				l.logger.Error("Payment callback endpoint stopped unexpectedly", slog.Any("error", err))
			}
		}()
	})

	return l.startErr
}

func (l *callbackListener) stop(ctx context.Context) error {
	if l.server == nil {
		return nil
	}

	return errors.WithStack(l.server.Shutdown(ctx))
}

// handleReturn receives the provider redirect after the buyer approves.
// The provider appends its order id as "token" and the payer as "PayerID".
func (l *callbackListener) handleReturn(c echo.Context) error {
	state := c.QueryParam("state")
	result := &service.ApprovalResult{
		ProviderOrderID: c.QueryParam("token"),
		PayerID:         c.QueryParam("PayerID"),
	}

	if !l.deliver(state, waiterOutcome{result: result}) {
		return c.String(http.StatusGone, "This payment is no longer awaiting approval.")
	}

	return c.String(http.StatusOK, "Payment approved. You can close this page and return to the storefront.")
}

func (l *callbackListener) handleCancel(c echo.Context) error {
	if !l.deliver(c.QueryParam("state"), waiterOutcome{err: ErrApprovalCancelled}) {
		return c.String(http.StatusGone, "This payment is no longer awaiting approval.")
	}

	return c.String(http.StatusOK, "Payment cancelled. You can close this page and return to the storefront.")
}

// deliver hands the outcome to the waiter registered for state. Redirects
// carrying an unknown or stale state are ignored.
func (l *callbackListener) deliver(state string, outcome waiterOutcome) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	waiter, ok := l.waiters[state]
	if !ok {
		l.logger.Warn("Ignoring payment redirect with unknown state", slog.String("state", state))

		return false
	}

	waiter <- outcome
	delete(l.waiters, state)

	return true
}

func (l *callbackListener) hostPort() string {
	return net.JoinHostPort("127.0.0.1", strconv.Itoa(l.cfg.Payment.CallbackPort))
}
