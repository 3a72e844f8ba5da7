// Package api implements the gateways over the remote marketplace REST API.
// Every response is classified into the application error taxonomy before it
// reaches the application layer, and a 401 clears the stored credential as a
// side effect so a rejected credential is never retried.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"harvest/config"
	domainerrors "harvest/internal/domain/errors"
	"harvest/internal/domain/service"
	"harvest/internal/errors"
)

// Client is the shared HTTP transport for every gateway. It attaches the
// bearer credential from the vault on each request and owns the response
// classification.
type Client struct {
	baseURL    string
	httpClient *http.Client
	vault      service.CredentialVault
	logger     *slog.Logger
}

// NewClient creates the shared API transport.
func NewClient(cfg *config.Config, vault service.CredentialVault, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.API.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.API.Timeout},
		vault:      vault,
		logger:     logger,
	}
}

// get performs a GET request and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// post performs a POST request with a JSON body and decodes the response into out.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// patch performs a PATCH request with a JSON body and decodes the response into out.
func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// delete performs a DELETE request. A body in the response is discarded.
func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if credential, ok := c.vault.Current(); ok {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The request never produced a response. The context error keeps
		// cancellation distinguishable upstream.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Join(ctxErr, domainerrors.ErrNoResponse)
		}

		return domainerrors.ErrNoResponse.WithDetails(err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domainerrors.ErrNoResponse.WithDetails(err.Error())
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return c.classify(method, path, resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return domainerrors.ErrUnexpectedResponse.WithDetails(
			fmt.Sprintf("undecodable %s %s response: %v", method, path, err),
		)
	}

	return nil
}

// classify maps a non-2xx response onto the application error taxonomy.
func (c *Client) classify(method, path string, status int, body []byte) error {
	c.logger.Debug("API request rejected",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
	)

	switch {
	case status == http.StatusUnauthorized:
		// The credential was rejected; drop it so it is never retried.
		c.vault.Invalidate()

		return domainerrors.ErrCredentialRejected
	case status == http.StatusForbidden:
		return domainerrors.ErrPermissionDenied
	case status == http.StatusNotFound:
		return domainerrors.ErrResourceNotFound
	case status >= http.StatusInternalServerError:
		return domainerrors.ErrUnexpectedResponse.WithDetails(
			fmt.Sprintf("server responded with status %d", status),
		)
	default:
		return classifyRejection(status, body)
	}
}

// classifyRejection turns a remaining 4xx body into a validation error. The
// remote API may respond with a plain string, a {"detail": ...} object, a
// {"error": ...} object, a list of messages, or a field-to-messages map.
func classifyRejection(status int, body []byte) error {
	var payload any
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil {
		return domainerrors.ErrUnexpectedResponse.WithDetails(
			fmt.Sprintf("server responded with status %d", status),
		)
	}

	switch value := payload.(type) {
	case string:
		return domainerrors.NewBaseError(domainerrors.KindValidation, "REQUEST_REJECTED", value, "")
	case []any:
		return domainerrors.NewBaseError(
			domainerrors.KindValidation, "REQUEST_REJECTED", joinMessages(value), "",
		)
	case map[string]any:
		if detail, ok := value["detail"].(string); ok {
			return domainerrors.NewBaseError(domainerrors.KindValidation, "REQUEST_REJECTED", detail, "")
		}
		if message, ok := value["error"].(string); ok {
			return domainerrors.NewBaseError(domainerrors.KindValidation, "REQUEST_REJECTED", message, "")
		}

		if fields := fieldErrors(value); len(fields) > 0 {
			return domainerrors.NewValidationError(fields)
		}
	}

	return domainerrors.ErrUnexpectedResponse.WithDetails(
		fmt.Sprintf("server responded with status %d", status),
	)
}

// fieldErrors flattens a DRF-style field error object into per-field messages.
func fieldErrors(payload map[string]any) map[string][]string {
	fields := make(map[string][]string, len(payload))
	for name, raw := range payload {
		switch value := raw.(type) {
		case string:
			fields[name] = []string{value}
		case []any:
			fields[name] = toStrings(value)
		default:
			fields[name] = []string{fmt.Sprint(value)}
		}
	}

	return fields
}

func joinMessages(values []any) string {
	return strings.Join(toStrings(values), " ")
}

func toStrings(values []any) []string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		parts = append(parts, fmt.Sprint(value))
	}

	return parts
}
