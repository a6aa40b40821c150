package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/upstream"
)

// Client-facing messages for rejected requests.
const (
	MessageMissingToken = "Request does not contain authorization token."
	MessageInvalidToken = "Invalid authorization token."
)

var (
	// ErrMissingToken is returned when the request carries no Authorization header.
	ErrMissingToken = errors.New("authorization token missing")

	// ErrInvalidToken is returned when the user service does not confirm the
	// token, including when it cannot be reached.
	ErrInvalidToken = errors.New("authorization token invalid")

	// ErrNoUserID is returned when the user service yields no id for a token.
	ErrNoUserID = errors.New("user id unavailable")
)

// Caller performs orchestration calls to the user service.
type Caller interface {
	Call(ctx context.Context, req *upstream.Request) (*upstream.Response, error)
}

// Gate verifies bearer tokens against the user service.
type Gate struct {
	client    Caller
	verifyURL string
	userIDURL string
}

// NewGate creates a Gate for the user service at userServiceURL.
func NewGate(client Caller, userServiceURL string) *Gate {
	base := strings.TrimRight(userServiceURL, "/")
	return &Gate{
		client:    client,
		verifyURL: base + "/verifyAccessToken",
		userIDURL: base + "/userId",
	}
}

// ExtractToken returns the token carried in the Authorization header.
// A "Bearer " scheme prefix is removed when present; any other value is
// taken as the token itself.
func ExtractToken(h http.Header) string {
	value := strings.TrimSpace(h.Get("Authorization"))
	if scheme, rest, ok := strings.Cut(value, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(rest)
	}
	if strings.EqualFold(value, "Bearer") {
		return ""
	}
	return value
}

// Authorize extracts and verifies the request's token. On success the
// token is returned; otherwise the error wraps ErrMissingToken or
// ErrInvalidToken.
func (g *Gate) Authorize(ctx context.Context, r *http.Request) (string, error) {
	token := ExtractToken(r.Header)
	if token == "" {
		slog.Warn("missing authorization token",
			"remote_addr", r.RemoteAddr,
			"path", r.URL.Path,
		)
		return "", ErrMissingToken
	}

	if err := g.Verify(ctx, token); err != nil {
		slog.Warn("authorization token rejected",
			"remote_addr", r.RemoteAddr,
			"path", r.URL.Path,
			"error", err,
		)
		return "", err
	}

	slog.Debug("authorization token verified", "path", r.URL.Path)
	return token, nil
}

// Verify asks the user service whether token is valid. Only a JSON boolean
// true is accepted; any other answer, error status or transport failure
// rejects the token.
func (g *Gate) Verify(ctx context.Context, token string) error {
	resp, err := g.client.Call(ctx, &upstream.Request{
		Backend: upstream.BackendUser,
		URL:     g.verifyURL,
		Query:   url.Values{"accessToken": {token}},
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	var valid bool
	if err := upstream.Decode(upstream.BackendUser, resp.Body, &valid); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !valid {
		return ErrInvalidToken
	}
	return nil
}

// UserID resolves the id of the user owning token. The user service answers
// in plain text; surrounding whitespace and quotes are removed.
func (g *Gate) UserID(ctx context.Context, token string) (string, error) {
	resp, err := g.client.Call(ctx, &upstream.Request{
		Backend: upstream.BackendUser,
		URL:     g.userIDURL,
		Query:   url.Values{"accessToken": {token}},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoUserID, err)
	}

	id := strings.Trim(strings.TrimSpace(resp.Text()), `"`)
	if id == "" {
		return "", ErrNoUserID
	}
	return id, nil
}
