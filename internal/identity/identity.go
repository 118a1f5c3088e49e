// Package identity turns a sign-in credential into a stable user ID
package identity

import (
	"context"
	"strings"

	"github.com/KirkDiggler/digidex/internal/errors"
)

//go:generate mockgen -destination=mock/mock_provider.go -package=identitymock github.com/KirkDiggler/digidex/internal/identity Provider

// Provider authenticates credentials
type Provider interface {
	// Authenticate returns the user ID for credential or an Unauthenticated error
	Authenticate(ctx context.Context, credential string) (string, error)
}

// Static resolves credentials from a fixed table. With no table it trusts the
// credential as the user ID.
type Static struct {
	users map[string]string
}

// NewStatic creates a provider backed by credential to user ID pairs
func NewStatic(users map[string]string) *Static {
	copied := make(map[string]string, len(users))
	for credential, userID := range users {
		if credential == "" || userID == "" {
			continue
		}
		copied[credential] = userID
	}
	return &Static{users: copied}
}

// ParseStatic reads "credential=user" pairs separated by commas
func ParseStatic(spec string) (*Static, error) {
	users := make(map[string]string)
	for _, pair := range strings.Split(spec, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		credential, userID, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(credential) == "" || strings.TrimSpace(userID) == "" {
			return nil, errors.InvalidArgumentf("malformed identity pair %q", pair)
		}
		users[strings.TrimSpace(credential)] = strings.TrimSpace(userID)
	}
	return NewStatic(users), nil
}

// Authenticate implements Provider
func (p *Static) Authenticate(ctx context.Context, credential string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(err, "authentication interrupted")
	}

	credential = strings.TrimSpace(credential)
	if credential == "" {
		return "", errors.Unauthenticated("credential is required")
	}
	if len(p.users) == 0 {
		return credential, nil
	}

	userID, ok := p.users[credential]
	if !ok {
		return "", errors.Unauthenticated("unknown credential")
	}
	return userID, nil
}

var _ Provider = (*Static)(nil)
