package authn

import (
	"errors"
	"strings"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Resolver maps bearer tokens to ledger party identifiers. Tokens are issued
// out of band per deployment; the admin party is the app provider party that
// operates privileged invoice workflows.
type Resolver struct {
	Tokens     map[string]string
	AdminParty string
}

// Party resolves the acting party from an Authorization header value.
func (r *Resolver) Party(authorization string) (string, error) {
	token, ok := parseBearerToken(authorization)
	if !ok {
		return "", ErrUnauthorized
	}
	party, ok := r.Tokens[token]
	if !ok {
		return "", ErrUnauthorized
	}
	return party, nil
}

// AdminPartyFrom resolves the acting party and requires it to be the
// configured admin party.
func (r *Resolver) AdminPartyFrom(authorization string) (string, error) {
	party, err := r.Party(authorization)
	if err != nil {
		return "", err
	}
	if party != r.AdminParty {
		return "", ErrForbidden
	}
	return party, nil
}

func parseBearerToken(authorization string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(authorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
