package authn

import (
	"errors"
	"testing"
)

func testResolver() *Resolver {
	return &Resolver{
		Tokens:     map[string]string{"tok-admin": "provider::1", "tok-buyer": "buyer::1"},
		AdminParty: "provider::1",
	}
}

func TestPartyResolvesToken(t *testing.T) {
	party, err := testResolver().Party("Bearer tok-buyer")
	if err != nil {
		t.Fatal(err)
	}
	if party != "buyer::1" {
		t.Errorf("party = %q", party)
	}
}

func TestPartyCaseInsensitiveScheme(t *testing.T) {
	if _, err := testResolver().Party("bearer tok-buyer"); err != nil {
		t.Errorf("lowercase scheme rejected: %v", err)
	}
}

func TestPartyUnauthorized(t *testing.T) {
	for _, h := range []string{"", "Bearer", "Bearer ", "Bearer unknown", "Basic tok-buyer", "tok-buyer"} {
		if _, err := testResolver().Party(h); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("Party(%q) = %v, want ErrUnauthorized", h, err)
		}
	}
}

func TestAdminPartyFrom(t *testing.T) {
	r := testResolver()
	party, err := r.AdminPartyFrom("Bearer tok-admin")
	if err != nil {
		t.Fatal(err)
	}
	if party != "provider::1" {
		t.Errorf("party = %q", party)
	}
	if _, err := r.AdminPartyFrom("Bearer tok-buyer"); !errors.Is(err, ErrForbidden) {
		t.Errorf("non-admin token = %v, want ErrForbidden", err)
	}
	if _, err := r.AdminPartyFrom("Bearer unknown"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("unknown token = %v, want ErrUnauthorized", err)
	}
}
