package config

import "testing"

func TestParsePartyTokens(t *testing.T) {
	got, err := parsePartyTokens("tok1=provider::1, tok2=buyer::ns=deep")
	if err != nil {
		t.Fatal(err)
	}
	if got["tok1"] != "provider::1" {
		t.Errorf("tok1 = %q", got["tok1"])
	}
	if got["tok2"] != "buyer::ns=deep" {
		t.Errorf("tok2 = %q, party may contain '='", got["tok2"])
	}
}

func TestParsePartyTokensEmpty(t *testing.T) {
	got, err := parsePartyTokens("  ")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got %v", got)
	}
}

func TestParsePartyTokensMalformed(t *testing.T) {
	for _, raw := range []string{"noequals", "=party", "token="} {
		if _, err := parsePartyTokens(raw); err == nil {
			t.Errorf("parsePartyTokens(%q) succeeded, want error", raw)
		}
	}
}

func TestLoadRequiresAdminParty(t *testing.T) {
	t.Setenv("ADMIN_PARTY", "")
	if _, err := Load(); err == nil {
		t.Fatal("Load succeeded without ADMIN_PARTY")
	}
	t.Setenv("ADMIN_PARTY", "provider::1")
	t.Setenv("PARTY_TOKENS", "tok=provider::1")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AdminParty != "provider::1" || cfg.PartyTokens["tok"] != "provider::1" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Port == "" || cfg.LedgerBaseURL == "" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}
