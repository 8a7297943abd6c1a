package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Port            string
	LedgerBaseURL   string
	RegistryBaseURL string
	LogLevel        string

	// AdminParty is the app provider party allowed to run privileged
	// invoice workflows (create, request/complete payment, share, cancel).
	AdminParty string

	// PartyTokens maps bearer tokens to ledger party identifiers.
	PartyTokens map[string]string

	// Well-known parties surfaced on /api/parties for the frontend.
	SellerParty    string
	BuyerParty     string
	LogisticsParty string
	FinanceParty   string
}

func Load() (Config, error) {
	cfg := Config{
		Port:            getenv("SERVICE_PORT", "8080"),
		LedgerBaseURL:   getenv("LEDGER_BASE_URL", "http://localhost:7575"),
		RegistryBaseURL: getenv("REGISTRY_BASE_URL", "http://localhost:5012"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		AdminParty:      os.Getenv("ADMIN_PARTY"),
		SellerParty:     os.Getenv("SELLER_PARTY"),
		BuyerParty:      os.Getenv("BUYER_PARTY"),
		LogisticsParty:  os.Getenv("LOGISTICS_PARTY"),
		FinanceParty:    os.Getenv("FINANCE_PARTY"),
	}
	if cfg.AdminParty == "" {
		return Config{}, fmt.Errorf("ADMIN_PARTY is required")
	}
	tokens, err := parsePartyTokens(os.Getenv("PARTY_TOKENS"))
	if err != nil {
		return Config{}, err
	}
	cfg.PartyTokens = tokens
	return cfg, nil
}

// parsePartyTokens parses "token=party,token=party". The first "=" splits
// token from party, so party identifiers may themselves contain "=".
func parsePartyTokens(raw string) (map[string]string, error) {
	out := map[string]string{}
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		idx := strings.Index(pair, "=")
		if idx <= 0 || idx == len(pair)-1 {
			return nil, fmt.Errorf("PARTY_TOKENS entry %q must be token=party", pair)
		}
		out[pair[:idx]] = pair[idx+1:]
	}
	return out, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
