package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"invoicelane/internal/config"
	"invoicelane/internal/ledger"
	"invoicelane/internal/logger"
	"invoicelane/internal/registry"
	"invoicelane/internal/repository"
	"invoicelane/internal/pqs"
	"invoicelane/pkg/authn"
	"invoicelane/pkg/db"
	"invoicelane/pkg/httpx"
)

type server struct {
	cfg      config.Config
	repo     *repository.Repository
	ledger   *ledger.Client
	registry *registry.Client
	auth     *authn.Resolver
	now      func() time.Time
	log      zerolog.Logger
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Setup(cfg.LogLevel); err != nil {
		panic(err)
	}
	log := logger.WithComponent("server")

	pool := db.MustConnect()
	srv := &server{
		cfg:      cfg,
		repo:     repository.New(pqs.New(pool)),
		ledger:   ledger.New(cfg.LedgerBaseURL),
		registry: registry.New(cfg.RegistryBaseURL),
		auth:     &authn.Resolver{Tokens: cfg.PartyTokens, AdminParty: cfg.AdminParty},
		now:      time.Now,
		log:      log,
	}

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Route("/api", func(api chi.Router) {
		srv.registerInvoiceRoutes(api)
		srv.registerPaymentRequestRoutes(api)
		srv.registerDisclosureRoutes(api)
		api.Get("/parties", srv.handleParties)
	})

	log.Info().Str("port", cfg.Port).Msg("listening")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func (s *server) handleParties(w http.ResponseWriter, r *http.Request) {
	httpx.WriteOK(w, map[string]any{
		"seller":    s.cfg.SellerParty,
		"buyer":     s.cfg.BuyerParty,
		"logistics": s.cfg.LogisticsParty,
		"finance":   s.cfg.FinanceParty,
	})
}
