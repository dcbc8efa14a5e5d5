// Package server provides the HTTP server setup and wiring.
package server

import (
	"fmt"
	"log/slog"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/proofgate/proofgate/internal/chains"
	"github.com/proofgate/proofgate/internal/chains/evm"
	"github.com/proofgate/proofgate/internal/config"
	"github.com/proofgate/proofgate/internal/middleware/logging"
	"github.com/proofgate/proofgate/internal/middleware/ratelimit"
	"github.com/proofgate/proofgate/internal/middleware/realip"
	"github.com/proofgate/proofgate/internal/middleware/security"
	"github.com/proofgate/proofgate/internal/observability/metrics"
	proofsDomain "github.com/proofgate/proofgate/internal/proofs/domain"
	proofsTransport "github.com/proofgate/proofgate/internal/proofs/transport"
	"github.com/proofgate/proofgate/internal/prover"
	"github.com/proofgate/proofgate/internal/storage"
	"github.com/proofgate/proofgate/internal/validation"
	verificationDomain "github.com/proofgate/proofgate/internal/verification/domain"
	verificationTransport "github.com/proofgate/proofgate/internal/verification/transport"
)

// Server is the HTTP server
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	router   *chi.Mux
	resolver *chains.Resolver
	prover   prover.Client

	// Services typed via transport interfaces
	proofsSvc       proofsTransport.Service
	verificationSvc verificationTransport.Service
}

// New creates a new server and wires all services. The RPC connection is
// dialed lazily on first use, so construction never blocks on the network.
func New(cfg *config.Config, store *storage.MemoryStore, logger *slog.Logger) (*Server, error) {
	if cfg.Payment.Recipient != "" {
		if err := validation.ValidateAddress(cfg.Payment.Recipient); err != nil {
			return nil, fmt.Errorf("invalid BACKEND_WALLET_ADDRESS: %w", err)
		}
	}
	proofCost, ok := new(big.Int).SetString(cfg.Payment.ProofCostWei, 10)
	if !ok || proofCost.Sign() < 0 {
		return nil, fmt.Errorf("invalid PROOF_COST_WEI %q", cfg.Payment.ProofCostWei)
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		router:   chi.NewRouter(),
		resolver: chains.NewResolver(cfg.Chain),
	}

	network := s.resolver.Resolve()
	rpcTimeout := chains.RPCTimeout(cfg.Chain)

	verifier := evm.NewPaymentVerifier(&lazyTxReader{resolver: s.resolver}, rpcTimeout)
	oracle := evm.NewOracle(&lazyProofReader{resolver: s.resolver}, &lazyBlockReader{resolver: s.resolver}, rpcTimeout)

	s.prover = prover.New(cfg.Prover, logger)

	proofsImpl := proofsDomain.NewService(store, verifier, oracle, s.prover, proofsDomain.Config{
		Recipient:    common.HexToAddress(cfg.Payment.Recipient),
		ProofCostWei: proofCost,
		Token: storage.Token{
			Symbol:          cfg.Token.Symbol,
			ContractAddress: validation.NormalizeAddress(cfg.TokenContract()),
			Decimals:        cfg.Token.Decimals,
			Network:         network.Name,
		},
		BalancesSlot: cfg.Token.BalancesSlot,
		Network:      network,
	})
	s.proofsSvc = proofsDomain.LoggingMiddleware(logger)(proofsImpl)
	s.verificationSvc = verificationDomain.NewService()

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Network returns the resolved blockchain network.
func (s *Server) Network() chains.Network {
	return s.resolver.Resolve()
}

// Close releases the RPC connection.
func (s *Server) Close() {
	s.resolver.Close()
}

func (s *Server) setupMiddleware() {
	// Order matters: client IP resolution feeds the security and rate limit
	// layers that follow it.
	s.router.Use(realip.Middleware(realip.Config{
		TrustProxy:     s.cfg.Proxy.TrustProxy,
		TrustedProxies: s.cfg.Proxy.TrustedProxies,
	}))
	s.router.Use(security.FilterMiddleware(s.cfg.Security.FilterEnabled))
	s.router.Use(security.MaxBodySizeMiddleware(s.cfg.Security.MaxBodySizeMB))
	s.router.Use(ratelimit.Middleware(ratelimit.Config{
		Enabled:        s.cfg.RateLimit.Enabled,
		RequestsPerMin: s.cfg.RateLimit.RequestsPerMin,
		BurstSize:      s.cfg.RateLimit.BurstSize,
		CleanupMinutes: s.cfg.RateLimit.CleanupMinutes,
	}))

	s.router.Use(middleware.RequestID)
	s.router.Use(logging.Middleware(s.logger))
	s.router.Use(metrics.Middleware)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	// CORS
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/readyz", s.handleHealth)
	s.router.Get("/network", s.handleNetwork)

	if s.cfg.Metrics.Enabled {
		s.router.Handle("/metrics", metrics.Handler())
	}

	verbose := s.cfg.Chain.NodeEnv != "production"
	proofsHandler := proofsTransport.NewHandler(s.proofsSvc, verbose)
	verificationHandler := verificationTransport.NewHandler(s.verificationSvc)

	proofsHandler.RegisterRoutes(s.router)
	verificationHandler.RegisterRoutes(s.router)
}

// healthStatus is the payload of GET /health.
type healthStatus struct {
	Status           string `json:"status"`
	Network          string `json:"network"`
	SP1Configured    bool   `json:"sp1Configured"`
	WalletConfigured bool   `json:"walletConfigured"`
	Message          string `json:"message,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sp1Configured := s.cfg.Prover.PrivateKey != ""
	walletConfigured := s.cfg.Payment.Recipient != ""

	st := healthStatus{
		Status:           "ok",
		Network:          s.resolver.Resolve().Name,
		SP1Configured:    sp1Configured,
		WalletConfigured: walletConfigured,
	}

	// Mock mode is a valid configuration, so only a missing payment wallet or
	// a live prover without credentials degrade health.
	code := http.StatusOK
	switch {
	case !walletConfigured:
		st.Status = "error"
		st.Message = "backend wallet address not configured"
		code = http.StatusServiceUnavailable
	case !sp1Configured && !s.cfg.Prover.Mock && s.prover.Mode() == prover.ModeNetwork:
		st.Status = "error"
		st.Message = "prover credentials not configured"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, st)
}

func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	network := s.resolver.Resolve()
	writeJSON(w, http.StatusOK, map[string]string{
		"network": network.Name,
		"nodeEnv": s.cfg.Chain.NodeEnv,
		"message": fmt.Sprintf("Connected to %s (chain %d)", network.Name, network.ChainID),
	})
}
