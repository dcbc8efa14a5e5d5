// Package prover orchestrates external zero-knowledge proof generation, with
// a deterministic mock substitute for development and testing.
package prover

import (
	"context"
	"log/slog"
	"time"

	"github.com/proofgate/proofgate/internal/config"
)

// Modes a client can run in. The mode is selected once at startup and
// recorded in every artifact's provenance.
const (
	ModeNetwork = "network"
	ModeMock    = "mock"
)

// proveTimeout is the hard bound on a single proving call.
const proveTimeout = 2 * time.Minute

// Inputs are the balance-claim inputs handed to the prover. Amounts are
// decimal strings of raw token units.
type Inputs struct {
	// Wallet is the account address with the 0x prefix stripped
	Wallet     string `json:"wallet"`
	Balance    string `json:"actualBalance"`
	MinBalance string `json:"minAmount"`
}

// Artifact is a completed proof. Proof and PublicInputs are opaque
// 0x-prefixed hex strings; Mode records whether a live prover produced them.
type Artifact struct {
	Proof        string `json:"proof"`
	PublicInputs string `json:"publicInputs"`
	Mode         string `json:"mode"`
}

// Client generates proof artifacts for balance claims.
type Client interface {
	Prove(ctx context.Context, in Inputs) (*Artifact, error)
	Mode() string
}

// New selects the proving mode from configuration: the live network client
// when a credential is present, the mock otherwise or when explicitly forced.
// Selection happens once; it is never request-dependent.
func New(cfg config.ProverConfig, logger *slog.Logger) Client {
	if cfg.Mock || cfg.PrivateKey == "" {
		logger.Info("prover mode selected", "mode", ModeMock)
		return NewMockClient()
	}
	logger.Info("prover mode selected", "mode", ModeNetwork, "endpoint", cfg.Endpoint)
	return NewNetworkClient(cfg.Endpoint, cfg.PrivateKey, logger)
}
