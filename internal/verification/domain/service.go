package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/proofgate/proofgate/internal/validation"
)

// ErrMissingFields is returned when required request fields are absent.
var ErrMissingFields = errors.New("missing required fields")

// minArtifactLen is the minimum plausible length of a hex-encoded artifact.
const minArtifactLen = 10

type service struct{}

// NewService creates the proof validation service. It is stateless and does
// not consult the proof store.
func NewService() *service {
	return &service{}
}

// Validate performs structural checks on a presented artifact: well-formed
// addresses, both artifact strings present, minimally long, and carrying the
// canonical hex marker. Structural validity implies acceptance here; this is
// the placeholder contract for the mock configuration, not a cryptographic
// verification. A production deployment replaces the final acceptance with a
// real verifier call against the artifact's verification key.
func (s *service) Validate(ctx context.Context, req ValidateRequest) (*ValidateResult, error) {
	if req.Proof == "" || req.PublicInputs == "" || req.Wallet == "" || req.Token == "" {
		return nil, ErrMissingFields
	}

	result := &ValidateResult{
		Wallet: req.Wallet,
		Token:  req.Token,
	}

	if err := validation.ValidateAddress(req.Wallet); err != nil {
		result.Message = "Invalid wallet address"
		return result, nil
	}
	if err := validation.ValidateAddress(req.Token); err != nil {
		result.Message = "Invalid token address"
		return result, nil
	}

	if !strings.HasPrefix(req.Proof, "0x") || len(req.Proof) < minArtifactLen {
		result.Message = "Invalid proof format"
		return result, nil
	}
	if !strings.HasPrefix(req.PublicInputs, "0x") || len(req.PublicInputs) < minArtifactLen {
		result.Message = "Invalid public inputs format"
		return result, nil
	}

	result.IsValid = true
	result.Message = "Proof verified successfully"
	return result, nil
}
