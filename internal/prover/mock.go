package prover

import (
	"context"
	"encoding/hex"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Mock artifact shape: a Groth16 proof on the SP1 verifier is a 4-byte
// selector followed by 8 field elements; public inputs are three 32-byte
// words (wallet, balance, minimum).
const (
	mockProofLen        = 4 + 8*32
	mockPublicInputsLen = 3 * 32
)

// MockClient synthesizes deterministic placeholder artifacts with the same
// byte length as real proofs. It is not cryptographically sound; it exists so
// the issuance pipeline can run end to end without a live prover.
type MockClient struct{}

// NewMockClient creates a mock prover.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Mode reports the provenance mode of artifacts from this client.
func (c *MockClient) Mode() string { return ModeMock }

// Prove derives a fixed-shape artifact from the inputs. Identical inputs
// always yield identical artifacts.
func (c *MockClient) Prove(ctx context.Context, in Inputs) (*Artifact, error) {
	seed := crypto.Keccak256([]byte(in.Wallet), []byte(in.Balance), []byte(in.MinBalance))

	proof := make([]byte, 0, mockProofLen)
	proof = append(proof, seed[:4]...)
	block := seed
	for len(proof) < mockProofLen {
		block = crypto.Keccak256(block)
		proof = append(proof, block...)
	}
	proof = proof[:mockProofLen]

	inputs := make([]byte, 0, mockPublicInputsLen)
	inputs = append(inputs, common.LeftPadBytes(common.FromHex(in.Wallet), 32)...)
	inputs = append(inputs, common.LeftPadBytes(bigOrZero(in.Balance).Bytes(), 32)...)
	inputs = append(inputs, common.LeftPadBytes(bigOrZero(in.MinBalance).Bytes(), 32)...)

	return &Artifact{
		Proof:        "0x" + hex.EncodeToString(proof),
		PublicInputs: "0x" + hex.EncodeToString(inputs),
		Mode:         ModeMock,
	}, nil
}

func bigOrZero(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return new(big.Int)
	}
	return v
}
