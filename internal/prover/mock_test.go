package prover

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proofgate/proofgate/internal/config"
)

var testInputs = Inputs{
	Wallet:     "dac17f958d2ee523a2206206994597c13d831ec7",
	Balance:    "250000000",
	MinBalance: "100000000",
}

func TestMockProve_Deterministic(t *testing.T) {
	c := NewMockClient()

	a, err := c.Prove(context.Background(), testInputs)
	require.NoError(t, err)
	b, err := c.Prove(context.Background(), testInputs)
	require.NoError(t, err)

	assert.Equal(t, a.Proof, b.Proof)
	assert.Equal(t, a.PublicInputs, b.PublicInputs)
}

func TestMockProve_ArtifactShape(t *testing.T) {
	c := NewMockClient()

	a, err := c.Prove(context.Background(), testInputs)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a.Proof, "0x"))
	assert.True(t, strings.HasPrefix(a.PublicInputs, "0x"))
	// 4-byte selector + 8 words, hex-encoded
	assert.Len(t, a.Proof, 2+2*(4+8*32))
	// 3 words, hex-encoded
	assert.Len(t, a.PublicInputs, 2+2*3*32)
	assert.Equal(t, ModeMock, a.Mode)
}

func TestMockProve_DifferentInputsDiffer(t *testing.T) {
	c := NewMockClient()

	a, err := c.Prove(context.Background(), testInputs)
	require.NoError(t, err)

	other := testInputs
	other.Balance = "300000000"
	b, err := c.Prove(context.Background(), other)
	require.NoError(t, err)

	assert.NotEqual(t, a.Proof, b.Proof)
	assert.NotEqual(t, a.PublicInputs, b.PublicInputs)
}

func TestNew_ModeSelection(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("mock when no credential", func(t *testing.T) {
		c := New(config.ProverConfig{}, logger)
		assert.Equal(t, ModeMock, c.Mode())
	})

	t.Run("mock when forced", func(t *testing.T) {
		c := New(config.ProverConfig{PrivateKey: "key", Mock: true}, logger)
		assert.Equal(t, ModeMock, c.Mode())
	})

	t.Run("network when credential present", func(t *testing.T) {
		c := New(config.ProverConfig{Endpoint: "https://prover.example.com", PrivateKey: "key"}, logger)
		assert.Equal(t, ModeNetwork, c.Mode())
	})
}
