package domain

import (
	"context"
	"errors"
	"math/big"
	"regexp"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proofgate/proofgate/internal/chains"
	"github.com/proofgate/proofgate/internal/chains/evm"
	"github.com/proofgate/proofgate/internal/prover"
	"github.com/proofgate/proofgate/internal/storage"
)

const (
	testWallet = "0xdAC17F958D2ee523a2206206994597C13D831ec7"
	testToken  = "0x7169D38820dfd117C3FA1f22a697dBA58d90BA06"
	testTxHash = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
)

// fakePayments implements PaymentVerifier for testing
type fakePayments struct {
	err error
}

func (f *fakePayments) Verify(ctx context.Context, txHash common.Hash, recipient common.Address, minValueWei *big.Int) (*evm.PaymentReceipt, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &evm.PaymentReceipt{TxHash: txHash, To: recipient, ValueWei: minValueWei, Confirmed: true}, nil
}

// fakeOracle implements BalanceOracle for testing
type fakeOracle struct {
	balance *big.Int
	err     error
}

func (f *fakeOracle) BalanceProof(ctx context.Context, tokenContract, account common.Address, mappingSlot uint64) (*evm.StorageProof, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &evm.StorageProof{
		SlotHash:    evm.DeriveBalanceSlot(account, mappingSlot),
		RawValue:    new(big.Int).Set(f.balance),
		MerklePath:  []string{"0xf90211a0", "0xf871a0"},
		BlockNumber: 19_000_000,
	}, nil
}

// fakeProver implements prover.Client for testing
type fakeProver struct {
	err error
}

func (f *fakeProver) Prove(ctx context.Context, in prover.Inputs) (*prover.Artifact, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &prover.Artifact{Proof: "0xproof00", PublicInputs: "0xinputs00", Mode: prover.ModeMock}, nil
}

func (f *fakeProver) Mode() string { return prover.ModeMock }

func testConfig() Config {
	return Config{
		Recipient:    common.HexToAddress("0x1111111111111111111111111111111111111111"),
		ProofCostWei: big.NewInt(1_000_000_000_000_000),
		Token: storage.Token{
			Symbol:          "USDT",
			ContractAddress: "0x7169d38820dfd117c3fa1f22a697dba58d90ba06",
			Decimals:        6,
			Network:         "test",
		},
		BalancesSlot: 2,
		Network:      chains.Network{Name: "test", ChainID: 11155111},
	}
}

func newTestService(store Store, payments PaymentVerifier, oracle BalanceOracle, prv prover.Client) *service {
	return NewService(store, payments, oracle, prv, testConfig())
}

var codePattern = regexp.MustCompile(`^PROOF_[0-9A-Z]+_[0-9A-Z]{6}$`)

func TestIssue_Success(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := newTestService(store, &fakePayments{}, &fakeOracle{balance: big.NewInt(250_000_000)}, &fakeProver{})

	rec, err := svc.Issue(context.Background(), IssueRequest{
		Wallet:    testWallet,
		Token:     testToken,
		MinAmount: "100",
		TxHash:    testTxHash,
	})
	require.NoError(t, err)

	assert.Equal(t, storage.StatusCompleted, rec.Status)
	assert.Equal(t, "0xdac17f958d2ee523a2206206994597c13d831ec7", rec.WalletAddress)
	assert.Equal(t, "250", rec.BalanceAsProved)
	assert.Equal(t, "100", rec.MinAmountRequired)
	assert.Equal(t, "0xproof00", rec.Proof)
	assert.Equal(t, prover.ModeMock, rec.ProverMode)
	assert.Equal(t, "test", rec.Network)
	assert.Regexp(t, codePattern, rec.VerificationCode)
	assert.Nil(t, rec.StorageProof)
	assert.WithinDuration(t, rec.CreatedAt.Add(24*time.Hour), rec.ExpiresAt, time.Second)

	stored, ok := store.GetByShareID(rec.ShareID)
	require.True(t, ok)
	assert.Equal(t, rec.VerificationCode, stored.VerificationCode)
}

func TestIssue_InvalidInput(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := newTestService(store, &fakePayments{}, &fakeOracle{balance: big.NewInt(1)}, &fakeProver{})

	cases := []IssueRequest{
		{Wallet: "not-an-address", Token: testToken, MinAmount: "100", TxHash: testTxHash},
		{Wallet: testWallet, Token: "0x123", MinAmount: "100", TxHash: testTxHash},
		{Wallet: testWallet, Token: testToken, MinAmount: "1.5", TxHash: testTxHash},
		{Wallet: testWallet, Token: testToken, MinAmount: "100", TxHash: "0xdead"},
	}

	for _, req := range cases {
		_, err := svc.Issue(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	assert.Equal(t, 0, store.Len())
}

func TestIssue_PaymentNotVerified(t *testing.T) {
	store := storage.NewMemoryStore()
	payments := &fakePayments{err: evm.ErrPaymentNotVerified}
	svc := newTestService(store, payments, &fakeOracle{balance: big.NewInt(250_000_000)}, &fakeProver{})

	_, err := svc.Issue(context.Background(), IssueRequest{
		Wallet: testWallet, Token: testToken, MinAmount: "100", TxHash: testTxHash,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPaymentRequired)
	assert.Equal(t, 0, store.Len())
}

func TestIssue_PaymentTransportError(t *testing.T) {
	store := storage.NewMemoryStore()
	payments := &fakePayments{err: errors.New("connection refused")}
	svc := newTestService(store, payments, &fakeOracle{balance: big.NewInt(250_000_000)}, &fakeProver{})

	_, err := svc.Issue(context.Background(), IssueRequest{
		Wallet: testWallet, Token: testToken, MinAmount: "100", TxHash: testTxHash,
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPaymentRequired)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestIssue_InsufficientBalance(t *testing.T) {
	store := storage.NewMemoryStore()
	// 50 USDT on chain, 100 required
	svc := newTestService(store, &fakePayments{}, &fakeOracle{balance: big.NewInt(50_000_000)}, &fakeProver{})

	_, err := svc.Issue(context.Background(), IssueRequest{
		Wallet: testWallet, Token: testToken, MinAmount: "100", TxHash: testTxHash,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, 0, store.Len())
}

func TestIssue_ExactBalanceAccepted(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := newTestService(store, &fakePayments{}, &fakeOracle{balance: big.NewInt(100_000_000)}, &fakeProver{})

	rec, err := svc.Issue(context.Background(), IssueRequest{
		Wallet: testWallet, Token: testToken, MinAmount: "100", TxHash: testTxHash,
	})
	require.NoError(t, err)
	assert.Equal(t, storage.StatusCompleted, rec.Status)
}

func TestIssue_ProverFailureKeepsFailedRecord(t *testing.T) {
	store := storage.NewMemoryStore()
	prv := &fakeProver{err: errors.New("prover unavailable")}
	svc := newTestService(store, &fakePayments{}, &fakeOracle{balance: big.NewInt(250_000_000)}, prv)

	_, err := svc.Issue(context.Background(), IssueRequest{
		Wallet: testWallet, Token: testToken, MinAmount: "100", TxHash: testTxHash,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProofGeneration)

	// The failed attempt is recorded, not dropped
	require.Equal(t, 1, store.Len())
	recs := store.GetByWallet(testWallet)
	require.Len(t, recs, 1)
	assert.Equal(t, storage.StatusFailed, recs[0].Status)
	assert.Contains(t, recs[0].Error, "prover unavailable")
	assert.Empty(t, recs[0].Proof)
}

func TestGenerateBalanceProof_Success(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := newTestService(store, &fakePayments{}, &fakeOracle{balance: big.NewInt(250_500_000)}, &fakeProver{})

	rec, err := svc.GenerateBalanceProof(context.Background(), BalanceProofRequest{
		WalletAddress: testWallet,
		MinBalance:    "100",
	})
	require.NoError(t, err)

	assert.Equal(t, storage.StatusCompleted, rec.Status)
	assert.Equal(t, "250.5", rec.BalanceAsProved)
	require.NotNil(t, rec.StorageProof)
	assert.Equal(t, uint64(19_000_000), rec.StorageProof.BlockNumber)
	assert.NotEmpty(t, rec.StorageProof.MerklePath)
	// No payment and no prover artifact on this flow
	assert.Empty(t, rec.PaymentTxHash)
	assert.Empty(t, rec.Proof)

	// The claim abbreviates the wallet
	assert.Contains(t, rec.ClaimText, "0xdAC1...1ec7")
	assert.NotContains(t, rec.ClaimText, testWallet)

	_, ok := store.GetByShareID(rec.ShareID)
	assert.True(t, ok)
}

func TestGenerateBalanceProof_InsufficientBalanceStoresNothing(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := newTestService(store, &fakePayments{}, &fakeOracle{balance: big.NewInt(50_000_000)}, &fakeProver{})

	_, err := svc.GenerateBalanceProof(context.Background(), BalanceProofRequest{
		WalletAddress: testWallet,
		MinBalance:    "100",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, 0, store.Len())
}

func TestGenerateBalanceProof_OracleError(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := newTestService(store, &fakePayments{}, &fakeOracle{err: errors.New("rpc timeout")}, &fakeProver{})

	_, err := svc.GenerateBalanceProof(context.Background(), BalanceProofRequest{
		WalletAddress: testWallet,
		MinBalance:    "100",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, store.Len())
}

func TestGetByShareID_NotFound(t *testing.T) {
	svc := newTestService(storage.NewMemoryStore(), &fakePayments{}, &fakeOracle{balance: big.NewInt(1)}, &fakeProver{})

	_, err := svc.GetByShareID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListByWallet_InvalidAddress(t *testing.T) {
	svc := newTestService(storage.NewMemoryStore(), &fakePayments{}, &fakeOracle{balance: big.NewInt(1)}, &fakeProver{})

	_, err := svc.ListByWallet(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDelete_NotFound(t *testing.T) {
	svc := newTestService(storage.NewMemoryStore(), &fakePayments{}, &fakeOracle{balance: big.NewInt(1)}, &fakeProver{})

	err := svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGenerateVerificationCode_Shape(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		code, err := generateVerificationCode(now)
		require.NoError(t, err)
		assert.Regexp(t, codePattern, code)
		seen[code] = true
	}

	// Random suffixes make repeats vanishingly unlikely even at one timestamp
	assert.Greater(t, len(seen), 45)
}
