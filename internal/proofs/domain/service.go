package domain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/proofgate/proofgate/internal/chains"
	"github.com/proofgate/proofgate/internal/chains/evm"
	"github.com/proofgate/proofgate/internal/prover"
	"github.com/proofgate/proofgate/internal/storage"
	"github.com/proofgate/proofgate/internal/validation"
)

// Common errors returned by the proofs service.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrPaymentRequired     = errors.New("payment required")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrProofGeneration     = errors.New("proof generation failed")
	ErrNotFound            = errors.New("proof not found")
)

// recordTTL is the policy horizon on issued records. Expiry is reported, not
// enforced on lookups.
const recordTTL = 24 * time.Hour

// codeAttempts bounds the verification-code collision retry loop.
const codeAttempts = 5

// PaymentVerifier defines the payment check needed by the issuer.
type PaymentVerifier interface {
	Verify(ctx context.Context, txHash common.Hash, recipient common.Address, minValueWei *big.Int) (*evm.PaymentReceipt, error)
}

// BalanceOracle defines the storage-proof retrieval needed by the issuer.
type BalanceOracle interface {
	BalanceProof(ctx context.Context, tokenContract, account common.Address, mappingSlot uint64) (*evm.StorageProof, error)
}

// Store defines the record storage operations needed by the issuer.
type Store interface {
	Save(rec *storage.ProofRecord)
	GetByShareID(shareID string) (*storage.ProofRecord, bool)
	GetByWallet(address string) []*storage.ProofRecord
	Delete(shareID string) bool
	CodeExists(code string) bool
}

// Config carries the issuance policy resolved at startup.
type Config struct {
	// Recipient is the wallet the proof fee must be paid to
	Recipient common.Address
	// ProofCostWei is the minimum accepted payment
	ProofCostWei *big.Int
	// Token is the token whose balances are proved
	Token storage.Token
	// BalancesSlot is the slot index of the token's balance mapping
	BalancesSlot uint64
	// Network is the resolved chain
	Network chains.Network
}

type service struct {
	store    Store
	payments PaymentVerifier
	oracle   BalanceOracle
	prover   prover.Client
	cfg      Config
}

// NewService creates the proof issuance service. All collaborators are
// injected; the service holds no global state.
func NewService(store Store, payments PaymentVerifier, oracle BalanceOracle, prv prover.Client, cfg Config) *service {
	return &service{
		store:    store,
		payments: payments,
		oracle:   oracle,
		prover:   prv,
		cfg:      cfg,
	}
}

// Issue runs the full issuance pipeline: validate, verify payment, fetch the
// balance, prove the claim, assemble and store the record. Fail-fast, no
// partial retries; a caller that retries re-enters from the top, which is
// idempotent on the payment side but mints a fresh record each time.
// Concurrent calls for the same wallet are not serialized and produce
// independent records.
func (s *service) Issue(ctx context.Context, req IssueRequest) (*storage.ProofRecord, error) {
	if err := validation.ValidateAddress(req.Wallet); err != nil {
		return nil, fmt.Errorf("%w: wallet: %v", ErrInvalidInput, err)
	}
	if err := validation.ValidateAddress(req.Token); err != nil {
		return nil, fmt.Errorf("%w: token: %v", ErrInvalidInput, err)
	}
	if err := validation.ValidateTxHash(req.TxHash); err != nil {
		return nil, fmt.Errorf("%w: txHash: %v", ErrInvalidInput, err)
	}
	minAmount, err := validation.ParseAmount(req.MinAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: minAmount: %v", ErrInvalidInput, err)
	}

	if _, err := s.payments.Verify(ctx, common.HexToHash(req.TxHash), s.cfg.Recipient, s.cfg.ProofCostWei); err != nil {
		if errors.Is(err, evm.ErrPaymentNotVerified) {
			return nil, fmt.Errorf("%w: %v", ErrPaymentRequired, err)
		}
		return nil, fmt.Errorf("verifying payment: %w", err)
	}

	wallet := common.HexToAddress(req.Wallet)
	tokenContract := common.HexToAddress(req.Token)
	balanceProof, err := s.oracle.BalanceProof(ctx, tokenContract, wallet, s.cfg.BalancesSlot)
	if err != nil {
		return nil, fmt.Errorf("fetching balance proof: %w", err)
	}

	minRaw := evm.ScaleUnits(minAmount, s.cfg.Token.Decimals)
	if balanceProof.RawValue.Cmp(minRaw) < 0 {
		return nil, fmt.Errorf("%w: balance %s below required %s %s",
			ErrInsufficientBalance,
			evm.FormatUnits(balanceProof.RawValue, s.cfg.Token.Decimals),
			minAmount, s.cfg.Token.Symbol)
	}

	now := time.Now().UTC()
	rec := &storage.ProofRecord{
		ID:                generateID(),
		ShareID:           generateID(),
		WalletAddress:     validation.NormalizeAddress(req.Wallet),
		Token:             s.tokenDescriptor(req.Token),
		MinAmountRequired: minAmount.String(),
		BalanceAsProved:   evm.FormatUnits(balanceProof.RawValue, s.cfg.Token.Decimals),
		ClaimText:         claimText(req.Wallet, minAmount.String(), s.cfg.Token.Symbol),
		PaymentTxHash:     strings.ToLower(req.TxHash),
		Network:           s.cfg.Network.Name,
		Status:            storage.StatusPending,
		CreatedAt:         now,
		ExpiresAt:         now.Add(recordTTL),
	}
	advance(rec, storage.StatusGenerating)

	artifact, err := s.prover.Prove(ctx, prover.Inputs{
		Wallet:     strings.TrimPrefix(rec.WalletAddress, "0x"),
		Balance:    balanceProof.RawValue.String(),
		MinBalance: minRaw.String(),
	})
	if err != nil {
		// Payment was verified and the record exists: keep it with the
		// failure recorded rather than dropping it silently.
		rec.Error = err.Error()
		advance(rec, storage.StatusFailed)
		s.store.Save(rec)
		return nil, fmt.Errorf("%w: %v", ErrProofGeneration, err)
	}

	code, err := s.mintVerificationCode(now)
	if err != nil {
		rec.Error = err.Error()
		advance(rec, storage.StatusFailed)
		s.store.Save(rec)
		return nil, fmt.Errorf("%w: %v", ErrProofGeneration, err)
	}

	rec.Proof = artifact.Proof
	rec.PublicInputs = artifact.PublicInputs
	rec.ProverMode = artifact.Mode
	rec.VerificationCode = code
	advance(rec, storage.StatusCompleted)
	s.store.Save(rec)

	return rec, nil
}

// GenerateBalanceProof is the direct flow: no payment gate and no external
// prover, just a blockchain-native storage proof of the current balance.
// Nothing is persisted when the balance falls short.
func (s *service) GenerateBalanceProof(ctx context.Context, req BalanceProofRequest) (*storage.ProofRecord, error) {
	if err := validation.ValidateAddress(req.WalletAddress); err != nil {
		return nil, fmt.Errorf("%w: walletAddress: %v", ErrInvalidInput, err)
	}
	minBalance, err := validation.ParseAmount(req.MinBalance)
	if err != nil {
		return nil, fmt.Errorf("%w: minBalanceUSDT: %v", ErrInvalidInput, err)
	}

	wallet := common.HexToAddress(req.WalletAddress)
	tokenContract := common.HexToAddress(s.cfg.Token.ContractAddress)
	balanceProof, err := s.oracle.BalanceProof(ctx, tokenContract, wallet, s.cfg.BalancesSlot)
	if err != nil {
		return nil, fmt.Errorf("fetching balance proof: %w", err)
	}

	minRaw := evm.ScaleUnits(minBalance, s.cfg.Token.Decimals)
	if balanceProof.RawValue.Cmp(minRaw) < 0 {
		return nil, fmt.Errorf("%w: balance %s below required %s %s",
			ErrInsufficientBalance,
			evm.FormatUnits(balanceProof.RawValue, s.cfg.Token.Decimals),
			minBalance, s.cfg.Token.Symbol)
	}

	now := time.Now().UTC()
	rec := &storage.ProofRecord{
		ID:                generateID(),
		ShareID:           generateID(),
		WalletAddress:     validation.NormalizeAddress(req.WalletAddress),
		Token:             s.tokenDescriptor(s.cfg.Token.ContractAddress),
		MinAmountRequired: minBalance.String(),
		BalanceAsProved:   evm.FormatUnits(balanceProof.RawValue, s.cfg.Token.Decimals),
		ClaimText:         claimText(req.WalletAddress, minBalance.String(), s.cfg.Token.Symbol),
		StorageProof: &storage.StorageProofData{
			SlotHash:    balanceProof.SlotHash.Hex(),
			RawValue:    balanceProof.RawValue.String(),
			MerklePath:  append([]string(nil), balanceProof.MerklePath...),
			BlockNumber: balanceProof.BlockNumber,
		},
		Network:   s.cfg.Network.Name,
		Status:    storage.StatusPending,
		CreatedAt: now,
		ExpiresAt: now.Add(recordTTL),
	}
	advance(rec, storage.StatusGenerating)
	advance(rec, storage.StatusCompleted)
	s.store.Save(rec)

	return rec, nil
}

// GetByShareID looks up a record by its external share identifier.
func (s *service) GetByShareID(ctx context.Context, shareID string) (*storage.ProofRecord, error) {
	rec, ok := s.store.GetByShareID(shareID)
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

// ListByWallet returns every record for a wallet, case-insensitively, in
// insertion order.
func (s *service) ListByWallet(ctx context.Context, address string) ([]*storage.ProofRecord, error) {
	if err := validation.ValidateAddress(address); err != nil {
		return nil, fmt.Errorf("%w: address: %v", ErrInvalidInput, err)
	}
	return s.store.GetByWallet(address), nil
}

// Delete evicts a record by share identifier.
func (s *service) Delete(ctx context.Context, shareID string) error {
	if !s.store.Delete(shareID) {
		return ErrNotFound
	}
	return nil
}

// mintVerificationCode generates a code and retries on the unlikely store
// collision.
func (s *service) mintVerificationCode(now time.Time) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := generateVerificationCode(now)
		if err != nil {
			return "", err
		}
		if !s.store.CodeExists(code) {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not mint a unique verification code after %d attempts", codeAttempts)
}

func (s *service) tokenDescriptor(contract string) storage.Token {
	return storage.Token{
		Symbol:          s.cfg.Token.Symbol,
		ContractAddress: validation.NormalizeAddress(contract),
		Decimals:        s.cfg.Token.Decimals,
		Network:         s.cfg.Network.Name,
	}
}

// advance moves a record forward through its lifecycle. Illegal transitions
// are ignored; records never regress.
func advance(rec *storage.ProofRecord, next storage.ProofStatus) {
	if storage.CanTransition(rec.Status, next) {
		rec.Status = next
	}
}

// claimText renders the shareable claim with the wallet abbreviated, so a
// shared proof page does not reveal the full address.
func claimText(wallet, minAmount, symbol string) string {
	abbrev := wallet
	if len(wallet) == 42 {
		abbrev = wallet[:6] + "..." + wallet[38:]
	}
	return fmt.Sprintf("Wallet %s holds at least %s %s", abbrev, minAmount, symbol)
}
