package evm

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/gethclient"
)

// ProofReader is the subset of the geth extension client the oracle needs.
type ProofReader interface {
	GetProof(ctx context.Context, account common.Address, keys []string, blockNumber *big.Int) (*gethclient.AccountResult, error)
}

// BlockReader reports the current chain head.
type BlockReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

// StorageProof attests that a storage slot held a value at a given block.
// Immutable once produced.
type StorageProof struct {
	SlotHash    common.Hash
	RawValue    *big.Int
	MerklePath  []string
	BlockNumber uint64
}

// Oracle derives balance storage slots and retrieves Merkle storage proofs
// for them.
type Oracle struct {
	proofs  ProofReader
	blocks  BlockReader
	timeout time.Duration
}

// NewOracle creates a balance oracle. rpcTimeout bounds each RPC call.
func NewOracle(proofs ProofReader, blocks BlockReader, rpcTimeout time.Duration) *Oracle {
	return &Oracle{proofs: proofs, blocks: blocks, timeout: rpcTimeout}
}

// DeriveBalanceSlot computes the storage location of an account's balance in
// a single-level Solidity mapping: keccak256(pad32(account) || pad32(slot)).
// This must match the EVM's storage addressing byte for byte; any deviation
// proves the wrong slot.
func DeriveBalanceSlot(account common.Address, mappingSlot uint64) common.Hash {
	slot := new(big.Int).SetUint64(mappingSlot)
	preimage := append(
		common.LeftPadBytes(account.Bytes(), 32),
		common.LeftPadBytes(slot.Bytes(), 32)...,
	)
	return common.BytesToHash(crypto.Keccak256(preimage))
}

// FetchStorageProof queries eth_getProof for the derived slot of the token
// contract at a specific block.
func (o *Oracle) FetchStorageProof(ctx context.Context, tokenContract common.Address, slotHash common.Hash, blockNumber uint64) (*StorageProof, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	result, err := o.proofs.GetProof(ctx, tokenContract, []string{slotHash.Hex()}, new(big.Int).SetUint64(blockNumber))
	if err != nil {
		return nil, fmt.Errorf("eth_getProof: %w", err)
	}
	if len(result.StorageProof) == 0 {
		return nil, fmt.Errorf("eth_getProof returned no storage proof for slot %s", slotHash)
	}

	sp := result.StorageProof[0]
	value := sp.Value
	if value == nil {
		value = new(big.Int)
	}

	return &StorageProof{
		SlotHash:    slotHash,
		RawValue:    new(big.Int).Set(value),
		MerklePath:  sp.Proof,
		BlockNumber: blockNumber,
	}, nil
}

// BalanceProof derives the account's balance slot and fetches its storage
// proof at the current head block.
func (o *Oracle) BalanceProof(ctx context.Context, tokenContract, account common.Address, mappingSlot uint64) (*StorageProof, error) {
	headCtx, cancel := context.WithTimeout(ctx, o.timeout)
	head, err := o.blocks.BlockNumber(headCtx)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("fetching head block: %w", err)
	}

	slotHash := DeriveBalanceSlot(account, mappingSlot)
	return o.FetchStorageProof(ctx, tokenContract, slotHash, head)
}

// FormatUnits converts a raw stored value into a human-readable token amount
// by dividing by 10^decimals with integer arithmetic. Large balances never
// pass through floats.
func FormatUnits(raw *big.Int, decimals int) string {
	if decimals <= 0 {
		return raw.String()
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	quo, rem := new(big.Int).QuoRem(raw, scale, new(big.Int))
	if rem.Sign() == 0 {
		return quo.String()
	}
	digits := rem.String()
	if pad := decimals - len(digits); pad > 0 {
		digits = strings.Repeat("0", pad) + digits
	}
	return quo.String() + "." + strings.TrimRight(digits, "0")
}

// ScaleUnits converts a token-unit amount into its raw representation by
// multiplying by 10^decimals.
func ScaleUnits(amount *big.Int, decimals int) *big.Int {
	if decimals <= 0 {
		return new(big.Int).Set(amount)
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return new(big.Int).Mul(amount, scale)
}
