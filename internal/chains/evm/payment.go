// Package evm implements payment verification and balance-storage proofs
// against EVM-compatible networks.
package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrPaymentNotVerified marks a legitimate negative verification result:
// the transaction is absent, pays the wrong recipient, pays too little, is
// unconfirmed, or reverted. Transport failures are returned as plain errors
// so callers can tell "payment is wrong" apart from "could not check".
var ErrPaymentNotVerified = errors.New("payment not verified")

// TxReader is the subset of the RPC client the verifier needs.
type TxReader interface {
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// PaymentReceipt is the result of a successful payment verification.
// It is transient: consumed immediately by the issuer, never persisted.
type PaymentReceipt struct {
	TxHash    common.Hash
	From      common.Address
	To        common.Address
	ValueWei  *big.Int
	Confirmed bool
}

// PaymentVerifier confirms that a referenced transaction is a confirmed
// transfer of at least a required value to a designated recipient.
type PaymentVerifier struct {
	txs     TxReader
	timeout time.Duration
}

// NewPaymentVerifier creates a verifier. rpcTimeout bounds each RPC call.
func NewPaymentVerifier(txs TxReader, rpcTimeout time.Duration) *PaymentVerifier {
	return &PaymentVerifier{txs: txs, timeout: rpcTimeout}
}

// Verify checks the referenced transaction against the expected recipient and
// minimum value. Values are compared as arbitrary-precision integers; wei
// amounts never pass through floats. Read-only; no side effects.
func (v *PaymentVerifier) Verify(ctx context.Context, txHash common.Hash, recipient common.Address, minValueWei *big.Int) (*PaymentReceipt, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	tx, pending, err := v.txs.TransactionByHash(ctx, txHash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("%w: transaction %s not found", ErrPaymentNotVerified, txHash)
		}
		return nil, fmt.Errorf("fetching transaction: %w", err)
	}

	// common.Address comparison is byte-wise, so recipient matching is
	// case-insensitive by construction.
	to := tx.To()
	if to == nil || *to != recipient {
		return nil, fmt.Errorf("%w: recipient mismatch", ErrPaymentNotVerified)
	}

	if tx.Value().Cmp(minValueWei) < 0 {
		return nil, fmt.Errorf("%w: value %s below required %s wei", ErrPaymentNotVerified, tx.Value(), minValueWei)
	}

	if pending {
		return nil, fmt.Errorf("%w: transaction not yet confirmed", ErrPaymentNotVerified)
	}

	receipt, err := v.txs.TransactionReceipt(ctx, txHash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("%w: transaction not yet confirmed", ErrPaymentNotVerified)
		}
		return nil, fmt.Errorf("fetching receipt: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: transaction execution failed", ErrPaymentNotVerified)
	}

	from, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	if err != nil {
		// Sender recovery is informational; the payment checks above stand.
		from = common.Address{}
	}

	return &PaymentReceipt{
		TxHash:    txHash,
		From:      from,
		To:        recipient,
		ValueWei:  new(big.Int).Set(tx.Value()),
		Confirmed: true,
	}, nil
}
