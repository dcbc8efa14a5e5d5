package server

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient/gethclient"

	"github.com/proofgate/proofgate/internal/chains"
)

// The lazy adapters defer RPC dialing to the first actual call, so the server
// starts even when the endpoint is unreachable.

type lazyTxReader struct {
	resolver *chains.Resolver
}

func (l *lazyTxReader) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	client, err := l.resolver.Client(ctx)
	if err != nil {
		return nil, false, err
	}
	return client.TransactionByHash(ctx, hash)
}

func (l *lazyTxReader) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	client, err := l.resolver.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.TransactionReceipt(ctx, txHash)
}

type lazyProofReader struct {
	resolver *chains.Resolver
}

func (l *lazyProofReader) GetProof(ctx context.Context, account common.Address, keys []string, blockNumber *big.Int) (*gethclient.AccountResult, error) {
	client, err := l.resolver.GethClient(ctx)
	if err != nil {
		return nil, err
	}
	return client.GetProof(ctx, account, keys, blockNumber)
}

type lazyBlockReader struct {
	resolver *chains.Resolver
}

func (l *lazyBlockReader) BlockNumber(ctx context.Context) (uint64, error) {
	client, err := l.resolver.Client(ctx)
	if err != nil {
		return 0, err
	}
	return client.BlockNumber(ctx)
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
