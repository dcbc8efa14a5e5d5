// Package chains resolves which blockchain network the process talks to
// and owns the pooled RPC connection to it.
package chains

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/ethclient/gethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/proofgate/proofgate/internal/config"
)

// Public fallback endpoints used when no RPC URL is configured. This is an
// accepted degraded mode for local development without credentials.
const (
	defaultMainnetRPC = "https://ethereum-rpc.publicnode.com"
	defaultSepoliaRPC = "https://ethereum-sepolia-rpc.publicnode.com"
)

// Network identifies the resolved blockchain network. Immutable for the
// process lifetime.
type Network struct {
	Name        string `json:"name"` // "test" or "production"
	RPCEndpoint string `json:"rpcEndpoint"`
	ChainID     int64  `json:"chainId"`
}

// Resolver selects the network once per process and memoizes the RPC
// connection. The sync.Once guards first-time initialization so concurrent
// callers share a single pooled client.
type Resolver struct {
	network Network

	once      sync.Once
	client    *ethclient.Client
	rpcClient *rpc.Client
	dialErr   error
}

// NewResolver resolves the network from configuration. Resolution is
// deterministic and has no error path: an empty endpoint falls back to a
// public default.
func NewResolver(cfg config.ChainConfig) *Resolver {
	network := Network{Name: "test", RPCEndpoint: cfg.SepoliaRPC, ChainID: 11155111}
	if cfg.Production {
		network = Network{Name: "production", RPCEndpoint: cfg.MainnetRPC, ChainID: 1}
	}
	if network.RPCEndpoint == "" {
		if cfg.Production {
			network.RPCEndpoint = defaultMainnetRPC
		} else {
			network.RPCEndpoint = defaultSepoliaRPC
		}
	}
	return &Resolver{network: network}
}

// Resolve returns the selected network. Repeated calls return the same value.
func (r *Resolver) Resolve() Network {
	return r.network
}

// Client returns the shared ethclient handle, dialing on first use.
func (r *Resolver) Client(ctx context.Context) (*ethclient.Client, error) {
	r.dial(ctx)
	return r.client, r.dialErr
}

// GethClient returns the shared gethclient handle (eth_getProof and other
// geth extensions), dialing on first use.
func (r *Resolver) GethClient(ctx context.Context) (*gethclient.Client, error) {
	r.dial(ctx)
	if r.dialErr != nil {
		return nil, r.dialErr
	}
	return gethclient.New(r.rpcClient), nil
}

func (r *Resolver) dial(ctx context.Context) {
	r.once.Do(func() {
		c, err := rpc.DialContext(ctx, r.network.RPCEndpoint)
		if err != nil {
			r.dialErr = fmt.Errorf("dialing %s: %w", r.network.RPCEndpoint, err)
			return
		}
		r.rpcClient = c
		r.client = ethclient.NewClient(c)
	})
}

// RPCTimeout returns the per-call RPC timeout from configuration, with a
// sane floor when unset.
func RPCTimeout(cfg config.ChainConfig) time.Duration {
	if cfg.RPCTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(cfg.RPCTimeout) * time.Second
}

// Close releases the underlying RPC connection.
func (r *Resolver) Close() {
	if r.rpcClient != nil {
		r.rpcClient.Close()
	}
}
