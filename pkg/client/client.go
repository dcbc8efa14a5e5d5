// Package client provides a Go client for the Proofgate API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client is a Proofgate API client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

// New creates a new Proofgate client
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			// Proving can take minutes against a live prover
			Timeout: 3 * time.Minute,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GenerateProofRequest is the request for issuing a paid proof
type GenerateProofRequest struct {
	Wallet    string `json:"wallet"`
	Token     string `json:"token"`
	MinAmount string `json:"minAmount"`
	TxHash    string `json:"txHash"`
}

// GeneratedProof is an issued proof artifact
type GeneratedProof struct {
	Success          bool   `json:"success"`
	Proof            string `json:"proof"`
	PublicInputs     string `json:"publicInputs"`
	Wallet           string `json:"wallet"`
	MinAmount        string `json:"minAmount"`
	Token            string `json:"token"`
	PaymentTxHash    string `json:"paymentTxHash"`
	Timestamp        string `json:"timestamp"`
	Network          string `json:"network"`
	VerificationCode string `json:"verificationCode"`
	ProverMode       string `json:"proverMode"`
}

// BalanceProofRequest is the request for a storage-proof-backed balance proof
type BalanceProofRequest struct {
	WalletAddress string `json:"walletAddress"`
	MinBalance    string `json:"minBalanceUSDT"`
}

// BalanceProofSummary is a freshly created balance proof
type BalanceProofSummary struct {
	ShareID     string `json:"shareId"`
	ClaimText   string `json:"claimText"`
	Balance     string `json:"balance"`
	Message     string `json:"message"`
	BlockNumber uint64 `json:"blockNumber"`
}

// BalanceProof is a stored balance proof
type BalanceProof struct {
	ShareID     string `json:"shareId,omitempty"`
	ClaimText   string `json:"claimText"`
	BalanceUSDT string `json:"balanceUSDT"`
	MinRequired string `json:"minRequired"`
	BlockNumber uint64 `json:"blockNumber"`
	Timestamp   string `json:"timestamp"`
}

// VerifyProofRequest is the request for verifying a presented artifact
type VerifyProofRequest struct {
	Proof        string `json:"proof"`
	PublicInputs string `json:"publicInputs"`
	Wallet       string `json:"wallet"`
	MinAmount    string `json:"minAmount,omitempty"`
	Token        string `json:"token"`
}

// VerifyProofResult is the verification outcome
type VerifyProofResult struct {
	IsValid bool   `json:"isValid"`
	Message string `json:"message"`
	Wallet  string `json:"wallet"`
	Token   string `json:"token"`
}

// NetworkInfo describes the network the server is connected to
type NetworkInfo struct {
	Network string `json:"network"`
	NodeEnv string `json:"nodeEnv"`
	Message string `json:"message"`
}

// Health is the server health report
type Health struct {
	Status           string `json:"status"`
	Network          string `json:"network"`
	SP1Configured    bool   `json:"sp1Configured"`
	WalletConfigured bool   `json:"walletConfigured"`
	Message          string `json:"message,omitempty"`
}

// APIError represents an API error response
type APIError struct {
	StatusCode int
	Reason     string `json:"error"`
	Detail     string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("HTTP %d: %s: %s", e.StatusCode, e.Reason, e.Detail)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Reason)
}

// GenerateProof issues a payment-gated proof of balance
func (c *Client) GenerateProof(ctx context.Context, req GenerateProofRequest) (*GeneratedProof, error) {
	var resp GeneratedProof
	if err := c.post(ctx, "/generate-proof", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateBalanceProof creates a storage-proof-backed balance proof
func (c *Client) GenerateBalanceProof(ctx context.Context, req BalanceProofRequest) (*BalanceProofSummary, error) {
	var resp struct {
		Success bool                `json:"success"`
		Proof   BalanceProofSummary `json:"proof"`
	}
	if err := c.post(ctx, "/balance-proof/generate", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Proof, nil
}

// GetBalanceProof fetches a stored balance proof by its share identifier
func (c *Client) GetBalanceProof(ctx context.Context, shareID string) (*BalanceProof, error) {
	var resp struct {
		Success bool         `json:"success"`
		Proof   BalanceProof `json:"proof"`
	}
	if err := c.get(ctx, "/balance-proof/"+url.PathEscape(shareID), &resp); err != nil {
		return nil, err
	}
	return &resp.Proof, nil
}

// ListBalanceProofs lists all balance proofs for a wallet
func (c *Client) ListBalanceProofs(ctx context.Context, address string) ([]BalanceProof, error) {
	var resp struct {
		Success bool           `json:"success"`
		Proofs  []BalanceProof `json:"proofs"`
	}
	if err := c.get(ctx, "/balance-proof/wallet/"+url.PathEscape(address), &resp); err != nil {
		return nil, err
	}
	return resp.Proofs, nil
}

// DeleteBalanceProof removes a stored balance proof
func (c *Client) DeleteBalanceProof(ctx context.Context, shareID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/balance-proof/"+url.PathEscape(shareID), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// VerifyProof checks a presented proof artifact
func (c *Client) VerifyProof(ctx context.Context, req VerifyProofRequest) (*VerifyProofResult, error) {
	var resp VerifyProofResult
	if err := c.post(ctx, "/verify-proof", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Network reports which network the server talks to
func (c *Client) Network(ctx context.Context) (*NetworkInfo, error) {
	var resp NetworkInfo
	if err := c.get(ctx, "/network", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health reports the server health. A degraded server answers 503 but still
// carries the health payload, so that status is not treated as an error.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusServiceUnavailable {
		return nil, c.parseError(resp)
	}

	var health Health
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, err
	}
	return &health, nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, result)
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, result)
}

func (c *Client) do(req *http.Request, result any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.parseError(resp)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func (c *Client) parseError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Reason == "" {
		apiErr.Reason = resp.Status
	}
	return apiErr
}
