// Package domain contains the business logic for proof issuance.
package domain

// IssueRequest asks for a payment-gated, prover-backed proof of balance.
type IssueRequest struct {
	Wallet    string `json:"wallet"`
	Token     string `json:"token"`
	MinAmount string `json:"minAmount"`
	TxHash    string `json:"txHash"`
}

// BalanceProofRequest asks for a direct balance proof backed by an on-chain
// storage proof, skipping the external prover.
type BalanceProofRequest struct {
	WalletAddress string `json:"walletAddress"`
	MinBalance    string `json:"minBalanceUSDT"`
}
