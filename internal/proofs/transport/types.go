// Package transport provides HTTP handlers for the proofs domain.
package transport

// GenerateProofResponse is the success payload of POST /generate-proof.
type GenerateProofResponse struct {
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

// BalanceProofCreated is the success payload of POST /balance-proof/generate.
type BalanceProofCreated struct {
	Success bool                `json:"success"`
	Proof   BalanceProofSummary `json:"proof"`
}

// BalanceProofSummary is the freshly created balance proof.
type BalanceProofSummary struct {
	ShareID     string `json:"shareId"`
	ClaimText   string `json:"claimText"`
	Balance     string `json:"balance"`
	Message     string `json:"message"`
	BlockNumber uint64 `json:"blockNumber"`
}

// BalanceProofDetail is a stored balance proof as returned on lookup.
type BalanceProofDetail struct {
	ShareID     string `json:"shareId,omitempty"`
	ClaimText   string `json:"claimText"`
	BalanceUSDT string `json:"balanceUSDT"`
	MinRequired string `json:"minRequired"`
	BlockNumber uint64 `json:"blockNumber"`
	Timestamp   string `json:"timestamp"`
}

// BalanceProofLookup is the payload of GET /balance-proof/{shareId}.
type BalanceProofLookup struct {
	Success bool               `json:"success"`
	Proof   BalanceProofDetail `json:"proof"`
}

// BalanceProofList is the payload of GET /balance-proof/wallet/{address}.
type BalanceProofList struct {
	Success bool                 `json:"success"`
	Proofs  []BalanceProofDetail `json:"proofs"`
}

// DeleteResponse is the payload of DELETE /balance-proof/{shareId}.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the stable error shape for all failure cases.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
