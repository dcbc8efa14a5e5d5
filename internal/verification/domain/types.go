// Package domain contains the business logic for proof verification.
package domain

// ValidateRequest carries a previously issued artifact presented for
// verification.
type ValidateRequest struct {
	Proof        string `json:"proof"`
	PublicInputs string `json:"publicInputs"`
	Wallet       string `json:"wallet"`
	MinAmount    string `json:"minAmount,omitempty"`
	Token        string `json:"token"`
}

// ValidateResult is computed fresh on every call and never persisted.
type ValidateResult struct {
	IsValid bool   `json:"isValid"`
	Message string `json:"message"`
	Wallet  string `json:"wallet"`
	Token   string `json:"token"`
}
