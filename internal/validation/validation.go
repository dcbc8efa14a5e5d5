// Package validation provides input validation for Proofgate.
package validation

import (
	"errors"
	"math/big"
	"strings"
)

// ValidateAddress validates an Ethereum account address
func ValidateAddress(addr string) error {
	if len(addr) != 42 {
		return errors.New("invalid address length: must be 42 characters (0x + 40 hex)")
	}
	if !strings.HasPrefix(addr, "0x") {
		return errors.New("invalid address: must start with 0x")
	}
	if !isHex(addr[2:]) {
		return errors.New("invalid address: contains non-hex characters")
	}
	return nil
}

// ValidateTxHash validates a transaction hash
func ValidateTxHash(hash string) error {
	if len(hash) != 66 {
		return errors.New("invalid transaction hash length: must be 66 characters (0x + 64 hex)")
	}
	if !strings.HasPrefix(hash, "0x") {
		return errors.New("invalid transaction hash: must start with 0x")
	}
	if !isHex(hash[2:]) {
		return errors.New("invalid transaction hash: contains non-hex characters")
	}
	return nil
}

// ParseAmount parses a non-negative decimal integer amount.
// Amounts are arbitrary-precision; floats are never accepted.
func ParseAmount(s string) (*big.Int, error) {
	if s == "" {
		return nil, errors.New("amount cannot be empty")
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.New("invalid amount: must be a decimal integer")
	}
	if v.Sign() < 0 {
		return nil, errors.New("invalid amount: must be non-negative")
	}
	return v, nil
}

// NormalizeAddress lowercases an address for storage and comparison.
// Address equality across the system is case-insensitive.
func NormalizeAddress(addr string) string {
	return strings.ToLower(addr)
}

func isHex(s string) bool {
	for _, c := range s {
		isDigit := c >= '0' && c <= '9'
		isLowerHex := c >= 'a' && c <= 'f'
		isUpperHex := c >= 'A' && c <= 'F'
		if !isDigit && !isLowerHex && !isUpperHex {
			return false
		}
	}
	return true
}
