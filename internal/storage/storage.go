// Package storage holds the proof record model and the in-process store.
package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a record is not in the store.
var ErrNotFound = errors.New("not found")

// ProofStatus is the lifecycle state of a proof record. Records only ever
// advance forward: pending -> generating -> completed or failed.
type ProofStatus string

const (
	StatusPending    ProofStatus = "pending"
	StatusGenerating ProofStatus = "generating"
	StatusCompleted  ProofStatus = "completed"
	StatusFailed     ProofStatus = "failed"
)

var statusRank = map[ProofStatus]int{
	StatusPending:    0,
	StatusGenerating: 1,
	StatusCompleted:  2,
	StatusFailed:     2,
}

// CanTransition reports whether a status change is a legal forward step.
// Terminal states never regress or flip.
func CanTransition(from, to ProofStatus) bool {
	fr, ok := statusRank[from]
	if !ok {
		return false
	}
	tr, ok := statusRank[to]
	if !ok {
		return false
	}
	if from == StatusCompleted || from == StatusFailed {
		return false
	}
	return tr > fr
}

// Token describes the token whose balance is proved.
type Token struct {
	Symbol          string `json:"symbol"`
	ContractAddress string `json:"contractAddress"`
	Decimals        int    `json:"decimals"`
	Network         string `json:"network"`
}

// StorageProofData is a blockchain-native storage proof attached to records
// from the direct balance-proof flow.
type StorageProofData struct {
	SlotHash    string   `json:"slotHash"`
	RawValue    string   `json:"rawValue"`
	MerklePath  []string `json:"merklePath"`
	BlockNumber uint64   `json:"blockNumber"`
}

// ProofRecord is an issued proof. ShareID is the only externally exposed
// lookup key; ID is internal and must never leave the process as a handle.
type ProofRecord struct {
	ID      string
	ShareID string

	// WalletAddress is lowercase-normalized before storage; comparisons
	// against it are case-insensitive everywhere.
	WalletAddress     string
	Token             Token
	MinAmountRequired string
	BalanceAsProved   string
	ClaimText         string

	Proof        string
	PublicInputs string
	ProverMode   string
	StorageProof *StorageProofData

	PaymentTxHash    string
	VerificationCode string
	Network          string

	Status    ProofStatus
	CreatedAt time.Time
	// ExpiresAt is a policy horizon; it is reported but not enforced on
	// lookups. Callers evict expired records explicitly via Delete.
	ExpiresAt time.Time
	Error     string
}

// Expired reports whether the record's policy horizon has passed.
func (r *ProofRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// ProofStore is a volatile, process-wide registry of issued proof records.
// Nothing survives a restart.
type ProofStore interface {
	Save(rec *ProofRecord)
	GetByShareID(shareID string) (*ProofRecord, bool)
	GetByWallet(address string) []*ProofRecord
	Delete(shareID string) bool
	CodeExists(code string) bool
	Len() int
}
