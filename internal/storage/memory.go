package storage

import (
	"strings"
	"sync"
)

// MemoryStore is the in-process ProofStore. The RWMutex serializes map
// mutations; wallet lookups are full scans, acceptable at single-digit
// thousands of records.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*ProofRecord
	order   []string // shareIDs in insertion order
}

// NewMemoryStore creates an empty store. It is constructor-injected into the
// issuer, never a package-level singleton.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*ProofRecord)}
}

// Save stores a copy of the record keyed by its ShareID. Saving an existing
// ShareID replaces the record in place without disturbing insertion order.
func (s *MemoryStore) Save(rec *ProofRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := cloneRecord(rec)
	if _, exists := s.records[cp.ShareID]; !exists {
		s.order = append(s.order, cp.ShareID)
	}
	s.records[cp.ShareID] = cp
}

// GetByShareID looks up a record by its share identifier. Absence is not an
// error.
func (s *MemoryStore) GetByShareID(shareID string) (*ProofRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[shareID]
	if !ok {
		return nil, false
	}
	return cloneRecord(rec), true
}

// GetByWallet returns all records for a wallet in insertion order. The
// comparison is case-insensitive.
func (s *MemoryStore) GetByWallet(address string) []*ProofRecord {
	want := strings.ToLower(address)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*ProofRecord
	for _, id := range s.order {
		rec := s.records[id]
		if strings.ToLower(rec.WalletAddress) == want {
			out = append(out, cloneRecord(rec))
		}
	}
	return out
}

// Delete removes a record, reporting whether it existed.
func (s *MemoryStore) Delete(shareID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[shareID]; !ok {
		return false
	}
	delete(s.records, shareID)
	for i, id := range s.order {
		if id == shareID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// CodeExists reports whether any stored record already carries the given
// verification code. Used by the issuer's collision check.
func (s *MemoryStore) CodeExists(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.records {
		if rec.VerificationCode == code {
			return true
		}
	}
	return false
}

// Len reports the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// cloneRecord copies a record so callers never share mutable state with the
// store.
func cloneRecord(rec *ProofRecord) *ProofRecord {
	cp := *rec
	if rec.StorageProof != nil {
		spCopy := *rec.StorageProof
		spCopy.MerklePath = append([]string(nil), rec.StorageProof.MerklePath...)
		cp.StorageProof = &spCopy
	}
	return &cp
}
