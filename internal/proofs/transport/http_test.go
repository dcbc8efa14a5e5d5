package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proofgate/proofgate/internal/proofs/domain"
	"github.com/proofgate/proofgate/internal/storage"
)

// mockService implements Service for testing
type mockService struct {
	issueRec   *storage.ProofRecord
	issueErr   error
	balanceRec *storage.ProofRecord
	balanceErr error
	records    map[string]*storage.ProofRecord
	byWallet   map[string][]*storage.ProofRecord
}

func newMockService() *mockService {
	return &mockService{
		records:  make(map[string]*storage.ProofRecord),
		byWallet: make(map[string][]*storage.ProofRecord),
	}
}

func (m *mockService) Issue(ctx context.Context, req domain.IssueRequest) (*storage.ProofRecord, error) {
	return m.issueRec, m.issueErr
}

func (m *mockService) GenerateBalanceProof(ctx context.Context, req domain.BalanceProofRequest) (*storage.ProofRecord, error) {
	return m.balanceRec, m.balanceErr
}

func (m *mockService) GetByShareID(ctx context.Context, shareID string) (*storage.ProofRecord, error) {
	if rec, ok := m.records[shareID]; ok {
		return rec, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockService) ListByWallet(ctx context.Context, address string) ([]*storage.ProofRecord, error) {
	return m.byWallet[address], nil
}

func (m *mockService) Delete(ctx context.Context, shareID string) error {
	if _, ok := m.records[shareID]; !ok {
		return domain.ErrNotFound
	}
	delete(m.records, shareID)
	return nil
}

func setupRouter(svc Service, verbose bool) *chi.Mux {
	r := chi.NewRouter()
	h := NewHandler(svc, verbose)
	h.RegisterRoutes(r)
	return r
}

func completedRecord() *storage.ProofRecord {
	now := time.Now().UTC()
	return &storage.ProofRecord{
		ID:                "internal-id",
		ShareID:           "share-1",
		WalletAddress:     "0xdac17f958d2ee523a2206206994597c13d831ec7",
		Token:             storage.Token{Symbol: "USDT", ContractAddress: "0x7169d38820dfd117c3fa1f22a697dba58d90ba06", Decimals: 6, Network: "test"},
		MinAmountRequired: "100",
		BalanceAsProved:   "250",
		ClaimText:         "Wallet 0xdAC1...1ec7 holds at least 100 USDT",
		Proof:             "0xproof00",
		PublicInputs:      "0xinputs00",
		ProverMode:        "mock",
		PaymentTxHash:     "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		VerificationCode:  "PROOF_ABC123_XYZ789",
		Network:           "test",
		Status:            storage.StatusCompleted,
		CreatedAt:         now,
		ExpiresAt:         now.Add(24 * time.Hour),
		StorageProof: &storage.StorageProofData{
			SlotHash:    "0x01",
			RawValue:    "250000000",
			MerklePath:  []string{"0xaa"},
			BlockNumber: 19_000_000,
		},
	}
}

func TestHandleGenerateProof(t *testing.T) {
	t.Run("success shape", func(t *testing.T) {
		svc := newMockService()
		svc.issueRec = completedRecord()
		router := setupRouter(svc, true)

		body := `{"wallet":"0xdAC17F958D2ee523a2206206994597C13D831ec7","token":"0x7169D38820dfd117C3FA1f22a697dBA58d90BA06","minAmount":"100","txHash":"0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}`
		req := httptest.NewRequest("POST", "/generate-proof", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp GenerateProofResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "0xproof00", resp.Proof)
		assert.Equal(t, "PROOF_ABC123_XYZ789", resp.VerificationCode)
		assert.Equal(t, "mock", resp.ProverMode)
		assert.Equal(t, "test", resp.Network)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		router := setupRouter(newMockService(), true)

		req := httptest.NewRequest("POST", "/generate-proof", bytes.NewBufferString("{nope"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid input maps to 400", func(t *testing.T) {
		svc := newMockService()
		svc.issueErr = fmt.Errorf("%w: wallet", domain.ErrInvalidInput)
		router := setupRouter(svc, true)

		rec := postJSON(t, router, "/generate-proof", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assertErrorShape(t, rec)
	})

	t.Run("payment failure maps to 402", func(t *testing.T) {
		svc := newMockService()
		svc.issueErr = fmt.Errorf("%w: recipient mismatch", domain.ErrPaymentRequired)
		router := setupRouter(svc, true)

		rec := postJSON(t, router, "/generate-proof", `{}`)
		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
		assertErrorShape(t, rec)
	})

	t.Run("insufficient balance maps to 400", func(t *testing.T) {
		svc := newMockService()
		svc.issueErr = fmt.Errorf("%w: balance 50 below required 100", domain.ErrInsufficientBalance)
		router := setupRouter(svc, true)

		rec := postJSON(t, router, "/generate-proof", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unexpected failure maps to 500", func(t *testing.T) {
		svc := newMockService()
		svc.issueErr = errors.New("rpc down")
		router := setupRouter(svc, true)

		rec := postJSON(t, router, "/generate-proof", `{}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Message, "rpc down")
	})

	t.Run("500 detail hidden when not verbose", func(t *testing.T) {
		svc := newMockService()
		svc.issueErr = errors.New("rpc down")
		router := setupRouter(svc, false)

		rec := postJSON(t, router, "/generate-proof", `{}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Empty(t, resp.Message)
		assert.NotContains(t, rec.Body.String(), "rpc down")
	})
}

func TestHandleGenerateBalanceProof(t *testing.T) {
	svc := newMockService()
	svc.balanceRec = completedRecord()
	router := setupRouter(svc, true)

	rec := postJSON(t, router, "/balance-proof/generate",
		`{"walletAddress":"0xdAC17F958D2ee523a2206206994597C13D831ec7","minBalanceUSDT":"100"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp BalanceProofCreated
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "share-1", resp.Proof.ShareID)
	assert.Equal(t, "250", resp.Proof.Balance)
	assert.Equal(t, uint64(19_000_000), resp.Proof.BlockNumber)
}

func TestHandleGetByShareID(t *testing.T) {
	svc := newMockService()
	svc.records["share-1"] = completedRecord()
	router := setupRouter(svc, true)

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/balance-proof/share-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp BalanceProofLookup
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "250", resp.Proof.BalanceUSDT)
		// Single lookups omit the share identifier
		assert.Empty(t, resp.Proof.ShareID)
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/balance-proof/missing", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assertErrorShape(t, rec)
	})
}

func TestHandleListByWallet(t *testing.T) {
	svc := newMockService()
	svc.byWallet["0xdac17f958d2ee523a2206206994597c13d831ec7"] = []*storage.ProofRecord{completedRecord()}
	router := setupRouter(svc, true)

	t.Run("with records", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/balance-proof/wallet/0xdac17f958d2ee523a2206206994597c13d831ec7", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp BalanceProofList
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Proofs, 1)
		assert.Equal(t, "share-1", resp.Proofs[0].ShareID)
	})

	t.Run("empty list not null", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/balance-proof/wallet/0x1111111111111111111111111111111111111111", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"proofs":[]`)
	})
}

func TestHandleDelete(t *testing.T) {
	svc := newMockService()
	svc.records["share-1"] = completedRecord()
	router := setupRouter(svc, true)

	req := httptest.NewRequest("DELETE", "/balance-proof/share-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Second delete finds nothing
	req = httptest.NewRequest("DELETE", "/balance-proof/share-1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// Helpers

func postJSON(t *testing.T, router *chi.Mux, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func assertErrorShape(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}
