package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/proofgate/proofgate/internal/observability/metrics"
	"github.com/proofgate/proofgate/internal/proofs/domain"
	"github.com/proofgate/proofgate/internal/storage"
)

// Service defines the proofs service interface for HTTP transport.
type Service interface {
	Issue(ctx context.Context, req domain.IssueRequest) (*storage.ProofRecord, error)
	GenerateBalanceProof(ctx context.Context, req domain.BalanceProofRequest) (*storage.ProofRecord, error)
	GetByShareID(ctx context.Context, shareID string) (*storage.ProofRecord, error)
	ListByWallet(ctx context.Context, address string) ([]*storage.ProofRecord, error)
	Delete(ctx context.Context, shareID string) error
}

// Handler handles HTTP requests for proof issuance and balance proofs.
type Handler struct {
	svc Service
	// verbose includes internal error detail in 5xx payloads; off in
	// production
	verbose bool
}

// NewHandler creates a new proofs HTTP handler.
func NewHandler(svc Service, verbose bool) *Handler {
	return &Handler{svc: svc, verbose: verbose}
}

// RegisterRoutes registers the proofs routes on a chi router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/generate-proof", h.handleGenerateProof)
	r.Route("/balance-proof", func(r chi.Router) {
		r.Post("/generate", h.handleGenerateBalanceProof)
		r.Get("/wallet/{address}", h.handleListByWallet)
		r.Get("/{shareId}", h.handleGetByShareID)
		r.Delete("/{shareId}", h.handleDelete)
	})
}

func (h *Handler) handleGenerateProof(w http.ResponseWriter, r *http.Request) {
	var req domain.IssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", "")
		return
	}

	rec, err := h.svc.Issue(r.Context(), req)
	if err != nil {
		metrics.RecordProofIssue("error")
		h.writeIssueError(w, err)
		return
	}

	metrics.RecordProofIssue("ok")
	writeJSON(w, http.StatusOK, GenerateProofResponse{
		Success:          true,
		Proof:            rec.Proof,
		PublicInputs:     rec.PublicInputs,
		Wallet:           rec.WalletAddress,
		MinAmount:        rec.MinAmountRequired,
		Token:            rec.Token.ContractAddress,
		PaymentTxHash:    rec.PaymentTxHash,
		Timestamp:        rec.CreatedAt.Format(time.RFC3339),
		Network:          rec.Network,
		VerificationCode: rec.VerificationCode,
		ProverMode:       rec.ProverMode,
	})
}

func (h *Handler) handleGenerateBalanceProof(w http.ResponseWriter, r *http.Request) {
	var req domain.BalanceProofRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", "")
		return
	}

	rec, err := h.svc.GenerateBalanceProof(r.Context(), req)
	if err != nil {
		metrics.RecordBalanceProof("error")
		h.writeIssueError(w, err)
		return
	}

	metrics.RecordBalanceProof("ok")
	writeJSON(w, http.StatusOK, BalanceProofCreated{
		Success: true,
		Proof: BalanceProofSummary{
			ShareID:     rec.ShareID,
			ClaimText:   rec.ClaimText,
			Balance:     rec.BalanceAsProved,
			Message:     "Balance proof generated",
			BlockNumber: rec.StorageProof.BlockNumber,
		},
	})
}

func (h *Handler) handleGetByShareID(w http.ResponseWriter, r *http.Request) {
	shareID := chi.URLParam(r, "shareId")

	rec, err := h.svc.GetByShareID(r.Context(), shareID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Proof not found", "")
			return
		}
		h.writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, BalanceProofLookup{
		Success: true,
		Proof:   detailFromRecord(rec, false),
	})
}

func (h *Handler) handleListByWallet(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")

	recs, err := h.svc.ListByWallet(r.Context(), address)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error(), "")
			return
		}
		h.writeInternalError(w, err)
		return
	}

	proofs := make([]BalanceProofDetail, 0, len(recs))
	for _, rec := range recs {
		proofs = append(proofs, detailFromRecord(rec, true))
	}

	writeJSON(w, http.StatusOK, BalanceProofList{Success: true, Proofs: proofs})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	shareID := chi.URLParam(r, "shareId")

	if err := h.svc.Delete(r.Context(), shareID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Proof not found", "")
			return
		}
		h.writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, DeleteResponse{Success: true, Message: "Proof deleted"})
}

// writeIssueError maps domain errors onto the error taxonomy: 400 for
// malformed or unsatisfiable input, 402 when the payment gate fails, 500 for
// upstream failures.
func (h *Handler) writeIssueError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, domain.ErrPaymentRequired):
		writeError(w, http.StatusPaymentRequired, err.Error(), "")
	case errors.Is(err, domain.ErrInsufficientBalance):
		writeError(w, http.StatusBadRequest, err.Error(), "")
	default:
		h.writeInternalError(w, err)
	}
}

func (h *Handler) writeInternalError(w http.ResponseWriter, err error) {
	if h.verbose {
		writeError(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "Internal server error", "")
}

func detailFromRecord(rec *storage.ProofRecord, includeShareID bool) BalanceProofDetail {
	d := BalanceProofDetail{
		ClaimText:   rec.ClaimText,
		BalanceUSDT: rec.BalanceAsProved,
		MinRequired: rec.MinAmountRequired,
		Timestamp:   rec.CreatedAt.Format(time.RFC3339),
	}
	if rec.StorageProof != nil {
		d.BlockNumber = rec.StorageProof.BlockNumber
	}
	if includeShareID {
		d.ShareID = rec.ShareID
	}
	return d
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, errMsg, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Error:   errMsg,
		Message: detail,
	})
}
