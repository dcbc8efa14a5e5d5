package domain

import (
	"context"
	"log/slog"
	"time"

	"github.com/proofgate/proofgate/internal/storage"
)

// loggingService is the interface required for logging middleware.
type loggingService interface {
	Issue(ctx context.Context, req IssueRequest) (*storage.ProofRecord, error)
	GenerateBalanceProof(ctx context.Context, req BalanceProofRequest) (*storage.ProofRecord, error)
	GetByShareID(ctx context.Context, shareID string) (*storage.ProofRecord, error)
	ListByWallet(ctx context.Context, address string) ([]*storage.ProofRecord, error)
	Delete(ctx context.Context, shareID string) error
}

// LoggingMiddleware returns a service middleware that logs all operations.
func LoggingMiddleware(logger *slog.Logger) func(loggingService) *loggingMiddleware {
	return func(next loggingService) *loggingMiddleware {
		return &loggingMiddleware{
			next:   next,
			logger: logger,
		}
	}
}

type loggingMiddleware struct {
	next   loggingService
	logger *slog.Logger
}

func (m *loggingMiddleware) Issue(ctx context.Context, req IssueRequest) (*storage.ProofRecord, error) {
	start := time.Now()
	rec, err := m.next.Issue(ctx, req)
	status := ""
	if rec != nil {
		status = string(rec.Status)
	}
	m.logger.Info("Issue",
		"wallet", req.Wallet,
		"token", req.Token,
		"minAmount", req.MinAmount,
		"status", status,
		"duration", time.Since(start),
		"error", err,
	)
	return rec, err
}

func (m *loggingMiddleware) GenerateBalanceProof(ctx context.Context, req BalanceProofRequest) (*storage.ProofRecord, error) {
	start := time.Now()
	rec, err := m.next.GenerateBalanceProof(ctx, req)
	m.logger.Info("GenerateBalanceProof",
		"wallet", req.WalletAddress,
		"minBalance", req.MinBalance,
		"duration", time.Since(start),
		"error", err,
	)
	return rec, err
}

func (m *loggingMiddleware) GetByShareID(ctx context.Context, shareID string) (*storage.ProofRecord, error) {
	start := time.Now()
	rec, err := m.next.GetByShareID(ctx, shareID)
	m.logger.Debug("GetByShareID",
		"shareId", shareID,
		"duration", time.Since(start),
		"error", err,
	)
	return rec, err
}

func (m *loggingMiddleware) ListByWallet(ctx context.Context, address string) ([]*storage.ProofRecord, error) {
	start := time.Now()
	recs, err := m.next.ListByWallet(ctx, address)
	m.logger.Debug("ListByWallet",
		"wallet", address,
		"count", len(recs),
		"duration", time.Since(start),
		"error", err,
	)
	return recs, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, shareID string) error {
	start := time.Now()
	err := m.next.Delete(ctx, shareID)
	m.logger.Info("Delete",
		"shareId", shareID,
		"duration", time.Since(start),
		"error", err,
	)
	return err
}
