package services

import (
	"context"
	"fmt"

	"github.com/edumarket/course_market/models"
	"github.com/google/uuid"
)

// RequestWithdrawal files a payout request against the tutor's wallet. The
// balance is not debited yet; it moves only when an admin approves. A request
// may not exceed the current balance, and a wallet carries at most one
// pending request at a time.
func (s *LedgerService) RequestWithdrawal(ctx context.Context, ownerID uuid.UUID, amount float64) (*models.WithdrawalRequest, error) {
	if amount <= 0 {
		return nil, validationf("withdrawal amount must be positive, got %.2f", amount)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	wallet, err := s.repo.EnsureWallet(tx, ownerID)
	if err != nil {
		return nil, err
	}
	wallet, err = s.repo.WalletForUpdate(tx, wallet.ID)
	if err != nil {
		return nil, err
	}

	pending, err := s.repo.HasPendingWithdrawal(tx, wallet.ID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, conflictf("wallet already has a pending withdrawal request")
	}
	if amount > wallet.CurrentBalance {
		return nil, insufficientFundsf("balance %.2f is less than requested payout %.2f", wallet.CurrentBalance, amount)
	}

	request := &models.WithdrawalRequest{
		ID:          uuid.New(),
		WalletID:    wallet.ID,
		OwnerID:     ownerID,
		Amount:      round2(amount),
		Status:      models.WithdrawalPending,
		RequestedAt: s.now(),
	}
	if err := s.repo.CreateWithdrawal(tx, request); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return request, nil
}

// ApproveWithdrawal debits the wallet and pays the request out. The balance
// is re-checked here because it may have dropped since the request was filed
// (a settlement never lowers a tutor balance, but an earlier approval does).
func (s *LedgerService) ApproveWithdrawal(ctx context.Context, requestID uuid.UUID, adminNotes string) (*models.WithdrawalRequest, error) {
	return s.processWithdrawal(ctx, requestID, adminNotes, true)
}

// RejectWithdrawal closes the request without moving any balance.
func (s *LedgerService) RejectWithdrawal(ctx context.Context, requestID uuid.UUID, adminNotes string) (*models.WithdrawalRequest, error) {
	return s.processWithdrawal(ctx, requestID, adminNotes, false)
}

func (s *LedgerService) processWithdrawal(ctx context.Context, requestID uuid.UUID, adminNotes string, approve bool) (*models.WithdrawalRequest, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	request, err := s.repo.WithdrawalForUpdate(tx, requestID)
	if err != nil {
		if err == ErrNoRow {
			return nil, notFoundf("withdrawal request %s not found", requestID)
		}
		return nil, err
	}

	now := s.now()
	if approve {
		wallet, err := s.repo.WalletForUpdate(tx, request.WalletID)
		if err != nil {
			if err == ErrNoRow {
				return nil, notFoundf("wallet %s not found", request.WalletID)
			}
			return nil, err
		}
		if err := request.Approve(now); err != nil {
			return nil, conflictf("%v", err)
		}
		if err := applyDebit(wallet, request.Amount, models.BucketWithdrawal); err != nil {
			return nil, err
		}
		if err := s.repo.SaveWallet(tx, wallet); err != nil {
			return nil, err
		}

		platform, err := s.repo.PlatformWalletForUpdate(tx)
		if err != nil {
			return nil, err
		}
		platform.CashOut = round2(platform.CashOut + request.Amount)
		platform.CurrentBalance = round2(platform.CurrentBalance - request.Amount)
		if err := s.repo.SavePlatformWallet(tx, platform); err != nil {
			return nil, err
		}
	} else {
		if err := request.Reject(now); err != nil {
			return nil, conflictf("%v", err)
		}
	}

	if adminNotes != "" {
		request.AdminNotes = &adminNotes
	}
	if err := s.repo.SaveWithdrawal(tx, request); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	if approve {
		s.emit(Event{Type: EventWithdrawalProcessed, OwnerID: request.OwnerID, Amount: request.Amount, Reference: request.ID.String(), At: now})
	}
	return request, nil
}
