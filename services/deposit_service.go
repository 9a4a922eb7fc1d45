package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/edumarket/course_market/models"
	"github.com/google/uuid"
)

// Provider-reported terminal statuses on the deposit webhook.
const (
	ProviderStatusPaid      = "PAID"
	ProviderStatusCancelled = "CANCELLED"
)

// CreateDeposit opens a pending deposit for the owner's wallet and asks the
// payment provider for a checkout link. A wallet can carry only one pending
// deposit at a time.
func (s *LedgerService) CreateDeposit(ctx context.Context, ownerID uuid.UUID, amount float64, description string) (*models.Payment, error) {
	if amount <= 0 {
		return nil, validationf("deposit amount must be positive, got %.2f", amount)
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
	if wallet.PendingPaymentID != nil {
		return nil, conflictf("wallet already has an outstanding deposit")
	}

	payment := &models.Payment{
		ID:          uuid.New(),
		OrderCode:   uuid.NewString(),
		OwnerID:     ownerID,
		WalletID:    wallet.ID,
		Status:      models.PaymentPending,
		Amount:      round2(amount),
		Description: description,
	}

	checkoutURL, err := s.checkout.CreateCheckout(ctx, payment.OrderCode, payment.Amount, description)
	if err != nil {
		return nil, fmt.Errorf("create checkout: %w", err)
	}
	payment.CheckoutURL = &checkoutURL

	if err := s.repo.CreatePayment(tx, payment); err != nil {
		return nil, err
	}
	wallet.PendingPaymentID = &payment.ID
	if err := s.repo.SaveWallet(tx, wallet); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return payment, nil
}

// ConfirmDeposit applies the provider's terminal verdict for a pending
// deposit. It is idempotent: a payment that already reached a terminal state
// is returned as-is with applied=false, and no balance moves twice. The
// provider may retry the webhook at will.
func (s *LedgerService) ConfirmDeposit(ctx context.Context, orderCode, providerStatus string) (payment *models.Payment, applied bool, err error) {
	if providerStatus != ProviderStatusPaid && providerStatus != ProviderStatusCancelled {
		return nil, false, validationf("unknown provider status %q", providerStatus)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	payment, err = s.repo.PaymentForUpdateByCode(tx, orderCode)
	if err != nil {
		if err == ErrNoRow {
			return nil, false, notFoundf("payment with order code %s not found", orderCode)
		}
		return nil, false, err
	}
	if payment.Terminal() {
		return payment, false, nil
	}

	wallet, err := s.repo.WalletForUpdate(tx, payment.WalletID)
	if err != nil {
		if err == ErrNoRow {
			return nil, false, notFoundf("wallet %s not found", payment.WalletID)
		}
		return nil, false, err
	}

	if providerStatus == ProviderStatusCancelled {
		if err := payment.MarkCancelled(); err != nil {
			return nil, false, conflictf("%v", err)
		}
		if err := s.repo.SavePayment(tx, payment); err != nil {
			return nil, false, err
		}
		wallet.PendingPaymentID = nil
		if err := s.repo.SaveWallet(tx, wallet); err != nil {
			return nil, false, err
		}
		if err := tx.Commit(); err != nil {
			return nil, false, fmt.Errorf("commit: %w", err)
		}
		s.emit(Event{Type: EventDepositCancelled, OwnerID: payment.OwnerID, Amount: payment.Amount, Reference: payment.OrderCode, At: s.now()})
		return payment, true, nil
	}

	if err := payment.MarkPaid(); err != nil {
		return nil, false, conflictf("%v", err)
	}
	if err := s.repo.SavePayment(tx, payment); err != nil {
		return nil, false, err
	}

	applyCredit(wallet, payment.Amount, models.BucketDeposit)
	wallet.PendingPaymentID = nil
	if err := s.repo.SaveWallet(tx, wallet); err != nil {
		return nil, false, err
	}

	platform, err := s.repo.PlatformWalletForUpdate(tx)
	if err != nil {
		return nil, false, err
	}
	platform.CashIn = round2(platform.CashIn + payment.Amount)
	platform.CurrentBalance = round2(platform.CurrentBalance + payment.Amount)
	if err := s.repo.SavePlatformWallet(tx, platform); err != nil {
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit: %w", err)
	}
	s.emit(Event{Type: EventDepositConfirmed, OwnerID: payment.OwnerID, Amount: payment.Amount, Reference: payment.OrderCode, At: s.now()})
	return payment, true, nil
}

// ExpireStalePayments cancels pending deposits older than maxAge and frees
// the owning wallets' pending-deposit slots so the students can try again.
// Each payment is cancelled in its own transaction; one the webhook settled
// since the scan is skipped.
func (s *LedgerService) ExpireStalePayments(ctx context.Context, maxAge time.Duration) (int, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	stale, err := s.repo.PendingPaymentsBefore(tx, s.now().Add(-maxAge))
	tx.Rollback()
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, payment := range stale {
		cancelled, err := s.expirePayment(ctx, payment.OrderCode)
		if err != nil {
			log.Printf("Error expiring payment %s: %v", payment.OrderCode, err)
			continue
		}
		if cancelled {
			expired++
		}
	}
	return expired, nil
}

func (s *LedgerService) expirePayment(ctx context.Context, orderCode string) (bool, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	payment, err := s.repo.PaymentForUpdateByCode(tx, orderCode)
	if err != nil {
		if err == ErrNoRow {
			return false, nil
		}
		return false, err
	}
	// The webhook may have confirmed it since the scan.
	if payment.Terminal() {
		return false, nil
	}
	if err := payment.MarkCancelled(); err != nil {
		return false, nil
	}
	if err := s.repo.SavePayment(tx, payment); err != nil {
		return false, err
	}

	wallet, err := s.repo.WalletForUpdate(tx, payment.WalletID)
	if err != nil && err != ErrNoRow {
		return false, err
	}
	if err == nil && wallet.PendingPaymentID != nil && *wallet.PendingPaymentID == payment.ID {
		wallet.PendingPaymentID = nil
		if err := s.repo.SaveWallet(tx, wallet); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	s.emit(Event{Type: EventDepositCancelled, OwnerID: payment.OwnerID, Amount: payment.Amount, Reference: payment.OrderCode, At: s.now()})
	return true, nil
}
