package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/edumarket/course_market/models"
	"github.com/google/uuid"
)

// LedgerService owns every mutation of student, tutor and platform wallets.
// All operations are transactional: either the whole money movement lands or
// none of it does.
type LedgerService struct {
	repo           Repository
	checkout       CheckoutClient
	commissionRate float64
	onEvent        func(Event)
	now            func() time.Time
}

// Ledger is the process-wide instance, set once in main via InitLedger.
var Ledger *LedgerService

func InitLedger(repo Repository, checkout CheckoutClient, commissionRate float64, onEvent func(Event)) {
	Ledger = NewLedgerService(repo, checkout, commissionRate, onEvent)
}

func NewLedgerService(repo Repository, checkout CheckoutClient, commissionRate float64, onEvent func(Event)) *LedgerService {
	return &LedgerService{
		repo:           repo,
		checkout:       checkout,
		commissionRate: commissionRate,
		onEvent:        onEvent,
		now:            time.Now,
	}
}

func (s *LedgerService) emit(event Event) {
	if s.onEvent != nil {
		s.onEvent(event)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// splitPrice divides one course price between tutor and platform. The platform
// cut is rounded to cents and the tutor receives the exact remainder, so the
// two cuts always sum to the price.
func (s *LedgerService) splitPrice(price float64) (tutorCut, platformCut float64) {
	platformCut = round2(price * s.commissionRate)
	tutorCut = round2(price - platformCut)
	return tutorCut, platformCut
}

func applyCredit(wallet *models.Wallet, amount float64, bucket models.Bucket) {
	wallet.CurrentBalance = round2(wallet.CurrentBalance + amount)
	bumpBucket(wallet, amount, bucket)
}

func applyDebit(wallet *models.Wallet, amount float64, bucket models.Bucket) error {
	if amount > wallet.CurrentBalance {
		return insufficientFundsf("balance %.2f is less than debit amount %.2f", wallet.CurrentBalance, amount)
	}
	wallet.CurrentBalance = round2(wallet.CurrentBalance - amount)
	bumpBucket(wallet, amount, bucket)
	return nil
}

func bumpBucket(wallet *models.Wallet, amount float64, bucket models.Bucket) {
	switch bucket {
	case models.BucketEarning:
		wallet.TotalEarning = round2(wallet.TotalEarning + amount)
	case models.BucketDeposit:
		wallet.TotalDeposit = round2(wallet.TotalDeposit + amount)
	case models.BucketSpend:
		wallet.TotalSpend = round2(wallet.TotalSpend + amount)
	case models.BucketWithdrawal:
		wallet.TotalWithdrawal = round2(wallet.TotalWithdrawal + amount)
	}
}

// GetOrCreateWallet returns the principal's wallet, creating it on first
// access.
func (s *LedgerService) GetOrCreateWallet(ctx context.Context, ownerID uuid.UUID) (*models.Wallet, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	wallet, err := s.repo.EnsureWallet(tx, ownerID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return wallet, nil
}

// Credit adds amount to the wallet balance and the named bucket.
func (s *LedgerService) Credit(ctx context.Context, ownerID uuid.UUID, amount float64, bucket models.Bucket) (*models.Wallet, error) {
	if amount <= 0 {
		return nil, validationf("credit amount must be positive, got %.2f", amount)
	}
	return s.mutateWallet(ctx, ownerID, func(wallet *models.Wallet) error {
		applyCredit(wallet, amount, bucket)
		return nil
	})
}

// Debit removes amount from the wallet balance, failing with
// InsufficientFunds when the balance would go below zero.
func (s *LedgerService) Debit(ctx context.Context, ownerID uuid.UUID, amount float64, bucket models.Bucket) (*models.Wallet, error) {
	if amount <= 0 {
		return nil, validationf("debit amount must be positive, got %.2f", amount)
	}
	return s.mutateWallet(ctx, ownerID, func(wallet *models.Wallet) error {
		return applyDebit(wallet, amount, bucket)
	})
}

func (s *LedgerService) mutateWallet(ctx context.Context, ownerID uuid.UUID, mutate func(*models.Wallet) error) (*models.Wallet, error) {
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
	if err := mutate(wallet); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWallet(tx, wallet); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return wallet, nil
}
