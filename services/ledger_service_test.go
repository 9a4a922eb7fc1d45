package services

import (
	"context"
	"testing"

	"github.com/edumarket/course_market/models"
	"github.com/google/uuid"
)

func TestSplitPriceConservation(t *testing.T) {
	svc, _, _ := newTestLedger(newMemRepo())

	prices := []float64{300000, 200000, 99.99, 0.01, 33.33, 1}
	for _, price := range prices {
		tutorCut, platformCut := svc.splitPrice(price)
		if got := round2(tutorCut + platformCut); got != price {
			t.Errorf("splitPrice(%v): cuts %v + %v = %v, want %v", price, tutorCut, platformCut, got, price)
		}
		if platformCut != round2(price*0.10) {
			t.Errorf("splitPrice(%v): platform cut %v, want %v", price, platformCut, round2(price*0.10))
		}
	}
}

func TestGetOrCreateWalletIsStable(t *testing.T) {
	repo := newMemRepo()
	svc, _, _ := newTestLedger(repo)
	ownerID := uuid.New()

	first, err := svc.GetOrCreateWallet(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("first GetOrCreateWallet: %v", err)
	}
	second, err := svc.GetOrCreateWallet(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("second GetOrCreateWallet: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("wallet recreated: %s then %s", first.ID, second.ID)
	}
	if first.CurrentBalance != 0 {
		t.Errorf("new wallet balance = %v, want 0", first.CurrentBalance)
	}
}

func TestCreditUpdatesBalanceAndBucket(t *testing.T) {
	repo := newMemRepo()
	svc, _, _ := newTestLedger(repo)
	ownerID := uuid.New()

	wallet, err := svc.Credit(context.Background(), ownerID, 150.50, models.BucketDeposit)
	if err != nil {
		t.Fatalf("Credit: %v", err)
	}
	if wallet.CurrentBalance != 150.50 {
		t.Errorf("balance = %v, want 150.50", wallet.CurrentBalance)
	}
	if wallet.TotalDeposit != 150.50 {
		t.Errorf("total deposit = %v, want 150.50", wallet.TotalDeposit)
	}
	if wallet.TotalEarning != 0 || wallet.TotalSpend != 0 || wallet.TotalWithdrawal != 0 {
		t.Errorf("unrelated buckets moved: %+v", wallet)
	}
}

func TestCreditRejectsNonPositiveAmount(t *testing.T) {
	svc, _, _ := newTestLedger(newMemRepo())

	for _, amount := range []float64{0, -10} {
		_, err := svc.Credit(context.Background(), uuid.New(), amount, models.BucketDeposit)
		if !IsKind(err, KindValidation) {
			t.Errorf("Credit(%v): err = %v, want validation error", amount, err)
		}
	}
}

func TestDebitFailsOnInsufficientBalance(t *testing.T) {
	repo := newMemRepo()
	svc, _, _ := newTestLedger(repo)
	ownerID := uuid.New()
	repo.seedWallet(ownerID, 40)

	_, err := svc.Debit(context.Background(), ownerID, 100, models.BucketSpend)
	if !IsKind(err, KindInsufficientFunds) {
		t.Fatalf("Debit: err = %v, want insufficient funds", err)
	}

	wallet := repo.walletOf(ownerID)
	if wallet.CurrentBalance != 40 {
		t.Errorf("balance after failed debit = %v, want 40", wallet.CurrentBalance)
	}
	if wallet.TotalSpend != 0 {
		t.Errorf("spend bucket after failed debit = %v, want 0", wallet.TotalSpend)
	}
}

func TestDebitAllowsDrainingToZero(t *testing.T) {
	repo := newMemRepo()
	svc, _, _ := newTestLedger(repo)
	ownerID := uuid.New()
	repo.seedWallet(ownerID, 75.25)

	wallet, err := svc.Debit(context.Background(), ownerID, 75.25, models.BucketSpend)
	if err != nil {
		t.Fatalf("Debit: %v", err)
	}
	if wallet.CurrentBalance != 0 {
		t.Errorf("balance = %v, want 0", wallet.CurrentBalance)
	}
	if wallet.TotalSpend != 75.25 {
		t.Errorf("total spend = %v, want 75.25", wallet.TotalSpend)
	}
}
