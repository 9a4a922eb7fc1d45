package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestSettleCartMovesEveryCut(t *testing.T) {
	repo := newMemRepo()
	svc, _, events := newTestLedger(repo)

	buyerID := uuid.New()
	tutorA := uuid.New()
	tutorB := uuid.New()
	repo.seedWallet(buyerID, 1000000)
	courseA := repo.seedCourse(tutorA, "Go Fundamentals", 300000)
	courseB := repo.seedCourse(tutorB, "SQL Deep Dive", 200000)
	cartID := repo.seedCart(buyerID, courseA, courseB)

	order, err := svc.SettleCart(context.Background(), buyerID, cartID)
	if err != nil {
		t.Fatalf("SettleCart: %v", err)
	}

	if order.TotalPrice != 500000 {
		t.Errorf("order total = %v, want 500000", order.TotalPrice)
	}
	if len(order.Items) != 2 {
		t.Fatalf("order items = %d, want 2", len(order.Items))
	}
	if order.OrderNumber == "" {
		t.Error("order number is empty")
	}

	buyer := repo.walletOf(buyerID)
	if buyer.CurrentBalance != 500000 {
		t.Errorf("buyer balance = %v, want 500000", buyer.CurrentBalance)
	}
	if buyer.TotalSpend != 500000 {
		t.Errorf("buyer total spend = %v, want 500000", buyer.TotalSpend)
	}

	walletA := repo.walletOf(tutorA)
	if walletA.CurrentBalance != 270000 || walletA.TotalEarning != 270000 {
		t.Errorf("tutor A wallet = balance %v earning %v, want 270000/270000", walletA.CurrentBalance, walletA.TotalEarning)
	}
	walletB := repo.walletOf(tutorB)
	if walletB.CurrentBalance != 180000 || walletB.TotalEarning != 180000 {
		t.Errorf("tutor B wallet = balance %v earning %v, want 180000/180000", walletB.CurrentBalance, walletB.TotalEarning)
	}

	if repo.state.platform.TotalEarning != 50000 {
		t.Errorf("platform earning = %v, want 50000", repo.state.platform.TotalEarning)
	}
	if repo.state.platform.CurrentBalance != 0 {
		t.Errorf("platform balance moved on settlement: %v", repo.state.platform.CurrentBalance)
	}

	if _, ok := repo.state.carts[cartID]; ok {
		t.Error("cart still exists after settlement")
	}

	if len(*events) != 1 || (*events)[0].Type != EventOrderSettled {
		t.Errorf("events = %+v, want one order_settled", *events)
	}
}

func TestSettleCartSnapshotsOrderItems(t *testing.T) {
	repo := newMemRepo()
	svc, _, _ := newTestLedger(repo)

	buyerID := uuid.New()
	tutorID := uuid.New()
	repo.seedWallet(buyerID, 1000)
	courseID := repo.seedCourse(tutorID, "Testing in Go", 100)
	cartID := repo.seedCart(buyerID, courseID)

	order, err := svc.SettleCart(context.Background(), buyerID, cartID)
	if err != nil {
		t.Fatalf("SettleCart: %v", err)
	}

	item := order.Items[0]
	if item.Price != 100 || item.TutorCut != 90 || item.PlatformCut != 10 {
		t.Errorf("item cuts = %v/%v/%v, want 100/90/10", item.Price, item.TutorCut, item.PlatformCut)
	}
	if item.CourseTitle != "Testing in Go" {
		t.Errorf("item title = %q", item.CourseTitle)
	}
	if item.TutorID != tutorID {
		t.Errorf("item tutor = %s, want %s", item.TutorID, tutorID)
	}
}

func TestSettleCartTwiceFailsSecondTime(t *testing.T) {
	repo := newMemRepo()
	svc, _, _ := newTestLedger(repo)

	buyerID := uuid.New()
	repo.seedWallet(buyerID, 1000)
	courseID := repo.seedCourse(uuid.New(), "Concurrency", 100)
	cartID := repo.seedCart(buyerID, courseID)

	if _, err := svc.SettleCart(context.Background(), buyerID, cartID); err != nil {
		t.Fatalf("first SettleCart: %v", err)
	}
	_, err := svc.SettleCart(context.Background(), buyerID, cartID)
	if !IsKind(err, KindNotFound) {
		t.Fatalf("second SettleCart: err = %v, want not found", err)
	}

	buyer := repo.walletOf(buyerID)
	if buyer.CurrentBalance != 900 {
		t.Errorf("buyer charged twice: balance = %v, want 900", buyer.CurrentBalance)
	}
}

func TestSettleCartRejectsForeignCart(t *testing.T) {
	repo := newMemRepo()
	svc, _, _ := newTestLedger(repo)

	ownerID := uuid.New()
	repo.seedWallet(ownerID, 1000)
	courseID := repo.seedCourse(uuid.New(), "Networking", 100)
	cartID := repo.seedCart(ownerID, courseID)

	_, err := svc.SettleCart(context.Background(), uuid.New(), cartID)
	if !IsKind(err, KindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	if _, ok := repo.state.carts[cartID]; !ok {
		t.Error("cart deleted by a stranger's settlement attempt")
	}
}

func TestSettleCartRejectsEmptyCart(t *testing.T) {
	repo := newMemRepo()
	svc, _, _ := newTestLedger(repo)

	buyerID := uuid.New()
	repo.seedWallet(buyerID, 1000)
	cartID := repo.seedCart(buyerID)

	_, err := svc.SettleCart(context.Background(), buyerID, cartID)
	if !IsKind(err, KindValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestSettleCartInsufficientFundsLeavesEverythingUntouched(t *testing.T) {
	repo := newMemRepo()
	svc, _, events := newTestLedger(repo)

	buyerID := uuid.New()
	tutorID := uuid.New()
	repo.seedWallet(buyerID, 50)
	courseID := repo.seedCourse(tutorID, "Distributed Systems", 100)
	cartID := repo.seedCart(buyerID, courseID)

	_, err := svc.SettleCart(context.Background(), buyerID, cartID)
	if !IsKind(err, KindInsufficientFunds) {
		t.Fatalf("err = %v, want insufficient funds", err)
	}

	if got := repo.walletOf(buyerID).CurrentBalance; got != 50 {
		t.Errorf("buyer balance = %v, want 50", got)
	}
	if got := repo.walletOf(tutorID).CurrentBalance; got != 0 {
		t.Errorf("tutor balance = %v, want 0", got)
	}
	if repo.state.platform.TotalEarning != 0 {
		t.Errorf("platform earning = %v, want 0", repo.state.platform.TotalEarning)
	}
	if _, ok := repo.state.carts[cartID]; !ok {
		t.Error("cart deleted despite failed settlement")
	}
	if len(repo.state.orders) != 0 {
		t.Errorf("order created despite failed settlement: %d", len(repo.state.orders))
	}
	if len(*events) != 0 {
		t.Errorf("events emitted despite failed settlement: %+v", *events)
	}
}

func TestSettleCartVanishedCourseRollsBack(t *testing.T) {
	repo := newMemRepo()
	svc, _, _ := newTestLedger(repo)

	buyerID := uuid.New()
	tutorID := uuid.New()
	repo.seedWallet(buyerID, 1000)
	courseA := repo.seedCourse(tutorID, "Kept", 100)
	courseB := repo.seedCourse(tutorID, "Dropped", 100)
	cartID := repo.seedCart(buyerID, courseA, courseB)
	delete(repo.state.courses, courseB)

	_, err := svc.SettleCart(context.Background(), buyerID, cartID)
	if !IsKind(err, KindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	if got := repo.walletOf(buyerID).CurrentBalance; got != 1000 {
		t.Errorf("buyer balance = %v, want 1000", got)
	}
	if got := repo.walletOf(tutorID).TotalEarning; got != 0 {
		t.Errorf("tutor earning = %v, want 0", got)
	}
}

func TestSettleCartBuyerCanBuyFromManyTutors(t *testing.T) {
	repo := newMemRepo()
	svc, _, _ := newTestLedger(repo)

	buyerID := uuid.New()
	repo.seedWallet(buyerID, 10000)

	tutors := make([]uuid.UUID, 5)
	courses := make([]uuid.UUID, 5)
	for i := range tutors {
		tutors[i] = uuid.New()
		courses[i] = repo.seedCourse(tutors[i], "Course", 100)
	}
	cartID := repo.seedCart(buyerID, courses...)

	order, err := svc.SettleCart(context.Background(), buyerID, cartID)
	if err != nil {
		t.Fatalf("SettleCart: %v", err)
	}
	if order.TotalPrice != 500 {
		t.Errorf("order total = %v, want 500", order.TotalPrice)
	}
	for _, tutorID := range tutors {
		if got := repo.walletOf(tutorID).CurrentBalance; got != 90 {
			t.Errorf("tutor %s balance = %v, want 90", tutorID, got)
		}
	}
	if repo.state.platform.TotalEarning != 50 {
		t.Errorf("platform earning = %v, want 50", repo.state.platform.TotalEarning)
	}
}
