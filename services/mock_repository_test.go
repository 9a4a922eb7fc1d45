package services

import (
	"context"
	"time"

	"github.com/edumarket/course_market/models"
	"github.com/google/uuid"
)

// memRepo is an in-memory Repository for service tests. BeginTx snapshots the
// whole state and Rollback restores it, so the transactional guarantees the
// services rely on hold without a database.
type memRepo struct {
	state memState
}

type memState struct {
	wallets      map[uuid.UUID]models.Wallet
	walletOwners map[uuid.UUID]uuid.UUID
	platform     models.PlatformWallet
	carts        map[uuid.UUID]models.Cart
	courses      map[uuid.UUID]models.Course
	orders       []models.Order
	payments     map[string]models.Payment
	withdrawals  map[uuid.UUID]models.WithdrawalRequest
}

func newMemRepo() *memRepo {
	return &memRepo{state: memState{
		wallets:      make(map[uuid.UUID]models.Wallet),
		walletOwners: make(map[uuid.UUID]uuid.UUID),
		platform:     models.PlatformWallet{ID: 1, Slot: 1},
		carts:        make(map[uuid.UUID]models.Cart),
		courses:      make(map[uuid.UUID]models.Course),
		payments:     make(map[string]models.Payment),
		withdrawals:  make(map[uuid.UUID]models.WithdrawalRequest),
	}}
}

func (s memState) clone() memState {
	out := memState{
		wallets:      make(map[uuid.UUID]models.Wallet, len(s.wallets)),
		walletOwners: make(map[uuid.UUID]uuid.UUID, len(s.walletOwners)),
		platform:     s.platform,
		carts:        make(map[uuid.UUID]models.Cart, len(s.carts)),
		courses:      make(map[uuid.UUID]models.Course, len(s.courses)),
		orders:       make([]models.Order, len(s.orders)),
		payments:     make(map[string]models.Payment, len(s.payments)),
		withdrawals:  make(map[uuid.UUID]models.WithdrawalRequest, len(s.withdrawals)),
	}
	for k, v := range s.wallets {
		out.wallets[k] = v
	}
	for k, v := range s.walletOwners {
		out.walletOwners[k] = v
	}
	for k, v := range s.carts {
		v.Items = append([]models.CartItem(nil), v.Items...)
		out.carts[k] = v
	}
	for k, v := range s.courses {
		out.courses[k] = v
	}
	for i, v := range s.orders {
		v.Items = append([]models.OrderItem(nil), v.Items...)
		out.orders[i] = v
	}
	for k, v := range s.payments {
		out.payments[k] = v
	}
	for k, v := range s.withdrawals {
		out.withdrawals[k] = v
	}
	return out
}

type memTx struct {
	repo     *memRepo
	snapshot memState
	done     bool
}

func (t *memTx) Commit() error {
	t.done = true
	return nil
}

func (t *memTx) Rollback() error {
	if !t.done {
		t.repo.state = t.snapshot
		t.done = true
	}
	return nil
}

func (r *memRepo) BeginTx(ctx context.Context) (Tx, error) {
	return &memTx{repo: r, snapshot: r.state.clone()}, nil
}

func (r *memRepo) EnsureWallet(tx Tx, ownerID uuid.UUID) (*models.Wallet, error) {
	if id, ok := r.state.walletOwners[ownerID]; ok {
		w := r.state.wallets[id]
		return &w, nil
	}
	w := models.Wallet{ID: uuid.New(), OwnerID: ownerID}
	r.state.wallets[w.ID] = w
	r.state.walletOwners[ownerID] = w.ID
	return &w, nil
}

func (r *memRepo) WalletForUpdate(tx Tx, walletID uuid.UUID) (*models.Wallet, error) {
	w, ok := r.state.wallets[walletID]
	if !ok {
		return nil, ErrNoRow
	}
	return &w, nil
}

func (r *memRepo) SaveWallet(tx Tx, wallet *models.Wallet) error {
	r.state.wallets[wallet.ID] = *wallet
	return nil
}

func (r *memRepo) PlatformWalletForUpdate(tx Tx) (*models.PlatformWallet, error) {
	p := r.state.platform
	return &p, nil
}

func (r *memRepo) SavePlatformWallet(tx Tx, platform *models.PlatformWallet) error {
	r.state.platform = *platform
	return nil
}

func (r *memRepo) CartForUpdate(tx Tx, cartID uuid.UUID) (*models.Cart, error) {
	c, ok := r.state.carts[cartID]
	if !ok {
		return nil, ErrNoRow
	}
	c.Items = append([]models.CartItem(nil), c.Items...)
	return &c, nil
}

func (r *memRepo) DeleteCart(tx Tx, cartID uuid.UUID) error {
	if _, ok := r.state.carts[cartID]; !ok {
		return ErrNoRow
	}
	delete(r.state.carts, cartID)
	return nil
}

func (r *memRepo) CourseByID(tx Tx, courseID uuid.UUID) (*models.Course, error) {
	c, ok := r.state.courses[courseID]
	if !ok {
		return nil, ErrNoRow
	}
	return &c, nil
}

func (r *memRepo) CreateOrder(tx Tx, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	saved := *order
	saved.Items = append([]models.OrderItem(nil), order.Items...)
	r.state.orders = append(r.state.orders, saved)
	return nil
}

func (r *memRepo) CreatePayment(tx Tx, payment *models.Payment) error {
	r.state.payments[payment.OrderCode] = *payment
	return nil
}

func (r *memRepo) PaymentForUpdateByCode(tx Tx, orderCode string) (*models.Payment, error) {
	p, ok := r.state.payments[orderCode]
	if !ok {
		return nil, ErrNoRow
	}
	return &p, nil
}

func (r *memRepo) SavePayment(tx Tx, payment *models.Payment) error {
	r.state.payments[payment.OrderCode] = *payment
	return nil
}

func (r *memRepo) PendingPaymentsBefore(tx Tx, cutoff time.Time) ([]models.Payment, error) {
	var stale []models.Payment
	for _, p := range r.state.payments {
		if p.Status == models.PaymentPending && p.CreatedAt.Before(cutoff) {
			stale = append(stale, p)
		}
	}
	return stale, nil
}

func (r *memRepo) HasPendingWithdrawal(tx Tx, walletID uuid.UUID) (bool, error) {
	for _, w := range r.state.withdrawals {
		if w.WalletID == walletID && w.Status == models.WithdrawalPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) CreateWithdrawal(tx Tx, request *models.WithdrawalRequest) error {
	r.state.withdrawals[request.ID] = *request
	return nil
}

func (r *memRepo) WithdrawalForUpdate(tx Tx, requestID uuid.UUID) (*models.WithdrawalRequest, error) {
	w, ok := r.state.withdrawals[requestID]
	if !ok {
		return nil, ErrNoRow
	}
	return &w, nil
}

func (r *memRepo) SaveWithdrawal(tx Tx, request *models.WithdrawalRequest) error {
	r.state.withdrawals[request.ID] = *request
	return nil
}

// Test seeding helpers. They write directly to state, outside any transaction.

func (r *memRepo) seedWallet(ownerID uuid.UUID, balance float64) uuid.UUID {
	w := models.Wallet{ID: uuid.New(), OwnerID: ownerID, CurrentBalance: balance}
	r.state.wallets[w.ID] = w
	r.state.walletOwners[ownerID] = w.ID
	return w.ID
}

func (r *memRepo) seedCourse(tutorID uuid.UUID, title string, price float64) uuid.UUID {
	c := models.Course{ID: uuid.New(), TutorID: tutorID, Title: title, Price: price, IsActive: true}
	r.state.courses[c.ID] = c
	return c.ID
}

func (r *memRepo) seedCart(ownerID uuid.UUID, courseIDs ...uuid.UUID) uuid.UUID {
	cart := models.Cart{ID: uuid.New(), OwnerID: ownerID}
	for _, courseID := range courseIDs {
		cart.Items = append(cart.Items, models.CartItem{ID: uuid.New(), CartID: cart.ID, CourseID: courseID})
		cart.TotalPrice = round2(cart.TotalPrice + r.state.courses[courseID].Price)
	}
	r.state.carts[cart.ID] = cart
	return cart.ID
}

func (r *memRepo) walletOf(ownerID uuid.UUID) models.Wallet {
	return r.state.wallets[r.state.walletOwners[ownerID]]
}

// fakeCheckout stands in for the payment provider.
type fakeCheckout struct {
	err   error
	calls int
}

func (f *fakeCheckout) CreateCheckout(ctx context.Context, orderCode string, amount float64, description string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "https://pay.example.com/checkout/" + orderCode, nil
}

func newTestLedger(repo *memRepo) (*LedgerService, *fakeCheckout, *[]Event) {
	checkout := &fakeCheckout{}
	var events []Event
	svc := NewLedgerService(repo, checkout, 0.10, func(e Event) { events = append(events, e) })
	return svc, checkout, &events
}
