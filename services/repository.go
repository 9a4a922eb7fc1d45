package services

import (
	"context"
	"errors"
	"time"

	"github.com/edumarket/course_market/models"
	"github.com/google/uuid"
)

// ErrNoRow is returned by Repository lookups when the record does not exist.
// Services translate it into the caller-facing NotFound kind.
var ErrNoRow = errors.New("record not found")

// Tx is one storage transaction. Every mutating ledger operation runs inside
// exactly one Tx so partial failures never leave money half-moved.
type Tx interface {
	Commit() error
	Rollback() error
}

// Repository is the storage surface the ledger mutates through. Read-only
// projections (listings, analytics) go straight to the database and are not
// part of this contract. The *ForUpdate methods must hold a row lock until
// the transaction ends.
type Repository interface {
	BeginTx(ctx context.Context) (Tx, error)

	EnsureWallet(tx Tx, ownerID uuid.UUID) (*models.Wallet, error)
	WalletForUpdate(tx Tx, walletID uuid.UUID) (*models.Wallet, error)
	SaveWallet(tx Tx, wallet *models.Wallet) error

	PlatformWalletForUpdate(tx Tx) (*models.PlatformWallet, error)
	SavePlatformWallet(tx Tx, platform *models.PlatformWallet) error

	CartForUpdate(tx Tx, cartID uuid.UUID) (*models.Cart, error)
	DeleteCart(tx Tx, cartID uuid.UUID) error
	CourseByID(tx Tx, courseID uuid.UUID) (*models.Course, error)
	CreateOrder(tx Tx, order *models.Order) error

	CreatePayment(tx Tx, payment *models.Payment) error
	PaymentForUpdateByCode(tx Tx, orderCode string) (*models.Payment, error)
	SavePayment(tx Tx, payment *models.Payment) error
	PendingPaymentsBefore(tx Tx, cutoff time.Time) ([]models.Payment, error)

	HasPendingWithdrawal(tx Tx, walletID uuid.UUID) (bool, error)
	CreateWithdrawal(tx Tx, request *models.WithdrawalRequest) error
	WithdrawalForUpdate(tx Tx, requestID uuid.UUID) (*models.WithdrawalRequest, error)
	SaveWithdrawal(tx Tx, request *models.WithdrawalRequest) error
}

// CheckoutClient creates a hosted checkout link with the external payment
// provider. The provider later reports the outcome on the webhook.
type CheckoutClient interface {
	CreateCheckout(ctx context.Context, orderCode string, amount float64, description string) (string, error)
}
