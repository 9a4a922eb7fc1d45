package services

import (
	"context"
	"errors"
	"time"

	"github.com/edumarket/course_market/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepository implements Repository on Postgres via GORM.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) Commit() error   { return t.db.Commit().Error }
func (t *gormTx) Rollback() error { return t.db.Rollback().Error }

func (r *GormRepository) BeginTx(ctx context.Context) (Tx, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &gormTx{db: tx}, nil
}

func dbOf(tx Tx) *gorm.DB {
	return tx.(*gormTx).db
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNoRow
	}
	return err
}

func (r *GormRepository) EnsureWallet(tx Tx, ownerID uuid.UUID) (*models.Wallet, error) {
	db := dbOf(tx)
	var wallet models.Wallet
	err := db.Where("owner_id = ?", ownerID).First(&wallet).Error
	if err == nil {
		return &wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wallet = models.Wallet{OwnerID: ownerID}
	if err := db.Create(&wallet).Error; err != nil {
		// A concurrent request may have created it first; the owner_id
		// uniqueness constraint makes the retry safe.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := db.Where("owner_id = ?", ownerID).First(&wallet).Error; err != nil {
				return nil, translate(err)
			}
			return &wallet, nil
		}
		return nil, err
	}
	return &wallet, nil
}

func (r *GormRepository) WalletForUpdate(tx Tx, walletID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	err := dbOf(tx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&wallet, "id = ?", walletID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &wallet, nil
}

func (r *GormRepository) SaveWallet(tx Tx, wallet *models.Wallet) error {
	return dbOf(tx).Save(wallet).Error
}

func (r *GormRepository) PlatformWalletForUpdate(tx Tx) (*models.PlatformWallet, error) {
	db := dbOf(tx)
	var platform models.PlatformWallet
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&platform, "slot = ?", 1).Error
	if err == nil {
		return &platform, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	platform = models.PlatformWallet{Slot: 1}
	if err := db.Create(&platform).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&platform, "slot = ?", 1).Error; err != nil {
		return nil, translate(err)
	}
	return &platform, nil
}

func (r *GormRepository) SavePlatformWallet(tx Tx, platform *models.PlatformWallet) error {
	return dbOf(tx).Save(platform).Error
}

func (r *GormRepository) CartForUpdate(tx Tx, cartID uuid.UUID) (*models.Cart, error) {
	db := dbOf(tx)
	var cart models.Cart
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&cart, "id = ?", cartID).Error; err != nil {
		return nil, translate(err)
	}
	if err := db.Where("cart_id = ?", cart.ID).Order("created_at asc").Find(&cart.Items).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepository) DeleteCart(tx Tx, cartID uuid.UUID) error {
	db := dbOf(tx)
	if err := db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	result := db.Delete(&models.Cart{}, "id = ?", cartID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoRow
	}
	return nil
}

func (r *GormRepository) CourseByID(tx Tx, courseID uuid.UUID) (*models.Course, error) {
	var course models.Course
	err := dbOf(tx).First(&course, "id = ?", courseID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

func (r *GormRepository) CreateOrder(tx Tx, order *models.Order) error {
	return dbOf(tx).Create(order).Error
}

func (r *GormRepository) CreatePayment(tx Tx, payment *models.Payment) error {
	return dbOf(tx).Create(payment).Error
}

func (r *GormRepository) PaymentForUpdateByCode(tx Tx, orderCode string) (*models.Payment, error) {
	var payment models.Payment
	err := dbOf(tx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&payment, "order_code = ?", orderCode).Error
	if err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (r *GormRepository) SavePayment(tx Tx, payment *models.Payment) error {
	return dbOf(tx).Save(payment).Error
}

func (r *GormRepository) PendingPaymentsBefore(tx Tx, cutoff time.Time) ([]models.Payment, error) {
	var stale []models.Payment
	err := dbOf(tx).
		Where("status = ? AND created_at < ?", models.PaymentPending, cutoff).
		Find(&stale).Error
	return stale, translate(err)
}

func (r *GormRepository) HasPendingWithdrawal(tx Tx, walletID uuid.UUID) (bool, error) {
	var count int64
	err := dbOf(tx).Model(&models.WithdrawalRequest{}).
		Where("wallet_id = ? AND status = ?", walletID, models.WithdrawalPending).
		Count(&count).Error
	return count > 0, err
}

func (r *GormRepository) CreateWithdrawal(tx Tx, request *models.WithdrawalRequest) error {
	return dbOf(tx).Create(request).Error
}

func (r *GormRepository) WithdrawalForUpdate(tx Tx, requestID uuid.UUID) (*models.WithdrawalRequest, error) {
	var request models.WithdrawalRequest
	err := dbOf(tx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&request, "id = ?", requestID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &request, nil
}

func (r *GormRepository) SaveWithdrawal(tx Tx, request *models.WithdrawalRequest) error {
	return dbOf(tx).Save(request).Error
}
