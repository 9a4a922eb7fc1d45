package services

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/edumarket/course_market/models"
	"github.com/edumarket/course_market/utils"
	"github.com/google/uuid"
)

// SettleCart converts the buyer's cart into a paid order: debits the buyer,
// credits each course's tutor with their share, accrues the platform
// commission, writes the immutable order snapshot and deletes the cart. The
// whole movement happens in one transaction; a failed lookup or an
// insufficient balance leaves every wallet untouched.
func (s *LedgerService) SettleCart(ctx context.Context, buyerID, cartID uuid.UUID) (*models.Order, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	cart, err := s.repo.CartForUpdate(tx, cartID)
	if err != nil {
		if err == ErrNoRow {
			return nil, notFoundf("cart %s not found", cartID)
		}
		return nil, err
	}
	if cart.OwnerID != buyerID {
		return nil, notFoundf("cart %s not found", cartID)
	}
	if len(cart.Items) == 0 {
		return nil, validationf("cart %s is empty", cartID)
	}

	// Resolve every course before touching any wallet, so a vanished
	// course fails the settlement without paying anyone.
	type line struct {
		course      *models.Course
		tutorCut    float64
		platformCut float64
	}
	lines := make([]line, 0, len(cart.Items))
	var total float64
	for _, item := range cart.Items {
		course, err := s.repo.CourseByID(tx, item.CourseID)
		if err != nil {
			if err == ErrNoRow {
				return nil, notFoundf("course %s no longer exists", item.CourseID)
			}
			return nil, err
		}
		tutorCut, platformCut := s.splitPrice(course.Price)
		lines = append(lines, line{course: course, tutorCut: tutorCut, platformCut: platformCut})
		total = round2(total + course.Price)
	}

	buyerWallet, err := s.repo.EnsureWallet(tx, buyerID)
	if err != nil {
		return nil, err
	}
	tutorWalletIDs := make(map[uuid.UUID]uuid.UUID, len(lines))
	for _, l := range lines {
		if _, ok := tutorWalletIDs[l.course.TutorID]; ok {
			continue
		}
		w, err := s.repo.EnsureWallet(tx, l.course.TutorID)
		if err != nil {
			return nil, err
		}
		tutorWalletIDs[l.course.TutorID] = w.ID
	}

	// Lock every wallet in ascending id order so two settlements that share
	// wallets cannot deadlock each other.
	lockIDs := make([]uuid.UUID, 0, len(tutorWalletIDs)+1)
	lockIDs = append(lockIDs, buyerWallet.ID)
	for _, id := range tutorWalletIDs {
		if id != buyerWallet.ID {
			lockIDs = append(lockIDs, id)
		}
	}
	sort.Slice(lockIDs, func(i, j int) bool {
		return bytes.Compare(lockIDs[i][:], lockIDs[j][:]) < 0
	})
	locked := make(map[uuid.UUID]*models.Wallet, len(lockIDs))
	for _, id := range lockIDs {
		w, err := s.repo.WalletForUpdate(tx, id)
		if err != nil {
			if err == ErrNoRow {
				return nil, notFoundf("wallet %s not found", id)
			}
			return nil, err
		}
		locked[id] = w
	}

	buyer := locked[buyerWallet.ID]
	if err := applyDebit(buyer, total, models.BucketSpend); err != nil {
		return nil, err
	}

	var commission float64
	for _, l := range lines {
		tutor := locked[tutorWalletIDs[l.course.TutorID]]
		applyCredit(tutor, l.tutorCut, models.BucketEarning)
		commission = round2(commission + l.platformCut)
	}

	for _, id := range lockIDs {
		if err := s.repo.SaveWallet(tx, locked[id]); err != nil {
			return nil, err
		}
	}

	// Platform wallet is always locked last; its position in the lock order
	// is the same for every settlement.
	platform, err := s.repo.PlatformWalletForUpdate(tx)
	if err != nil {
		return nil, err
	}
	platform.TotalEarning = round2(platform.TotalEarning + commission)
	if err := s.repo.SavePlatformWallet(tx, platform); err != nil {
		return nil, err
	}

	now := s.now()
	order := &models.Order{
		OrderNumber: utils.GenerateOrderNumber(),
		OwnerID:     buyerID,
		OrderDate:   now,
		TotalPrice:  total,
	}
	for _, l := range lines {
		order.Items = append(order.Items, models.OrderItem{
			CourseID:    l.course.ID,
			TutorID:     l.course.TutorID,
			Price:       l.course.Price,
			TutorCut:    l.tutorCut,
			PlatformCut: l.platformCut,
			CourseTitle: l.course.Title,
		})
	}
	if err := s.repo.CreateOrder(tx, order); err != nil {
		return nil, err
	}

	if err := s.repo.DeleteCart(tx, cart.ID); err != nil {
		if err == ErrNoRow {
			return nil, notFoundf("cart %s not found", cartID)
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.emit(Event{
		Type:      EventOrderSettled,
		OwnerID:   buyerID,
		Amount:    total,
		Reference: order.OrderNumber,
		At:        now,
	})
	return order, nil
}
