package jobs

import (
	"context"
	"log"
	"time"

	"github.com/edumarket/course_market/services"
)

const stalePaymentAge = 24 * time.Hour

// ExpireStalePayments cancels deposits the provider never confirmed and frees
// the owning wallet's pending-deposit slot, so the student can try again.
func ExpireStalePayments() {
	log.Println("Running job: ExpireStalePayments...")

	expired, err := services.Ledger.ExpireStalePayments(context.Background(), stalePaymentAge)
	if err != nil {
		log.Printf("Error expiring stale payments: %v", err)
		return
	}
	log.Printf("Expired %d stale pending payment(s).", expired)
}
