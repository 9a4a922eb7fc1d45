package models

import (
	"testing"
	"time"
)

func TestWithdrawalApprove(t *testing.T) {
	now := time.Now()
	w := &WithdrawalRequest{Status: WithdrawalPending}

	if err := w.Approve(now); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if w.Status != WithdrawalApproved {
		t.Errorf("status = %s, want approved", w.Status)
	}
	if w.ProcessedAt == nil || !w.ProcessedAt.Equal(now) {
		t.Errorf("processed_at = %v, want %v", w.ProcessedAt, now)
	}

	if err := w.Approve(now); err == nil {
		t.Error("Approve accepted an approved request")
	}
	if err := w.Reject(now); err == nil {
		t.Error("Reject accepted an approved request")
	}
}

func TestWithdrawalReject(t *testing.T) {
	now := time.Now()
	w := &WithdrawalRequest{Status: WithdrawalPending}

	if err := w.Reject(now); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if w.Status != WithdrawalRejected {
		t.Errorf("status = %s, want rejected", w.Status)
	}
	if err := w.Approve(now); err == nil {
		t.Error("Approve accepted a rejected request")
	}
}
