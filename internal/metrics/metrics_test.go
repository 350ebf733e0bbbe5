package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/lendingledger/internal/ledger"
	"github.com/mmynk/lendingledger/internal/models"
)

func TestObserveReturn(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveReturn(models.ReturnOutcome{OnTime: true})
	m.ObserveReturn(models.ReturnOutcome{FineAmount: 2, DaysLate: 2})
	m.ObserveReturn(models.ReturnOutcome{FineAmount: 3, DaysLate: 3})

	if got := testutil.ToFloat64(m.returns.WithLabelValues("on_time")); got != 1 {
		t.Errorf("on_time returns = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.returns.WithLabelValues("late")); got != 2 {
		t.Errorf("late returns = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.fines); got != 5 {
		t.Errorf("fines = %v, want 5", got)
	}
}

func TestObserveFailure(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveFailure("return book", ledger.ErrNoActiveLoan)
	m.ObserveFailure("return book", &ledger.StorageError{Op: "return book", Err: errors.New("disk")})
	m.ObserveFailure("borrow book", ledger.ErrAlreadyBorrowed)

	tests := []struct {
		op, kind string
	}{
		{"return book", "not_found"},
		{"return book", "storage"},
		{"borrow book", "conflict"},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(m.failures.WithLabelValues(tt.op, tt.kind)); got != 1 {
			t.Errorf("failures{%s,%s} = %v, want 1", tt.op, tt.kind, got)
		}
	}
}
