package domain

import "time"

// PaymentStatus classifies how settled a work transaction is.
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusPartial, PaymentStatusUnpaid:
		return true
	}

	return false
}

// PaymentStatusFor derives the payment status from amounts. The unpaid
// branch is checked first, so a zero-price work with nothing paid is
// unpaid rather than paid. Overpayment collapses to paid.
func PaymentStatusFor(totalPrice, paidAmount int64) PaymentStatus {
	switch {
	case paidAmount <= 0:
		return PaymentStatusUnpaid
	case paidAmount >= totalPrice:
		return PaymentStatusPaid
	default:
		return PaymentStatusPartial
	}
}

// WorkTransaction is a billable unit of service performed for a client.
// Monetary amounts are integers in minor currency units.
type WorkTransaction struct {
	ID            string
	ClientID      string
	Date          WorkDate
	TotalPrice    int64
	PaidAmount    int64
	WorkTypes     []string
	Description   string
	PaymentStatus PaymentStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Remainder returns the outstanding amount this work contributes to the
// owning client's balance.
func (w *WorkTransaction) Remainder() int64 {
	return w.TotalPrice - w.PaidAmount
}

// WorkFilter narrows work-transaction listings. Zero values mean no filter.
// WorkTypes matches any-of against the multi-valued work type set.
type WorkFilter struct {
	ClientID      string
	WorkTypes     []string
	PaymentStatus PaymentStatus
	From          WorkDate
	To            WorkDate
	Limit         int
	Offset        int
}

// WorkStats aggregates the full work-transaction set by payment status.
type WorkStats struct {
	Count        int64
	TotalIncome  int64 // sum of paid amounts
	TotalDue     int64 // sum of remainders
	TotalValue   int64 // sum of total prices
	PaidCount    int64
	PartialCount int64
	UnpaidCount  int64
}

// MonthlyIncome is one calendar month of billing aggregates.
type MonthlyIncome struct {
	Month  time.Time // first day of the month, UTC
	Income int64     // collected in the month
	Billed int64     // total value of works dated in the month
	Count  int64
}

// WorkTypeStats aggregates works by a single work type. A work carrying
// several types contributes to each of them.
type WorkTypeStats struct {
	WorkType  string
	Count     int64
	Billed    int64
	Collected int64
}
