package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

type Booking struct {
	ID             int64
	Reference      string
	PackageID      int64
	CustomerID     int64
	NumberOfPeople int
	TotalAmount    decimal.Decimal
	Status         BookingStatus
	PaymentStatus  PaymentStatus
	BookingDate    time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

var validNext = map[BookingStatus]map[BookingStatus]bool{
	BookingStatusPending:   {BookingStatusConfirmed: true, BookingStatusCancelled: true},
	BookingStatusConfirmed: {BookingStatusCancelled: true},
	BookingStatusCancelled: {},
}

func CanTransition(from, to BookingStatus) bool {
	return validNext[from][to]
}

// Confirm moves a pending booking to CONFIRMED and marks its payment
// completed. Only pending bookings can be confirmed.
func (b *Booking) Confirm() error {
	if b.Status != BookingStatusPending {
		return &BusinessRuleError{Rule: "only pending bookings can be confirmed, current status: " + string(b.Status)}
	}
	b.Status = BookingStatusConfirmed
	b.PaymentStatus = PaymentStatusCompleted
	return nil
}

// Cancel moves a booking to CANCELLED. A completed payment becomes
// REFUNDED, any other payment status is left untouched. CANCELLED is
// terminal.
func (b *Booking) Cancel() error {
	if b.Status == BookingStatusCancelled {
		return &BusinessRuleError{Rule: "booking is already cancelled"}
	}
	b.Status = BookingStatusCancelled
	if b.PaymentStatus == PaymentStatusCompleted {
		b.PaymentStatus = PaymentStatusRefunded
	}
	return nil
}
