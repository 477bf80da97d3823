package kafka

import "time"

const (
	EventBookingCreated       = "booking_created"
	EventBookingConfirmed     = "booking_confirmed"
	EventBookingCancelled     = "booking_cancelled"
	EventBookingExpired       = "booking_expired"
	EventBookingStatusUpdated = "booking_status_updated"
	EventPaymentStatusUpdated = "payment_status_updated"
)

// PackageSnapshot carries the package/tour details as they were at booking
// time, so the audit trail stays meaningful after later package changes.
type PackageSnapshot struct {
	PackageID   int64  `json:"package_id"`
	PackageName string `json:"package_name"`
	Price       string `json:"price"`
	TourID      int64  `json:"tour_id"`
	TourName    string `json:"tour_name"`
	Destination string `json:"destination"`
}

type CustomerSnapshot struct {
	CustomerID int64  `json:"customer_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
}

// BookingEvent is published after every successful lifecycle operation,
// keyed by booking reference so entries for one booking keep their order.
type BookingEvent struct {
	Type             string            `json:"type"`
	Reference        string            `json:"reference"`
	BookingID        int64             `json:"booking_id"`
	PackageID        int64             `json:"package_id"`
	CustomerID       int64             `json:"customer_id"`
	NumberOfPeople   int               `json:"number_of_people"`
	Status           string            `json:"status"`
	PaymentStatus    string            `json:"payment_status"`
	TotalAmount      string            `json:"total_amount"`
	Remark           string            `json:"remark,omitempty"`
	PaymentReference string            `json:"payment_reference,omitempty"`
	OccurredAt       time.Time         `json:"occurred_at"`
	Package          *PackageSnapshot  `json:"package,omitempty"`
	Customer         *CustomerSnapshot `json:"customer,omitempty"`
}
