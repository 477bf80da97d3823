package history

import (
	"testing"
	"time"

	"github.com/Domenick1991/tourbooking/internal/kafka"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestUpdateFor_Creation(t *testing.T) {
	now := time.Now()
	event := kafka.BookingEvent{
		Type:           kafka.EventBookingCreated,
		Reference:      "BK1700000000000ABCDEF01",
		CustomerID:     7,
		NumberOfPeople: 3,
		Status:         "PENDING",
		PaymentStatus:  "PENDING",
		TotalAmount:    "285",
		OccurredAt:     now,
		Package:        &kafka.PackageSnapshot{PackageID: 4, PackageName: "Summit Trek"},
		Customer:       &kafka.CustomerSnapshot{CustomerID: 7, FullName: "Ada Example", Email: "ada@example.com"},
	}

	update, upsert := updateFor(event)

	assert.True(t, upsert)
	setOnInsert := update["$setOnInsert"].(bson.M)
	assert.Equal(t, event.Reference, setOnInsert["booking_reference"])
	assert.Equal(t, int64(7), setOnInsert["customer_id"])
	assert.Equal(t, event.Package, setOnInsert["package_details"])

	push := update["$push"].(bson.M)
	timeline := push["timeline"].(TimelineEntry)
	assert.Equal(t, "PENDING", timeline.Status)
	assert.Equal(t, "Booking created for 3 people", timeline.Remarks)

	payment := push["payment_history"].(PaymentEntry)
	assert.Equal(t, "285", payment.Amount)
	assert.Equal(t, "Ada Example", payment.CustomerName)
}

func TestUpdateFor_ConfirmAppendsPayment(t *testing.T) {
	event := kafka.BookingEvent{
		Type:             kafka.EventBookingConfirmed,
		Reference:        "BK1700000000000ABCDEF01",
		Status:           "CONFIRMED",
		PaymentStatus:    "COMPLETED",
		TotalAmount:      "427.5",
		PaymentReference: "PAY-42",
		OccurredAt:       time.Now(),
	}

	update, upsert := updateFor(event)

	assert.False(t, upsert)
	assert.NotContains(t, update, "$setOnInsert")

	push := update["$push"].(bson.M)
	timeline := push["timeline"].(TimelineEntry)
	assert.Equal(t, "Booking confirmed with payment reference: PAY-42", timeline.Remarks)

	payment := push["payment_history"].(PaymentEntry)
	assert.Equal(t, "COMPLETED", payment.Status)
	assert.Equal(t, "PAY-42", payment.PaymentReference)
}

func TestUpdateFor_CancelWithoutRefundHasNoPaymentEntry(t *testing.T) {
	event := kafka.BookingEvent{
		Type:          kafka.EventBookingCancelled,
		Reference:     "BK1700000000000ABCDEF01",
		Status:        "CANCELLED",
		PaymentStatus: "PENDING",
		Remark:        "customer request",
		OccurredAt:    time.Now(),
	}

	update, _ := updateFor(event)

	push := update["$push"].(bson.M)
	assert.NotContains(t, push, "payment_history")
	timeline := push["timeline"].(TimelineEntry)
	assert.Equal(t, "Booking cancelled. Reason: customer request", timeline.Remarks)
}

func TestUpdateFor_CancelWithRefundRecordsRefund(t *testing.T) {
	event := kafka.BookingEvent{
		Type:          kafka.EventBookingCancelled,
		Reference:     "BK1700000000000ABCDEF01",
		Status:        "CANCELLED",
		PaymentStatus: "REFUNDED",
		TotalAmount:   "427.5",
		Remark:        "weather",
		OccurredAt:    time.Now(),
	}

	update, _ := updateFor(event)

	push := update["$push"].(bson.M)
	payment := push["payment_history"].(PaymentEntry)
	assert.Equal(t, "REFUNDED", payment.Status)
	assert.Equal(t, "427.5", payment.Amount)
}

func TestUpdateFor_ExpiryRemark(t *testing.T) {
	event := kafka.BookingEvent{
		Type:          kafka.EventBookingExpired,
		Reference:     "BK1700000000000ABCDEF01",
		Status:        "CANCELLED",
		PaymentStatus: "PENDING",
		OccurredAt:    time.Now(),
	}

	update, upsert := updateFor(event)

	assert.False(t, upsert)
	push := update["$push"].(bson.M)
	timeline := push["timeline"].(TimelineEntry)
	assert.Equal(t, "Booking automatically cancelled due to payment timeout", timeline.Remarks)
}
