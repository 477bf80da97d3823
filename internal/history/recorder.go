package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/tourbooking/internal/domain"
	"github.com/Domenick1991/tourbooking/internal/kafka"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const collectionName = "booking_history"

// TimelineEntry is one immutable status change in a booking's audit trail.
type TimelineEntry struct {
	Status    string    `bson:"status" json:"status"`
	Remarks   string    `bson:"remarks" json:"remarks"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// PaymentEntry is one immutable payment change. The initial entry carries
// the customer snapshot so the trail survives later user edits.
type PaymentEntry struct {
	Status           string    `bson:"status" json:"status"`
	Amount           string    `bson:"amount" json:"amount"`
	PaymentReference string    `bson:"payment_reference,omitempty" json:"payment_reference,omitempty"`
	CustomerName     string    `bson:"customer_name,omitempty" json:"customer_name,omitempty"`
	CustomerEmail    string    `bson:"customer_email,omitempty" json:"customer_email,omitempty"`
	Timestamp        time.Time `bson:"timestamp" json:"timestamp"`
}

// BookingHistory is the append-only audit document, one per booking
// reference. Snapshots are written once at creation; the timeline and
// payment arrays only ever grow.
type BookingHistory struct {
	ID               bson.ObjectID          `bson:"_id,omitempty" json:"-"`
	BookingReference string                 `bson:"booking_reference" json:"booking_reference"`
	CustomerID       int64                  `bson:"customer_id" json:"customer_id"`
	PackageDetails   *kafka.PackageSnapshot `bson:"package_details,omitempty" json:"package_details,omitempty"`
	Timeline         []TimelineEntry        `bson:"timeline" json:"timeline"`
	PaymentHistory   []PaymentEntry         `bson:"payment_history" json:"payment_history"`
	CreatedAt        time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time              `bson:"updated_at" json:"updated_at"`
}

type Recorder struct {
	col *mongo.Collection
}

func NewRecorder(db *mongo.Database) *Recorder {
	return &Recorder{col: db.Collection(collectionName)}
}

func (r *Recorder) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "booking_reference", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create booking_reference index: %w", err)
	}
	return nil
}

// Apply folds one booking event into the audit document. Creation events
// upsert; $setOnInsert keeps the snapshots stable if a creation event is
// ever redelivered. All other events append to an existing document and
// are a no-op when the document is missing, so a lost creation event never
// turns into an error loop.
func (r *Recorder) Apply(ctx context.Context, event kafka.BookingEvent) error {
	update, upsert := updateFor(event)
	opts := options.UpdateOne().SetUpsert(upsert)
	_, err := r.col.UpdateOne(ctx, bson.M{"booking_reference": event.Reference}, update, opts)
	if err != nil {
		return fmt.Errorf("apply %s for %s: %w", event.Type, event.Reference, err)
	}
	return nil
}

// Timeline returns the audit document for a booking reference. The
// recorder is best-effort, so a missing document is a normal outcome
// shortly after creation.
func (r *Recorder) Timeline(ctx context.Context, reference string) (*BookingHistory, error) {
	var doc BookingHistory
	err := r.col.FindOne(ctx, bson.M{"booking_reference": reference}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &domain.NotFoundError{Resource: "booking history", ID: reference}
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func updateFor(event kafka.BookingEvent) (bson.M, bool) {
	timeline := TimelineEntry{
		Status:    event.Status,
		Remarks:   remarkFor(event),
		Timestamp: event.OccurredAt,
	}

	push := bson.M{"timeline": timeline}
	if payment, ok := paymentFor(event); ok {
		push["payment_history"] = payment
	}

	update := bson.M{
		"$push": push,
		"$set":  bson.M{"updated_at": event.OccurredAt},
	}

	if event.Type != kafka.EventBookingCreated {
		return update, false
	}

	setOnInsert := bson.M{
		"booking_reference": event.Reference,
		"customer_id":       event.CustomerID,
		"created_at":        event.OccurredAt,
	}
	if event.Package != nil {
		setOnInsert["package_details"] = event.Package
	}
	update["$setOnInsert"] = setOnInsert
	return update, true
}

func remarkFor(event kafka.BookingEvent) string {
	switch event.Type {
	case kafka.EventBookingCreated:
		return fmt.Sprintf("Booking created for %d people", event.NumberOfPeople)
	case kafka.EventBookingConfirmed:
		return "Booking confirmed with payment reference: " + event.PaymentReference
	case kafka.EventBookingCancelled:
		return "Booking cancelled. Reason: " + event.Remark
	case kafka.EventBookingExpired:
		return "Booking automatically cancelled due to payment timeout"
	case kafka.EventBookingStatusUpdated:
		return "Booking status updated to: " + event.Status
	case kafka.EventPaymentStatusUpdated:
		return "Payment status updated to: " + event.PaymentStatus
	default:
		return event.Remark
	}
}

// paymentFor reports the payment entry an event contributes, if any.
// Creation seeds the payment history, confirmation records the completed
// payment, and a cancellation of a paid booking records the refund.
func paymentFor(event kafka.BookingEvent) (PaymentEntry, bool) {
	switch event.Type {
	case kafka.EventBookingCreated:
		entry := PaymentEntry{
			Status:    event.PaymentStatus,
			Amount:    event.TotalAmount,
			Timestamp: event.OccurredAt,
		}
		if event.Customer != nil {
			entry.CustomerName = event.Customer.FullName
			entry.CustomerEmail = event.Customer.Email
		}
		return entry, true
	case kafka.EventBookingConfirmed:
		return PaymentEntry{
			Status:           event.PaymentStatus,
			Amount:           event.TotalAmount,
			PaymentReference: event.PaymentReference,
			Timestamp:        event.OccurredAt,
		}, true
	case kafka.EventBookingCancelled, kafka.EventBookingExpired, kafka.EventPaymentStatusUpdated:
		if event.PaymentStatus == string(domain.PaymentStatusRefunded) {
			return PaymentEntry{
				Status:    event.PaymentStatus,
				Amount:    event.TotalAmount,
				Timestamp: event.OccurredAt,
			}, true
		}
	}
	return PaymentEntry{}, false
}
