package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Package is a purchasable configuration of a tour. It is owned by the
// tour CRUD collaborator and read-only inside the booking core.
type Package struct {
	ID              int64
	TourID          int64
	Name            string
	Price           decimal.Decimal
	MaxParticipants int
	Active          bool
	TourName        string
	Destination     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
