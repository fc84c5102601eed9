package domain

import (
	"errors"
	"time"
)

type Status string

const (
	StatusDraft      Status = "draft"
	StatusConfirmed  Status = "confirmed"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCancelled  Status = "cancelled"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type Reservation struct {
	ID            int64
	Status        Status
	GuestName     *string
	GuestPhone    *string
	HotelName     *string
	BookingNumber *string
	CheckIn       *time.Time
	CheckOut      *time.Time
	Nights        *int
	Rooms         *int
	Occupants     *int
	RoomType      *string
	MealPlan      *string
	TotalAmount   *float64
	Currency      *string // ISO 4217
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// transitions maps each status to the statuses reachable from it.
var transitions = map[Status][]Status{
	StatusDraft:     {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn: {StatusCheckedOut},
}

// Transition moves the reservation to the target status or returns
// ErrInvalidTransition if the move is not allowed from the current one.
func (r *Reservation) Transition(to Status) error {
	for _, s := range transitions[r.Status] {
		if s == to {
			r.Status = to
			return nil
		}
	}
	return ErrInvalidTransition
}
