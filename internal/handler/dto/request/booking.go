package request

import (
	"strings"
	"time"

	"glowbook/internal/domain/booking"
	"glowbook/internal/domain/money"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	StylistID       uuid.UUID `json:"stylist_id" binding:"required"`
	ProfileID       uuid.UUID `json:"profile_id" binding:"required"`
	BasePriceCents  int64     `json:"base_price_cents" binding:"required,gt=0"`
	AppointmentAt   time.Time `json:"appointment_at" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,gt=0"`
}

func (r CreateBookingRequest) ToDomain(now time.Time, customerID uuid.UUID) (*booking.Booking, error) {
	basePrice, err := money.FromCents(r.BasePriceCents)
	if err != nil {
		return nil, err
	}
	return booking.NewBooking(
		now,
		customerID,
		r.StylistID,
		r.ProfileID,
		basePrice,
		r.AppointmentAt,
		time.Duration(r.DurationMinutes)*time.Minute,
	)
}

type ChangeBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (r ChangeBookingStatusRequest) ToStatus() booking.Status {
	return booking.Status(strings.TrimSpace(r.Status))
}

type CancelBookingRequest struct {
	Reason string  `json:"reason" binding:"required"`
	Note   *string `json:"note,omitempty"`
}

func (r CancelBookingRequest) GetNote() string {
	if r.Note == nil {
		return ""
	}
	return strings.TrimSpace(*r.Note)
}
