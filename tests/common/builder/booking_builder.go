//go:build unit || e2e

package builder

import (
	"time"

	dombooking "glowbook/internal/domain/booking"
	"glowbook/internal/domain/money"
	reqdto "glowbook/internal/handler/dto/request"
	"glowbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	CustomerID      uuid.UUID
	StylistID       uuid.UUID
	ProfileID       uuid.UUID
	BasePriceCents  int64
	AppointmentAt   time.Time
	DurationMinutes int
	Now             time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Now()
	return &BookingBuilder{
		CustomerID:      uuid.New(),
		StylistID:       uuid.New(),
		ProfileID:       uuid.New(),
		BasePriceCents:  10000,
		AppointmentAt:   now.Add(48 * time.Hour),
		DurationMinutes: 90,
		Now:             now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	return dombooking.NewBooking(
		b.Now,
		b.CustomerID,
		b.StylistID,
		b.ProfileID,
		money.New(b.BasePriceCents),
		b.AppointmentAt,
		time.Duration(b.DurationMinutes)*time.Minute,
	)
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		StylistID:       b.StylistID,
		ProfileID:       b.ProfileID,
		BasePriceCents:  b.BasePriceCents,
		AppointmentAt:   b.AppointmentAt,
		DurationMinutes: b.DurationMinutes,
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	deposit := (b.BasePriceCents*1000 + 5000) / 10000
	return &queries.BookingView{
		ID:                   uuid.New(),
		CustomerID:           b.CustomerID,
		StylistID:            b.StylistID,
		ProfileID:            b.ProfileID,
		BasePriceCents:       b.BasePriceCents,
		NegotiatedPriceCents: b.BasePriceCents,
		AdditionalFees:       []queries.FeeView{},
		DepositCents:         deposit,
		TotalCents:           b.BasePriceCents,
		AppointmentAt:        b.AppointmentAt,
		DurationMinutes:      b.DurationMinutes,
		EstimatedEndAt:       b.AppointmentAt.Add(time.Duration(b.DurationMinutes) * time.Minute),
		Status:               "pending",
		AutoConfirmDeadline:  b.Now.Add(dombooking.AutoConfirmWindow),
		CreatedAt:            b.Now,
		UpdatedAt:            b.Now,
	}
}

func (b *BookingBuilder) BuildListItem() *queries.BookingListItem {
	return &queries.BookingListItem{
		ID:            uuid.New(),
		StylistID:     b.StylistID,
		CustomerID:    b.CustomerID,
		AppointmentAt: b.AppointmentAt,
		Status:        "pending",
		TotalCents:    b.BasePriceCents,
		CreatedAt:     b.Now,
	}
}

func (b *BookingBuilder) WithCustomerID(id uuid.UUID) *BookingBuilder {
	b.CustomerID = id
	return b
}

func (b *BookingBuilder) WithStylistID(id uuid.UUID) *BookingBuilder {
	b.StylistID = id
	return b
}

func (b *BookingBuilder) WithBasePriceCents(cents int64) *BookingBuilder {
	b.BasePriceCents = cents
	return b
}

func (b *BookingBuilder) WithAppointmentAt(at time.Time) *BookingBuilder {
	b.AppointmentAt = at
	return b
}

func (b *BookingBuilder) WithDurationMinutes(minutes int) *BookingBuilder {
	b.DurationMinutes = minutes
	return b
}

func (b *BookingBuilder) WithNow(now time.Time) *BookingBuilder {
	b.Now = now
	return b
}
