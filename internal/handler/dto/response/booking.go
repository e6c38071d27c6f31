package response

import (
	"time"

	"glowbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID                   uuid.UUID             `json:"id"`
	CustomerID           uuid.UUID             `json:"customerId"`
	StylistID            uuid.UUID             `json:"stylistId"`
	ProfileID            uuid.UUID             `json:"profileId"`
	BasePriceCents       int64                 `json:"basePriceCents"`
	NegotiatedPriceCents int64                 `json:"negotiatedPriceCents"`
	CounterOfferCents    *int64                `json:"counterOfferCents,omitempty"`
	AdditionalFees       []FeeResponse         `json:"additionalFees"`
	DepositCents         int64                 `json:"depositCents"`
	TotalCents           int64                 `json:"totalCents"`
	AppointmentAt        time.Time             `json:"appointmentAt"`
	DurationMinutes      int                   `json:"durationMinutes"`
	EstimatedEndAt       time.Time             `json:"estimatedEndAt"`
	Status               string                `json:"status"`
	ConversationID       *uuid.UUID            `json:"conversationId,omitempty"`
	PaymentID            *uuid.UUID            `json:"paymentId,omitempty"`
	CustomerConfirmedAt  *time.Time            `json:"customerConfirmedAt,omitempty"`
	StylistConfirmedAt   *time.Time            `json:"stylistConfirmedAt,omitempty"`
	AutoConfirmDeadline  time.Time             `json:"autoConfirmDeadline"`
	Cancellation         *CancellationResponse `json:"cancellation,omitempty"`
	CompletedAt          *time.Time            `json:"completedAt,omitempty"`
	CreatedAt            time.Time             `json:"createdAt"`
	UpdatedAt            time.Time             `json:"updatedAt"`
}

type FeeResponse struct {
	Label       string `json:"label"`
	AmountCents int64  `json:"amountCents"`
}

type CancellationResponse struct {
	ByID             uuid.UUID `json:"byId"`
	ByRole           string    `json:"byRole"`
	Reason           string    `json:"reason"`
	Note             string    `json:"note,omitempty"`
	RefundPercentage int       `json:"refundPercentage"`
	WithPenalty      bool      `json:"withPenalty"`
	At               time.Time `json:"at"`
}

type BookingListResponse struct {
	ID            uuid.UUID `json:"id"`
	StylistID     uuid.UUID `json:"stylistId"`
	CustomerID    uuid.UUID `json:"customerId"`
	AppointmentAt time.Time `json:"appointmentAt"`
	Status        string    `json:"status"`
	TotalCents    int64     `json:"totalCents"`
	CreatedAt     time.Time `json:"createdAt"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	var resp BookingResponse
	if err := copier.Copy(&resp, v); err != nil {
		return &BookingResponse{}
	}
	return &resp
}

func FromBookingListItem(v *queries.BookingListItem) *BookingListResponse {
	var resp BookingListResponse
	if err := copier.Copy(&resp, v); err != nil {
		return &BookingListResponse{}
	}
	return &resp
}
