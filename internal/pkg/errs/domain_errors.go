package errs

// Domain-specific sentinel errors shared across usecase layers
var (
	// Booking errors
	ErrBookingNotFound    = New("booking not found")
	ErrInvalidTransition  = New("invalid booking status transition")
	ErrAppointmentInPast  = New("appointment time must be in the future")
	ErrCancelNotAllowed   = New("cancellation not allowed in current status")
	ErrCancelReasonNeeded = New("cancellation reason is required")
	ErrInvalidDuration    = New("service duration must be positive")

	// Negotiation errors
	ErrConversationNotFound = New("negotiation conversation not found")
	ErrNegotiationClosed    = New("negotiation is closed")
	ErrOfferTooLow          = New("offer is below the floor price")
	ErrOfferInProgress      = New("another offer is still pending")
	ErrOfferExpired         = New("offer has expired")
	ErrNoActiveOffer        = New("no active offer to respond to")
	ErrInvalidDecision      = New("decision must be accepted or rejected")

	// Payment errors
	ErrPaymentNotFound      = New("payment not found")
	ErrPaymentExists        = New("payment already exists for booking")
	ErrBookingNotPayable    = New("booking is not ready for payment")
	ErrInvalidPaymentChange = New("invalid payment status transition")
	ErrEscrowNotReady       = New("escrow is not ready for release")
	ErrRefundTooLarge       = New("refund exceeds original payment amount")
	ErrGatewayUnavailable   = New("payment gateway unavailable")

	// Authorization errors
	ErrUnauthorized = New("acting party is not authorized for this operation")

	// Concurrency errors
	ErrConcurrentModification = New("record was modified concurrently, re-read and retry")

	// Validation errors
	ErrInvalidAmount = New("amount is malformed or out of range")

	// Operation errors
	ErrDatabaseOperationFailed = New("database operation failed")
)
