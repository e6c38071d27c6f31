package booking

import "time"

// Cancellations inside this window refund half and flag a penalty.
const PenaltyWindow = 24 * time.Hour

// CancellationAssessment is the outcome of the cancellation policy. The
// cancel transition records it verbatim and never recomputes it.
type CancellationAssessment struct {
	CanCancel         bool
	RefundPercentage  int
	WithPenalty       bool
	DisallowedByState bool
}

// AssessCancellation is a pure function of booking status, appointment timing
// and party membership. isParticipant must already reflect whether the acting
// party is the booking's customer or stylist.
func AssessCancellation(status Status, appointmentAt, now time.Time, isParticipant bool) CancellationAssessment {
	switch status {
	case StatusCompleted, StatusInProgress, StatusCancelled, StatusRejected, StatusNoShow, StatusStylistNoShow:
		return CancellationAssessment{DisallowedByState: true}
	}

	if !isParticipant {
		return CancellationAssessment{}
	}

	if appointmentAt.Sub(now) < PenaltyWindow {
		return CancellationAssessment{
			CanCancel:        true,
			RefundPercentage: 50,
			WithPenalty:      true,
		}
	}

	return CancellationAssessment{
		CanCancel:        true,
		RefundPercentage: 100,
		WithPenalty:      false,
	}
}
