package payment

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusHeld       Status = "held"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
	StatusDisputed   Status = "disputed"
)

// transitions is the forward-only escrow table. Dispute resolution moves
// disputed back to completed or refunded through ResolveDispute, which is why
// those two edges appear under StatusDisputed.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusFailed, StatusCancelled},
	StatusProcessing: {StatusHeld, StatusCompleted, StatusFailed},
	StatusHeld:       {StatusCompleted, StatusRefunded, StatusDisputed},
	StatusCompleted:  {StatusRefunded, StatusDisputed},
	StatusDisputed:   {StatusCompleted, StatusRefunded},
	StatusFailed:     {},
	StatusCancelled:  {},
	StatusRefunded:   {},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Type string

const (
	TypeDeposit     Type = "deposit"
	TypeFullPayment Type = "full_payment"
	TypeRefund      Type = "refund"
	TypePenalty     Type = "penalty"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeDeposit, TypeFullPayment, TypeRefund, TypePenalty:
		return true
	default:
		return false
	}
}

type Method string

const (
	MethodMobileMoney Method = "mobile_money"
	MethodCard        Method = "card"
)

// TimelineEntry is one row of the append-only audit trail. Gateway responses
// are appended before local state changes so a crash in between leaves a
// replayable record.
type TimelineEntry struct {
	Status      Status
	Description string
	At          time.Time
}

// ReleaseReasonTimeout marks escrow released by the sweeper's safety valve.
const ReleaseReasonTimeout = "automatic_timeout"

// Funds held in escrow auto-release after this long without an explicit
// release or dispute.
const AutoReleaseWindow = 7 * 24 * time.Hour
