package booking

type Status string

const (
	StatusPending         Status = "pending"
	StatusPendingApproval Status = "pending_approval"
	StatusAccepted        Status = "accepted"
	StatusConfirmed       Status = "confirmed"
	StatusInProgress      Status = "in_progress"
	StatusCompleted       Status = "completed"
	StatusCancelled       Status = "cancelled"
	StatusRejected        Status = "rejected"
	StatusNoShow          Status = "no_show"
	StatusStylistNoShow   Status = "stylist_no_show"
)

// transitions is the single authority for booking lifecycle moves. Terminal
// states map to an empty set.
var transitions = map[Status][]Status{
	StatusPending:         {StatusAccepted, StatusRejected, StatusConfirmed, StatusCancelled},
	StatusPendingApproval: {StatusAccepted, StatusRejected, StatusConfirmed, StatusCancelled},
	StatusAccepted:        {StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow, StatusStylistNoShow},
	StatusConfirmed:       {StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow, StatusStylistNoShow},
	StatusInProgress:      {StatusCompleted, StatusCancelled},
	StatusCompleted:       {},
	StatusCancelled:       {},
	StatusRejected:        {},
	StatusNoShow:          {},
	StatusStylistNoShow:   {},
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

// AllowedNext returns a copy of the legal targets from s.
func (s Status) AllowedNext() []Status {
	next := transitions[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}
