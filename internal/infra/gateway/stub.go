package gateway

import (
	"context"
	"fmt"
	"sync"

	"glowbook/internal/usecase/commands"

	"github.com/google/uuid"
)

// Stub is a deterministic in-memory gateway. Collections complete after a
// fixed number of polls so the processing → held path is exercised without
// randomness; tests can override per-transaction outcomes.
type Stub struct {
	mu sync.Mutex

	// PollsUntilComplete is how many PENDING answers a transaction gives
	// before completing. Zero completes on the first poll.
	PollsUntilComplete int

	initiated map[uuid.UUID]string // idempotency key -> txn id
	polls     map[string]int
	outcomes  map[string]commands.GatewayStatus
	seq       int
}

func NewStub() *Stub {
	return &Stub{
		PollsUntilComplete: 1,
		initiated:          make(map[uuid.UUID]string),
		polls:              make(map[string]int),
		outcomes:           make(map[string]commands.GatewayStatus),
	}
}

// SetOutcome forces the terminal answer for a transaction.
func (s *Stub) SetOutcome(gatewayTxnID string, status commands.GatewayStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes[gatewayTxnID] = status
}

func (s *Stub) Initiate(_ context.Context, req commands.GatewayInitiateRequest) (*commands.GatewayInitiateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Repeats with the same idempotency key return the original transaction.
	if txnID, ok := s.initiated[req.IdempotencyKey]; ok {
		return &commands.GatewayInitiateResult{
			GatewayTxnID: txnID,
			PollURL:      "/v1/collections/" + txnID,
		}, nil
	}

	s.seq++
	txnID := fmt.Sprintf("stub-txn-%06d", s.seq)
	s.initiated[req.IdempotencyKey] = txnID
	return &commands.GatewayInitiateResult{
		GatewayTxnID: txnID,
		PollURL:      "/v1/collections/" + txnID,
	}, nil
}

func (s *Stub) PollStatus(_ context.Context, gatewayTxnID string) (*commands.GatewayPollResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if outcome, ok := s.outcomes[gatewayTxnID]; ok {
		return &commands.GatewayPollResult{Status: outcome}, nil
	}

	s.polls[gatewayTxnID]++
	if s.polls[gatewayTxnID] <= s.PollsUntilComplete {
		return &commands.GatewayPollResult{Status: commands.GatewayStatusPending}, nil
	}
	return &commands.GatewayPollResult{Status: commands.GatewayStatusCompleted}, nil
}

func (s *Stub) Refund(_ context.Context, gatewayTxnID string, _ int64, idempotencyKey uuid.UUID) (*commands.GatewayRefundResult, error) {
	return &commands.GatewayRefundResult{
		RefundTxnID: "stub-refund-" + gatewayTxnID + "-" + idempotencyKey.String()[:8],
		Status:      commands.GatewayStatusCompleted,
	}, nil
}
