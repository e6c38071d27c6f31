//go:build unit || e2e

package testutil

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// StubPool satisfies the use cases' pool dependency without a database.
// Begin hands back an inert transaction, so command orchestration runs
// against mocked repositories while the transaction plumbing stays a no-op.
type StubPool struct{}

func NewStubPool() *StubPool { return &StubPool{} }

func (p *StubPool) Begin(_ context.Context) (pgx.Tx, error) { return stubTx{}, nil }

func (p *StubPool) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (p *StubPool) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return nil, pgx.ErrNoRows
}

func (p *StubPool) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return stubRow{}
}

type stubTx struct{}

func (stubTx) Begin(_ context.Context) (pgx.Tx, error) { return stubTx{}, nil }
func (stubTx) Commit(_ context.Context) error          { return nil }
func (stubTx) Rollback(_ context.Context) error        { return pgx.ErrTxClosed }

func (stubTx) CopyFrom(_ context.Context, _ pgx.Identifier, _ []string, _ pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (stubTx) SendBatch(_ context.Context, _ *pgx.Batch) pgx.BatchResults { return nil }
func (stubTx) LargeObjects() pgx.LargeObjects                             { return pgx.LargeObjects{} }

func (stubTx) Prepare(_ context.Context, _, _ string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (stubTx) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (stubTx) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return nil, pgx.ErrNoRows
}

func (stubTx) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row { return stubRow{} }
func (stubTx) Conn() *pgx.Conn                                        { return nil }

type stubRow struct{}

func (stubRow) Scan(_ ...any) error { return pgx.ErrNoRows }
