package repositories

import "context"

// TxFn runs inside a transaction; repositories pick the tx up from ctx.
type TxFn func(ctx context.Context) error

// TransactionManager runs a function atomically. Returning an error rolls back.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
