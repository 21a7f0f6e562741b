package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

var NoTX interface{}

// TransactionManager executes a function inside a database transaction,
// handing the transaction handle to the callback via `tx`.
//
// Repositories accept `tx Tx` and detect a live transaction implementation-
// side (e.g. pgx.Tx), falling back to the pool when nil is passed. This keeps
// use-case interfaces free of storage types while still allowing
// SELECT ... FOR UPDATE inside a transaction.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
