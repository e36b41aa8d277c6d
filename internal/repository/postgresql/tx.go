package postgresql

import (
	"context"
	"database/sql"
)

type ctxtype string

const (
	trKey ctxtype = "tx"
)

// runner is satisfied by both *sql.DB and *sql.Tx so repository methods can
// transparently join a transaction carried in the context.
type runner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func withTr(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, trKey, tx)
}

func getTr(ctx context.Context) (*sql.Tx, bool) {
	tr, ok := ctx.Value(trKey).(*sql.Tx)
	return tr, ok
}

func pick(ctx context.Context, db *sql.DB) runner {
	if tr, ok := getTr(ctx); ok {
		return tr
	}
	return db
}
