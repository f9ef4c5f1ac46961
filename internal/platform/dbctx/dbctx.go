package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

type txKey struct{}

// WithTx attaches tx to ctx so collaborators that only receive a
// context.Context still read through the same transaction.
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// From wraps ctx, picking up a transaction attached with WithTx.
func From(ctx context.Context) Context {
	tx, _ := ctx.Value(txKey{}).(*gorm.DB)
	return Context{Ctx: ctx, Tx: tx}
}

// DB returns the transaction when set, otherwise fallback.
func (c Context) DB(fallback *gorm.DB) *gorm.DB {
	t := c.Tx
	if t == nil {
		t = fallback
	}
	ctx := c.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return t.WithContext(ctx)
}
