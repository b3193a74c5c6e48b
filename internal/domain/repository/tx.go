package repository

import "context"

// TxManager runs a function inside one database transaction. The transaction
// handle travels through the context, so every repository call made within fn
// joins the same transaction and the whole operation commits or rolls back as
// a unit.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
