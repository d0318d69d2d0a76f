package repositories

import "context"

// TxScope is implemented by repositories that can run a unit of work atomically.
// If fn returns an error nothing it wrote becomes visible; otherwise all of it does.
type TxScope[T any] interface {
	WithTx(ctx context.Context, fn func(txRepo T) error) error
}
