package actions

import (
	"context"

	"github.com/carson-networks/ledger-import/internal/storage"
)

// IAction is one unit of work applied inside a single write transaction.
// Returning an error rolls the whole transaction back.
type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}
