package account

import (
	"context"
	"database/sql"
	"errors"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/im"
)

type Writer struct {
	tx bob.Tx
	Reader
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

// GetOrCreate returns the id of the account called name, inserting it with
// accountType when it does not exist yet. The insert ignores a unique
// conflict and the row is read back, so a concurrent writer that won the race
// yields the same id.
func (w *Writer) GetOrCreate(ctx context.Context, name string, accountType string) (int64, error) {
	existing, err := w.FindByName(ctx, name)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	insert := sqlite.Insert(
		im.OrIgnore(),
		im.Into(tableName, "name", "account_type"),
		im.Values(sqlite.Arg(name), sqlite.Arg(accountType)),
	)
	if _, err = bob.Exec(ctx, w.tx, insert); err != nil {
		return 0, err
	}

	created, err := w.FindByName(ctx, name)
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}
