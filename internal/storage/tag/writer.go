package tag

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

func (w *Writer) GetOrCreate(ctx context.Context, name string) (int64, error) {
	existing, err := w.FindByName(ctx, name)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	insert := sqlite.Insert(
		im.OrIgnore(),
		im.Into(tableName, "name"),
		im.Values(sqlite.Arg(name)),
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
