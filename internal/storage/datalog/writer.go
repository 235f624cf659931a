package datalog

import (
	"context"
	"time"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/dm"
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

func (w *Writer) Insert(ctx context.Context, csvFileID int64, at time.Time) (int64, error) {
	insert := sqlite.Insert(
		im.Into(tableName, "csvfile_id", "update_date"),
		im.Values(sqlite.Arg(csvFileID), sqlite.Arg(at.Format(TimestampLayout))),
	)
	result, err := bob.Exec(ctx, w.tx, insert)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (w *Writer) DeleteByCsvFile(ctx context.Context, csvFileID int64) (int64, error) {
	del := sqlite.Delete(
		dm.From(tableName),
		dm.Where(sqlite.Quote("csvfile_id").EQ(sqlite.Arg(csvFileID))),
	)
	result, err := bob.Exec(ctx, w.tx, del)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
