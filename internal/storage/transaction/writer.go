package transaction

import (
	"context"
	"database/sql"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/dm"
	"github.com/stephenafamo/bob/dialect/sqlite/im"
	"github.com/stephenafamo/bob/dialect/sqlite/sm"
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

func (w *Writer) Insert(ctx context.Context, create *TransactionCreate) (int64, error) {
	insert := sqlite.Insert(
		im.Into(tableName,
			"account_id", "category_id", "log_id", "transfer_id", "amount",
			"item_name", "description", "transaction_date", "memo",
		),
		im.Values(
			sqlite.Arg(create.AccountID),
			sqlite.Arg(create.CategoryID),
			sqlite.Arg(create.LogID),
			sqlite.Arg(create.TransferID),
			sqlite.Arg(create.Amount.String()),
			sqlite.Arg(create.ItemName),
			sqlite.Arg(create.Description),
			sqlite.Arg(create.TransactionDate),
			sqlite.Arg(create.Memo),
		),
	)
	result, err := bob.Exec(ctx, w.tx, insert)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// InsertTransfer creates the grouping row for a transfer pair.
func (w *Writer) InsertTransfer(ctx context.Context, name string) (int64, error) {
	insert := sqlite.Insert(
		im.Into(transferTableName, "name"),
		im.Values(sqlite.Arg(name)),
	)
	result, err := bob.Exec(ctx, w.tx, insert)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (w *Writer) AttachTag(ctx context.Context, transactionID int64, tagID int64) error {
	insert := sqlite.Insert(
		im.Into(tagJoinTableName, "transaction_id", "tag_id"),
		im.Values(sqlite.Arg(transactionID), sqlite.Arg(tagID)),
	)
	_, err := bob.Exec(ctx, w.tx, insert)
	return err
}

// DeleteTagsByLogIDs removes the tag links of every leg written by the loads.
func (w *Writer) DeleteTagsByLogIDs(ctx context.Context, logIDs []int64) (int64, error) {
	if len(logIDs) == 0 {
		return 0, nil
	}
	del := sqlite.Delete(
		dm.From(tagJoinTableName),
		dm.Where(sqlite.Quote("transaction_id").In(sqlite.Select(
			sm.Columns("id"),
			sm.From(tableName),
			sm.Where(sqlite.Quote("log_id").In(sqlite.Arg(int64Args(logIDs)...))),
		))),
	)
	return rowsAffected(bob.Exec(ctx, w.tx, del))
}

func (w *Writer) DeleteByLogIDs(ctx context.Context, logIDs []int64) (int64, error) {
	if len(logIDs) == 0 {
		return 0, nil
	}
	del := sqlite.Delete(
		dm.From(tableName),
		dm.Where(sqlite.Quote("log_id").In(sqlite.Arg(int64Args(logIDs)...))),
	)
	return rowsAffected(bob.Exec(ctx, w.tx, del))
}

// DeleteOrphanTransfers removes the given transfer rows once no leg
// references them anymore.
func (w *Writer) DeleteOrphanTransfers(ctx context.Context, transferIDs []int64) (int64, error) {
	if len(transferIDs) == 0 {
		return 0, nil
	}
	del := sqlite.Delete(
		dm.From(transferTableName),
		dm.Where(sqlite.Quote("id").In(sqlite.Arg(int64Args(transferIDs)...))),
		dm.Where(sqlite.Raw("NOT EXISTS (SELECT 1 FROM transactions WHERE transactions.transfer_id = transfers.id)")),
	)
	return rowsAffected(bob.Exec(ctx, w.tx, del))
}

func rowsAffected(result sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
