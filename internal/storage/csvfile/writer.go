package csvfile

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/im"
	"github.com/stephenafamo/bob/dialect/sqlite/um"
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

func (w *Writer) Insert(ctx context.Context, name string, agentID null.Val[int64], orgName null.Val[string]) (int64, error) {
	insert := sqlite.Insert(
		im.Into(tableName, "name", "agent_id", "org_name"),
		im.Values(sqlite.Arg(name), sqlite.Arg(agentID), sqlite.Arg(orgName)),
	)
	result, err := bob.Exec(ctx, w.tx, insert)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// MarkLoaded stamps loaded_date, returning the number of rows updated.
func (w *Writer) MarkLoaded(ctx context.Context, id int64, at time.Time) (int64, error) {
	return w.setLoadedDate(ctx, id, null.From(at.Format(TimestampLayout)))
}

// ClearLoaded resets loaded_date to null so the file may be loaded again.
func (w *Writer) ClearLoaded(ctx context.Context, id int64) (int64, error) {
	return w.setLoadedDate(ctx, id, null.Val[string]{})
}

func (w *Writer) setLoadedDate(ctx context.Context, id int64, loadedDate null.Val[string]) (int64, error) {
	update := sqlite.Update(
		um.Table(tableName),
		um.SetCol("loaded_date").ToArg(loadedDate),
		um.Where(sqlite.Quote("id").EQ(sqlite.Arg(id))),
	)
	result, err := bob.Exec(ctx, w.tx, update)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (w *Writer) GetOrCreateAgent(ctx context.Context, name string) (int64, error) {
	existing, err := w.FindAgentByName(ctx, name)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	insert := sqlite.Insert(
		im.OrIgnore(),
		im.Into(agentTableName, "name"),
		im.Values(sqlite.Arg(name)),
	)
	if _, err = bob.Exec(ctx, w.tx, insert); err != nil {
		return 0, err
	}

	created, err := w.FindAgentByName(ctx, name)
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}
