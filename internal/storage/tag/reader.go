package tag

import (
	"context"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/sm"
	"github.com/stephenafamo/scan"
)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) FindByName(ctx context.Context, name string) (*Tag, error) {
	query := sqlite.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(sqlite.Quote("name").EQ(sqlite.Arg(name))),
	)
	return bob.One(ctx, r.exec, query, scan.StructMapper[*Tag]())
}

// NamesForTransaction lists the tag names attached to one ledger row.
func (r *Reader) NamesForTransaction(ctx context.Context, transactionID int64) ([]string, error) {
	query := sqlite.Select(
		sm.Columns("tags.name"),
		sm.From(tableName),
		sm.InnerJoin("transaction_tags").On(sqlite.Raw("transaction_tags.tag_id = tags.id")),
		sm.Where(sqlite.Raw("transaction_tags.transaction_id = ?", transactionID)),
		sm.OrderBy("tags.name").Asc(),
	)
	return bob.All(ctx, r.exec, query, scan.SingleColumnMapper[string])
}
