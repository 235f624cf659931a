package datalog

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

func (r *Reader) ListByCsvFile(ctx context.Context, csvFileID int64) ([]*DataLog, error) {
	query := sqlite.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(sqlite.Quote("csvfile_id").EQ(sqlite.Arg(csvFileID))),
		sm.OrderBy("id").Asc(),
	)
	return bob.All(ctx, r.exec, query, scan.StructMapper[*DataLog]())
}

func (r *Reader) IDsByCsvFile(ctx context.Context, csvFileID int64) ([]int64, error) {
	query := sqlite.Select(
		sm.Columns("id"),
		sm.From(tableName),
		sm.Where(sqlite.Quote("csvfile_id").EQ(sqlite.Arg(csvFileID))),
		sm.OrderBy("id").Asc(),
	)
	return bob.All(ctx, r.exec, query, scan.SingleColumnMapper[int64])
}
