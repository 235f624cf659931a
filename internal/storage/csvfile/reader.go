package csvfile

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

// FindByID returns sql.ErrNoRows for an unknown id.
func (r *Reader) FindByID(ctx context.Context, id int64) (*CsvFile, error) {
	query := sqlite.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(sqlite.Quote("id").EQ(sqlite.Arg(id))),
	)
	return bob.One(ctx, r.exec, query, scan.StructMapper[*CsvFile]())
}

func (r *Reader) FindByName(ctx context.Context, name string) (*CsvFile, error) {
	query := sqlite.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(sqlite.Quote("name").EQ(sqlite.Arg(name))),
	)
	return bob.One(ctx, r.exec, query, scan.StructMapper[*CsvFile]())
}

func (r *Reader) List(ctx context.Context) ([]*CsvFile, error) {
	query := sqlite.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.OrderBy("id").Asc(),
	)
	return bob.All(ctx, r.exec, query, scan.StructMapper[*CsvFile]())
}

func (r *Reader) FindAgentByName(ctx context.Context, name string) (*Agent, error) {
	query := sqlite.Select(
		sm.Columns(agentColumns...),
		sm.From(agentTableName),
		sm.Where(sqlite.Quote("name").EQ(sqlite.Arg(name))),
	)
	return bob.One(ctx, r.exec, query, scan.StructMapper[*Agent]())
}
