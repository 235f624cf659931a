package transaction

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

func (r *Reader) ListByLogIDs(ctx context.Context, logIDs []int64) ([]*Transaction, error) {
	if len(logIDs) == 0 {
		return nil, nil
	}
	query := sqlite.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(sqlite.Quote("log_id").In(sqlite.Arg(int64Args(logIDs)...))),
		sm.OrderBy("id").Asc(),
	)
	return bob.All(ctx, r.exec, query, scan.StructMapper[*Transaction]())
}

// TransferIDsByLogIDs returns the distinct transfer groups referenced by the
// legs of the given loads.
func (r *Reader) TransferIDsByLogIDs(ctx context.Context, logIDs []int64) ([]int64, error) {
	if len(logIDs) == 0 {
		return nil, nil
	}
	query := sqlite.Select(
		sm.Columns("transfer_id"),
		sm.From(tableName),
		sm.Where(sqlite.Quote("log_id").In(sqlite.Arg(int64Args(logIDs)...))),
		sm.Where(sqlite.Quote("transfer_id").IsNotNull()),
		sm.GroupBy("transfer_id"),
		sm.OrderBy("transfer_id").Asc(),
	)
	return bob.All(ctx, r.exec, query, scan.SingleColumnMapper[int64])
}

func (r *Reader) FindTransfer(ctx context.Context, id int64) (*Transfer, error) {
	query := sqlite.Select(
		sm.Columns("id", "name"),
		sm.From(transferTableName),
		sm.Where(sqlite.Quote("id").EQ(sqlite.Arg(id))),
	)
	return bob.One(ctx, r.exec, query, scan.StructMapper[*Transfer]())
}

func (r *Reader) CountTransfers(ctx context.Context) (int64, error) {
	query := sqlite.Select(
		sm.Columns("count(*)"),
		sm.From(transferTableName),
	)
	return bob.One(ctx, r.exec, query, scan.SingleColumnMapper[int64])
}

func (r *Reader) CountTags(ctx context.Context, transactionID int64) (int64, error) {
	query := sqlite.Select(
		sm.Columns("count(*)"),
		sm.From(tagJoinTableName),
		sm.Where(sqlite.Quote("transaction_id").EQ(sqlite.Arg(transactionID))),
	)
	return bob.One(ctx, r.exec, query, scan.SingleColumnMapper[int64])
}

// SummaryForCsvFile totals every leg written by the loads of csvFileID.
// Transfer legs are counted in TransferCount/TransferTotal only. Amounts are
// stored as text and added here so no precision is lost to SQLite floats.
func (r *Reader) SummaryForCsvFile(ctx context.Context, csvFileID int64) (*Summary, error) {
	query := sqlite.Select(
		sm.Columns("t.transfer_id AS transfer_id", "t.amount AS amount"),
		sm.From("transactions AS t"),
		sm.InnerJoin("data_logs AS d").On(sqlite.Raw("d.id = t.log_id")),
		sm.Where(sqlite.Raw("d.csvfile_id = ?", csvFileID)),
	)
	legs, err := bob.All(ctx, r.exec, query, scan.StructMapper[*summaryLeg]())
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	transfers := make(map[int64]struct{})
	for _, leg := range legs {
		summary.TransactionCount++
		if id, ok := leg.TransferID.Get(); ok {
			transfers[id] = struct{}{}
			if leg.Amount.IsPositive() {
				summary.TransferTotal = summary.TransferTotal.Add(leg.Amount)
			}
			continue
		}
		summary.Net = summary.Net.Add(leg.Amount)
		switch leg.Amount.Sign() {
		case -1:
			summary.Expenses = summary.Expenses.Add(leg.Amount)
		case 1:
			summary.Income = summary.Income.Add(leg.Amount)
		}
	}
	summary.TransferCount = int64(len(transfers))
	return summary, nil
}
