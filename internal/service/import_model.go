package service

import (
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// LoadResult is the outcome of one load attempt. On failure Success is false,
// Error holds the diagnostic and RowsProcessed counts the records handled
// before the failing one. A load that committed after its caller stopped
// waiting reports only LogID and TransactionsInserted.
type LoadResult struct {
	OperationID          uuid.UUID
	Success              bool
	TransactionsInserted int
	TagsInserted         int
	LogID                int64
	Filename             string
	Error                string
	RowsProcessed        int
}

// RollbackResult reports a rollback. ReversedLogCount is nil when nothing was
// reversed, either because the file was not loaded or because the rollback
// failed.
type RollbackResult struct {
	OperationID         uuid.UUID
	Lines               []string
	ReversedLogCount    *int
	TransactionsDeleted int64
	LogsDeleted         int64
	CsvFilesUpdated     int64
}

// CsvFile is a registered source file.
type CsvFile struct {
	ID         int64
	Name       string
	AgentID    *int64
	OrgName    *string
	LoadedDate *string
}

func (c CsvFile) Loaded() bool {
	return c.LoadedDate != nil
}

// CsvFileSummary totals what the loads of one file wrote.
type CsvFileSummary struct {
	CsvFile          CsvFile
	LogIDs           []int64
	TransactionCount int64
	Expenses         decimal.Decimal
	Income           decimal.Decimal
	Net              decimal.Decimal
	TransferCount    int64
	TransferTotal    decimal.Decimal
}
