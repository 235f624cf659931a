package transaction

import (
	"github.com/aarondl/opt/null"
	"github.com/shopspring/decimal"
)

// Transaction is one ledger leg. A transfer is two legs sharing TransferID
// with amounts summing to zero.
type Transaction struct {
	ID              int64            `db:"id"`
	AccountID       int64            `db:"account_id"`
	CategoryID      int64            `db:"category_id"`
	LogID           int64            `db:"log_id"`
	TransferID      null.Val[int64]  `db:"transfer_id"`
	Amount          decimal.Decimal  `db:"amount"`
	ItemName        null.Val[string] `db:"item_name"`
	Description     null.Val[string] `db:"description"`
	TransactionDate string           `db:"transaction_date"`
	Memo            null.Val[string] `db:"memo"`
}

// TransactionCreate is the input for inserting one leg.
type TransactionCreate struct {
	AccountID       int64
	CategoryID      int64
	LogID           int64
	TransferID      null.Val[int64]
	Amount          decimal.Decimal
	ItemName        null.Val[string]
	Description     null.Val[string]
	TransactionDate string
	Memo            null.Val[string]
}

// Transfer groups the two legs of a transfer pair under a display label.
type Transfer struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// Summary aggregates the ledger rows written by the loads of one csv file.
type Summary struct {
	TransactionCount int64
	Expenses         decimal.Decimal
	Income           decimal.Decimal
	Net              decimal.Decimal
	TransferCount    int64
	TransferTotal    decimal.Decimal
}

type summaryLeg struct {
	TransferID null.Val[int64] `db:"transfer_id"`
	Amount     decimal.Decimal `db:"amount"`
}

const (
	tableName         = "transactions"
	transferTableName = "transfers"
	tagJoinTableName  = "transaction_tags"
)

var columns = []any{
	"id", "account_id", "category_id", "log_id", "transfer_id",
	"amount", "item_name", "description", "transaction_date", "memo",
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
