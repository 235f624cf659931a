package account

// Account is a ledger account row. Accounts are created on first reference
// and never removed by the load or rollback path.
type Account struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	AccountType string `db:"account_type"`
}

const tableName = "accounts"

var columns = []any{"id", "name", "account_type"}
