package datalog

// DataLog is the audit row of one committed load. Its id is stamped on every
// ledger leg the load wrote and is the only handle a rollback has on them.
type DataLog struct {
	ID         int64  `db:"id"`
	CsvFileID  int64  `db:"csvfile_id"`
	UpdateDate string `db:"update_date"`
}

// TimestampLayout is the layout of update_date.
const TimestampLayout = "2006-01-02 15:04:05"

const tableName = "data_logs"

var columns = []any{"id", "csvfile_id", "update_date"}
