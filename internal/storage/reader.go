package storage

import (
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/ledger-import/internal/storage/account"
	"github.com/carson-networks/ledger-import/internal/storage/category"
	"github.com/carson-networks/ledger-import/internal/storage/csvfile"
	"github.com/carson-networks/ledger-import/internal/storage/datalog"
	"github.com/carson-networks/ledger-import/internal/storage/tag"
	"github.com/carson-networks/ledger-import/internal/storage/transaction"
)

type Reader struct {
	Accounts     *account.Reader
	Categories   *category.Reader
	Tags         *tag.Reader
	Transactions *transaction.Reader
	DataLogs     *datalog.Reader
	CsvFiles     *csvfile.Reader
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{
		Accounts:     account.NewReader(exec),
		Categories:   category.NewReader(exec),
		Tags:         tag.NewReader(exec),
		Transactions: transaction.NewReader(exec),
		DataLogs:     datalog.NewReader(exec),
		CsvFiles:     csvfile.NewReader(exec),
	}
}
