package storage

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/carson-networks/ledger-import/internal/storage/account"
	"github.com/carson-networks/ledger-import/internal/storage/category"
	"github.com/carson-networks/ledger-import/internal/storage/csvfile"
	"github.com/carson-networks/ledger-import/internal/storage/datalog"
	"github.com/carson-networks/ledger-import/internal/storage/tag"
	"github.com/carson-networks/ledger-import/internal/storage/transaction"
)

// Writer groups the per-table writers of one open transaction.
type Writer struct {
	tx          bob.Tx
	Account     *account.Writer
	Category    *category.Writer
	Tag         *tag.Writer
	Transaction *transaction.Writer
	DataLog     *datalog.Writer
	CsvFile     *csvfile.Writer
}

func NewWriter(tx bob.Tx) Writer {
	return Writer{
		tx:          tx,
		Account:     account.NewWriter(tx),
		Category:    category.NewWriter(tx),
		Tag:         tag.NewWriter(tx),
		Transaction: transaction.NewWriter(tx),
		DataLog:     datalog.NewWriter(tx),
		CsvFile:     csvfile.NewWriter(tx),
	}
}

func (w *Writer) Commit() error {
	return w.tx.Commit(context.Background())
}

func (w *Writer) Rollback() error {
	return w.tx.Rollback(context.Background())
}
