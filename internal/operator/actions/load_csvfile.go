package actions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/carson-networks/ledger-import/internal/importer"
	"github.com/carson-networks/ledger-import/internal/logging"
	"github.com/carson-networks/ledger-import/internal/storage"
)

// LoadCsvFile applies one registered csv file to the ledger. Every row of
// the file, the data log row and the loaded marker share the transaction
// the action runs in, so a single bad row leaves the store untouched.
type LoadCsvFile struct {
	CsvFileID          int64
	Path               string
	DefaultAccountType string
	Now                func() time.Time

	Filename             string
	LogID                int64
	RowsSeen             int
	TransactionsInserted int
	TagsInserted         int
	TransfersInserted    int

	IAction
}

func (l *LoadCsvFile) Perform(ctx context.Context, writer *storage.Writer) error {
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}

	file, err := writer.CsvFile.FindByID(ctx, l.CsvFileID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: csv file %d", importer.ErrNotFound, l.CsvFileID)
	}
	if err != nil {
		return fmt.Errorf("%w: find csv file: %w", importer.ErrStore, err)
	}
	l.Filename = file.Name
	if file.IsLoaded() {
		return fmt.Errorf("%w: %s was loaded at %s", importer.ErrAlreadyLoaded, file.Name, file.LoadedDate.GetOrZero())
	}

	source, err := os.Open(l.Path)
	if err != nil {
		return fmt.Errorf("%w: %w", importer.ErrFileIO, err)
	}
	defer source.Close()

	l.LogID, err = writer.DataLog.Insert(ctx, file.ID, now())
	if err != nil {
		return fmt.Errorf("%w: insert data log: %w", importer.ErrStore, err)
	}

	resolver := importer.NewDimensionResolver(writer.Account, writer.Category, writer.Tag, l.DefaultAccountType)
	ledger := importer.NewDoubleEntryWriter(resolver, writer.Transaction)
	seq := &importer.TransferSequence{}
	records := importer.NewRecordReader(source)
	logData := logging.GetLogData(ctx)

	for {
		if err = ctx.Err(); err != nil {
			return err
		}

		fields, line, err := records.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return &importer.RowError{Line: line, Err: err}
		}

		fact, skip, err := importer.ParseRow(fields)
		if err != nil {
			return &importer.RowError{Line: line, Err: err}
		}
		if !skip {
			var stopTimer func()
			if logData != nil {
				stopTimer = logData.AddToExistingTiming("rowWriteMs")
			}
			result, err := ledger.Write(ctx, seq, fact, l.LogID)
			if stopTimer != nil {
				stopTimer()
			}
			if err != nil {
				return &importer.RowError{Line: line, Err: err}
			}
			l.TransactionsInserted += len(result.TransactionIDs)
			l.TagsInserted += result.TagsAttached
			if result.TransferID.IsValue() {
				l.TransfersInserted++
			}
		}
		l.RowsSeen++
	}

	if _, err = writer.CsvFile.MarkLoaded(ctx, file.ID, now()); err != nil {
		return fmt.Errorf("%w: mark loaded: %w", importer.ErrStore, err)
	}
	return nil
}
