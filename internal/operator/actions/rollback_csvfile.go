package actions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/carson-networks/ledger-import/internal/importer"
	"github.com/carson-networks/ledger-import/internal/storage"
)

// RollbackCsvFile undoes the committed load of a csv file: its ledger legs,
// their tag links and transfer rows, its data logs, and the loaded marker.
// Accounts, categories and tags the load created stay in place.
type RollbackCsvFile struct {
	CsvFileID int64

	NoOp                bool
	Lines               []string
	ReversedLogIDs      []int64
	TransactionsDeleted int64
	TagLinksDeleted     int64
	TransfersDeleted    int64
	LogsDeleted         int64
	CsvFilesUpdated     int64

	IAction
}

func (r *RollbackCsvFile) Perform(ctx context.Context, writer *storage.Writer) error {
	file, err := writer.CsvFile.FindByID(ctx, r.CsvFileID)
	if errors.Is(err, sql.ErrNoRows) {
		r.NoOp = true
		r.addLine("csv file %d not found", r.CsvFileID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: find csv file: %w", importer.ErrStore, err)
	}
	if !file.IsLoaded() {
		r.NoOp = true
		r.addLine("%s is not loaded", file.Name)
		return nil
	}

	r.addLine("rolling back %s", file.Name)

	r.ReversedLogIDs, err = writer.DataLog.IDsByCsvFile(ctx, file.ID)
	if err != nil {
		return fmt.Errorf("%w: list data logs: %w", importer.ErrStore, err)
	}
	r.addLine("found %d data log(s)", len(r.ReversedLogIDs))

	if len(r.ReversedLogIDs) > 0 {
		r.addLine("reversing log ids: %s", joinIDs(r.ReversedLogIDs))

		transferIDs, err := writer.Transaction.TransferIDsByLogIDs(ctx, r.ReversedLogIDs)
		if err != nil {
			return fmt.Errorf("%w: list transfers: %w", importer.ErrStore, err)
		}
		if r.TagLinksDeleted, err = writer.Transaction.DeleteTagsByLogIDs(ctx, r.ReversedLogIDs); err != nil {
			return fmt.Errorf("%w: delete tag links: %w", importer.ErrStore, err)
		}
		if r.TransactionsDeleted, err = writer.Transaction.DeleteByLogIDs(ctx, r.ReversedLogIDs); err != nil {
			return fmt.Errorf("%w: delete transactions: %w", importer.ErrStore, err)
		}
		if r.TransfersDeleted, err = writer.Transaction.DeleteOrphanTransfers(ctx, transferIDs); err != nil {
			return fmt.Errorf("%w: delete transfers: %w", importer.ErrStore, err)
		}
		r.addLine("deleted %d transaction(s)", r.TransactionsDeleted)
	}

	if r.LogsDeleted, err = writer.DataLog.DeleteByCsvFile(ctx, file.ID); err != nil {
		return fmt.Errorf("%w: delete data logs: %w", importer.ErrStore, err)
	}
	r.addLine("deleted %d data log(s)", r.LogsDeleted)

	if r.CsvFilesUpdated, err = writer.CsvFile.ClearLoaded(ctx, file.ID); err != nil {
		return fmt.Errorf("%w: clear loaded date: %w", importer.ErrStore, err)
	}
	r.addLine("updated %d csv file(s)", r.CsvFilesUpdated)
	r.addLine("rollback of %s complete", file.Name)

	return nil
}

func (r *RollbackCsvFile) addLine(format string, args ...any) {
	r.Lines = append(r.Lines, fmt.Sprintf(format, args...))
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
