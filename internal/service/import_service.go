package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-import/internal/config"
	"github.com/carson-networks/ledger-import/internal/importer"
	"github.com/carson-networks/ledger-import/internal/logging"
	"github.com/carson-networks/ledger-import/internal/metrics"
	"github.com/carson-networks/ledger-import/internal/operator/actions"
	"github.com/carson-networks/ledger-import/internal/storage"
)

// ImportService loads registered csv files into the ledger and reverses
// those loads.
type ImportService struct {
	storage            *storage.Storage
	operator           actionProcessor
	metrics            *metrics.Metrics
	logger             *logrus.Logger
	csvRoot            string
	defaultAccountType string
	now                func() time.Time
}

func NewImportService(
	store *storage.Storage,
	op actionProcessor,
	env *config.Config,
	m *metrics.Metrics,
	logger *logrus.Logger,
) *ImportService {
	return &ImportService{
		storage:            store,
		operator:           op,
		metrics:            m,
		logger:             logger,
		csvRoot:            env.CsvRoot,
		defaultAccountType: env.DefaultAccountType,
		now:                time.Now,
	}
}

// LoadCsvFile applies the csv file registered under id. The returned error
// wraps one of the importer error kinds; the result is filled in either way.
func (s *ImportService) LoadCsvFile(ctx context.Context, id int64) (LoadResult, error) {
	start := s.now()
	result := LoadResult{OperationID: newOperationID()}

	logData := logDataFrom(ctx, s.logger)
	logData.AddData("operationID", result.OperationID.String())
	logData.AddData("csvFileID", id)
	stopTimer := logData.AddTiming("loadMs")

	ctx = logging.WithLogData(ctx, logData)
	err := s.loadCsvFile(ctx, id, &result)
	stopTimer()

	if err != nil {
		result.Error = err.Error()
		s.metrics.ObserveLoad(outcomeFor(err), result.RowsProcessed, s.now().Sub(start))
		logData.AddData("rowsProcessed", result.RowsProcessed)
		logData.Log().WithError(err).Error("ImportService.LoadCsvFile.Error")
		return result, err
	}

	result.Success = true
	s.metrics.ObserveLoad(metrics.OutcomeSuccess, result.RowsProcessed, s.now().Sub(start))
	logData.AddData("logID", result.LogID)
	logData.AddData("rowsProcessed", result.RowsProcessed)
	logData.AddData("transactionsInserted", result.TransactionsInserted)
	logData.AddData("tagsInserted", result.TagsInserted)
	logData.Log().Info("ImportService.LoadCsvFile.Complete")
	return result, nil
}

func (s *ImportService) loadCsvFile(ctx context.Context, id int64, result *LoadResult) error {
	file, err := s.storage.Read().CsvFiles.FindByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: csv file %d", importer.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("%w: find csv file: %w", importer.ErrStore, err)
	}
	result.Filename = file.Name

	if file.IsLoaded() {
		return fmt.Errorf("%w: %s was loaded at %s", importer.ErrAlreadyLoaded, file.Name, file.LoadedDate.GetOrZero())
	}

	path := resolvePath(s.csvRoot, file.Name)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %w", importer.ErrFileIO, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", importer.ErrFileIO, path)
	}

	action := &actions.LoadCsvFile{
		CsvFileID:          id,
		Path:               path,
		DefaultAccountType: s.defaultAccountType,
		Now:                s.now,
	}
	err = s.operator.Process(ctx, action)
	if abandoned(ctx, err) {
		// the worker may still be running the action
		return s.settleAbandonedLoad(ctx, id, result, err)
	}

	result.RowsProcessed = action.RowsSeen
	if err != nil {
		return err
	}

	result.TransactionsInserted = action.TransactionsInserted
	result.TagsInserted = action.TagsInserted
	result.LogID = action.LogID
	return nil
}

// settleAbandonedLoad decides the outcome of a load the caller stopped
// waiting for. The worker can commit after ctx ends, so the loaded marker in
// the store is the answer. The single store connection makes this read wait
// for an in-flight load transaction to finish.
func (s *ImportService) settleAbandonedLoad(ctx context.Context, id int64, result *LoadResult, cause error) error {
	ctx = context.WithoutCancel(ctx)
	reader := s.storage.Read()

	file, err := reader.CsvFiles.FindByID(ctx, id)
	if err != nil || !file.IsLoaded() {
		return fmt.Errorf("load cancelled: %w", cause)
	}

	logIDs, err := reader.DataLogs.IDsByCsvFile(ctx, id)
	if err != nil || len(logIDs) == 0 {
		return fmt.Errorf("%w: %s is loaded but its data log could not be read", importer.ErrStore, file.Name)
	}
	result.LogID = logIDs[len(logIDs)-1]

	rows, err := reader.Transactions.ListByLogIDs(ctx, []int64{result.LogID})
	if err != nil {
		return fmt.Errorf("%w: list transactions: %w", importer.ErrStore, err)
	}
	result.TransactionsInserted = len(rows)

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("committedAfterCancel", true)
	}
	return nil
}

// RollbackCsvFile reverses the committed load of the csv file registered
// under id. A file that is unknown or not loaded yields an explanatory
// report and a nil ReversedLogCount without an error.
func (s *ImportService) RollbackCsvFile(ctx context.Context, id int64) (RollbackResult, error) {
	result := RollbackResult{OperationID: newOperationID()}

	logData := logDataFrom(ctx, s.logger)
	logData.AddData("operationID", result.OperationID.String())
	logData.AddData("csvFileID", id)
	stopTimer := logData.AddTiming("rollbackMs")

	action := &actions.RollbackCsvFile{CsvFileID: id}
	err := s.operator.Process(ctx, action)
	stopTimer()

	if err != nil {
		result.Lines = []string{fmt.Sprintf("rollback of csv file %d failed: %v", id, err)}
		s.metrics.ObserveRollback(outcomeFor(err))
		logData.Log().WithError(err).Error("ImportService.RollbackCsvFile.Error")
		return result, err
	}

	result.Lines = action.Lines
	if action.NoOp {
		s.metrics.ObserveRollback(metrics.OutcomeNoOp)
		logData.Log().Info("ImportService.RollbackCsvFile.NoOp")
		return result, nil
	}

	reversed := len(action.ReversedLogIDs)
	result.ReversedLogCount = &reversed
	result.TransactionsDeleted = action.TransactionsDeleted
	result.LogsDeleted = action.LogsDeleted
	result.CsvFilesUpdated = action.CsvFilesUpdated

	s.metrics.ObserveRollback(metrics.OutcomeSuccess)
	logData.AddData("reversedLogCount", reversed)
	logData.AddData("transactionsDeleted", action.TransactionsDeleted)
	logData.Log().Info("ImportService.RollbackCsvFile.Complete")
	return result, nil
}

// SummarizeCsvFile totals the ledger rows written by the loads of a file.
func (s *ImportService) SummarizeCsvFile(ctx context.Context, id int64) (*CsvFileSummary, error) {
	reader := s.storage.Read()

	file, err := reader.CsvFiles.FindByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: csv file %d", importer.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find csv file: %w", importer.ErrStore, err)
	}

	logIDs, err := reader.DataLogs.IDsByCsvFile(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: list data logs: %w", importer.ErrStore, err)
	}

	totals, err := reader.Transactions.SummaryForCsvFile(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: summarize: %w", importer.ErrStore, err)
	}

	return &CsvFileSummary{
		CsvFile:          csvFileFromStorage(file),
		LogIDs:           logIDs,
		TransactionCount: totals.TransactionCount,
		Expenses:         totals.Expenses,
		Income:           totals.Income,
		Net:              totals.Net,
		TransferCount:    totals.TransferCount,
		TransferTotal:    totals.TransferTotal,
	}, nil
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, importer.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, importer.ErrAlreadyLoaded):
		return metrics.OutcomeAlreadyLoaded
	case errors.Is(err, importer.ErrMalformedRow):
		return metrics.OutcomeMalformedRow
	case errors.Is(err, importer.ErrFileIO):
		return metrics.OutcomeFileIO
	default:
		return metrics.OutcomeStore
	}
}

// abandoned reports whether Process gave up waiting because ctx ended, in
// which case the action's fields must not be read.
func abandoned(ctx context.Context, err error) bool {
	return err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err())
}

func newOperationID() uuid.UUID {
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil
	}
	return id
}
