package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/ledger-import/internal/config"
	"github.com/carson-networks/ledger-import/internal/importer"
	"github.com/carson-networks/ledger-import/internal/metrics"
	"github.com/carson-networks/ledger-import/internal/operator"
	"github.com/carson-networks/ledger-import/internal/operator/actions"
	"github.com/carson-networks/ledger-import/internal/storage"
	"github.com/carson-networks/ledger-import/internal/storage/storagetest"
)

const csvHeader = "date,account,category_type,category,transfer_to,amount,item,tags,description,memo\n"

const threeRows = csvHeader +
	"2024-05-01,Checking,expense,Groceries,,-3200,SuperMart,[food],,\n" +
	"2024-05-01,Checking,income,Salary,,250000,,,,\n" +
	"2024-05-02,Checking,transfer,Internal,Savings,-10000,,[personal],,\n"

type testEnv struct {
	svc     *Service
	store   *storage.Storage
	metrics *metrics.Metrics
	csvRoot string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	store := storagetest.New(t)
	logger := logrus.New()
	logger.Out = io.Discard

	op := operator.NewOperatorDelegator(store, 1, logger)
	op.Start()
	t.Cleanup(op.Stop)

	env := &config.Config{CsvRoot: t.TempDir(), DefaultAccountType: "other"}
	m := metrics.New()
	svc := NewService(store, op, env, m, logger)
	svc.Import.now = func() time.Time { return time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC) }

	return testEnv{svc: svc, store: store, metrics: m, csvRoot: env.CsvRoot}
}

func (e testEnv) registerFile(t *testing.T, name string, content string) int64 {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(e.csvRoot, name), []byte(content), 0o600))
	id, existing, err := e.svc.CsvFile.RegisterCsvFile(context.Background(), name, "bank-parser", "Acme Bank")
	require.NoError(t, err)
	require.False(t, existing)
	return id
}

func (e testEnv) transactionCount(t *testing.T, id int64) int64 {
	t.Helper()
	summary, err := e.svc.Import.SummarizeCsvFile(context.Background(), id)
	require.NoError(t, err)
	return summary.TransactionCount
}

// -- LoadCsvFile --

func TestLoadCsvFile_EndToEnd(t *testing.T) {
	env := newTestEnv(t)
	id := env.registerFile(t, "may.csv", threeRows)

	result, err := env.svc.Import.LoadCsvFile(context.Background(), id)

	require.NoError(t, err)
	assert.True(t, result.Success, spew.Sdump(result))
	assert.Equal(t, 4, result.TransactionsInserted)
	assert.Equal(t, 3, result.TagsInserted)
	assert.Equal(t, 3, result.RowsProcessed)
	assert.Equal(t, "may.csv", result.Filename)
	assert.NotZero(t, result.LogID)
	assert.Empty(t, result.Error)

	summary, err := env.svc.Import.SummarizeCsvFile(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []int64{result.LogID}, summary.LogIDs)
	assert.Equal(t, int64(4), summary.TransactionCount)
	assert.True(t, summary.Expenses.Equal(decimal.RequireFromString("-3200")))
	assert.True(t, summary.Income.Equal(decimal.RequireFromString("250000")))
	assert.True(t, summary.Net.Equal(decimal.RequireFromString("246800")))
	assert.Equal(t, int64(1), summary.TransferCount)
	assert.True(t, summary.CsvFile.Loaded())
	assert.Equal(t, "2024-06-01 08:00:00", *summary.CsvFile.LoadedDate)
}

func TestLoadCsvFile_AlreadyLoaded(t *testing.T) {
	env := newTestEnv(t)
	id := env.registerFile(t, "may.csv", threeRows)
	_, err := env.svc.Import.LoadCsvFile(context.Background(), id)
	require.NoError(t, err)

	result, err := env.svc.Import.LoadCsvFile(context.Background(), id)

	assert.ErrorIs(t, err, importer.ErrAlreadyLoaded)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "already loaded")
	assert.Equal(t, int64(4), env.transactionCount(t, id))
}

func TestLoadCsvFile_NotFound(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.svc.Import.LoadCsvFile(context.Background(), 404)

	assert.ErrorIs(t, err, importer.ErrNotFound)
	assert.False(t, result.Success)
}

func TestLoadCsvFile_FileRemovedAfterRegistration(t *testing.T) {
	env := newTestEnv(t)
	id := env.registerFile(t, "may.csv", threeRows)
	require.NoError(t, os.Remove(filepath.Join(env.csvRoot, "may.csv")))

	result, err := env.svc.Import.LoadCsvFile(context.Background(), id)

	assert.ErrorIs(t, err, importer.ErrFileIO)
	assert.Equal(t, "may.csv", result.Filename)
	file, err := env.svc.CsvFile.GetCsvFile(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, file.Loaded())
}

func TestLoadCsvFile_MalformedRowRollsBackEverything(t *testing.T) {
	env := newTestEnv(t)
	id := env.registerFile(t, "may.csv", csvHeader+
		"2024-05-01,Checking,expense,Groceries,,-3200\n"+
		"2024-05-02,Checking,transfer,Internal,Savings,-10000\n"+
		"2024-05-03,Checking,expense,Dining,,twelve\n")

	result, err := env.svc.Import.LoadCsvFile(context.Background(), id)

	assert.ErrorIs(t, err, importer.ErrMalformedRow)
	assert.False(t, result.Success)
	assert.Equal(t, 2, result.RowsProcessed)
	assert.Contains(t, result.Error, "line 4")
	assert.Zero(t, result.LogID)
	assert.Zero(t, env.transactionCount(t, id))

	file, err := env.svc.CsvFile.GetCsvFile(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, file.Loaded())
}

// -- RollbackCsvFile --

func TestRollbackCsvFile_EndToEnd(t *testing.T) {
	env := newTestEnv(t)
	id := env.registerFile(t, "may.csv", threeRows)
	_, err := env.svc.Import.LoadCsvFile(context.Background(), id)
	require.NoError(t, err)

	result, err := env.svc.Import.RollbackCsvFile(context.Background(), id)

	require.NoError(t, err)
	require.NotNil(t, result.ReversedLogCount)
	assert.Equal(t, 1, *result.ReversedLogCount)
	assert.Equal(t, int64(4), result.TransactionsDeleted)
	assert.Equal(t, int64(1), result.LogsDeleted)
	assert.Equal(t, int64(1), result.CsvFilesUpdated)
	assert.NotEmpty(t, result.Lines)
	assert.Zero(t, env.transactionCount(t, id))

	again, err := env.svc.Import.RollbackCsvFile(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, again.ReversedLogCount)
	assert.Equal(t, []string{"may.csv is not loaded"}, again.Lines)

	reload, err := env.svc.Import.LoadCsvFile(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 4, reload.TransactionsInserted)
}

func TestRollbackCsvFile_UnknownFile(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.svc.Import.RollbackCsvFile(context.Background(), 404)

	require.NoError(t, err)
	assert.Nil(t, result.ReversedLogCount)
	assert.Equal(t, []string{"csv file 404 not found"}, result.Lines)
}

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) Process(ctx context.Context, action actions.IAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func newServiceWithProcessor(env testEnv, proc actionProcessor) *ImportService {
	logger := logrus.New()
	logger.Out = io.Discard
	cfg := &config.Config{CsvRoot: env.csvRoot, DefaultAccountType: "other"}
	return NewImportService(env.store, proc, cfg, metrics.New(), logger)
}

func TestLoadCsvFile_CommittedAfterCallerCancelled(t *testing.T) {
	env := newTestEnv(t)
	id := env.registerFile(t, "may.csv", threeRows)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	proc := new(mockProcessor)
	proc.On("Process", mock.Anything, mock.AnythingOfType("*actions.LoadCsvFile")).
		Run(func(args mock.Arguments) {
			// the worker commits, then the caller gives up before the reply
			writer, err := env.store.Write(context.Background())
			require.NoError(t, err)
			require.NoError(t, args.Get(1).(actions.IAction).Perform(context.Background(), writer))
			require.NoError(t, writer.Commit())
			cancel()
		}).
		Return(context.Canceled)

	result, err := newServiceWithProcessor(env, proc).LoadCsvFile(ctx, id)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.NotZero(t, result.LogID)
	assert.Equal(t, 4, result.TransactionsInserted)
	proc.AssertExpectations(t)
}

func TestLoadCsvFile_CancelledBeforeCommit(t *testing.T) {
	env := newTestEnv(t)
	id := env.registerFile(t, "may.csv", threeRows)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	proc := new(mockProcessor)
	proc.On("Process", mock.Anything, mock.AnythingOfType("*actions.LoadCsvFile")).
		Run(func(mock.Arguments) { cancel() }).
		Return(context.Canceled)

	result, err := newServiceWithProcessor(env, proc).LoadCsvFile(ctx, id)

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "load cancelled")
	assert.Zero(t, env.transactionCount(t, id))
}

func TestRollbackCsvFile_StoreFailure(t *testing.T) {
	store := storagetest.New(t)
	proc := new(mockProcessor)
	proc.On("Process", mock.Anything, mock.AnythingOfType("*actions.RollbackCsvFile")).
		Return(errors.New("database is locked"))
	logger := logrus.New()
	logger.Out = io.Discard
	svc := NewImportService(store, proc, &config.Config{DefaultAccountType: "other"}, metrics.New(), logger)

	result, err := svc.RollbackCsvFile(context.Background(), 1)

	assert.Error(t, err)
	assert.Nil(t, result.ReversedLogCount)
	require.Len(t, result.Lines, 1)
	assert.Contains(t, result.Lines[0], "database is locked")
	proc.AssertExpectations(t)
}

// -- SummarizeCsvFile --

func TestSummarizeCsvFile_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Import.SummarizeCsvFile(context.Background(), 404)
	assert.ErrorIs(t, err, importer.ErrNotFound)
}

func TestOutcomeFor(t *testing.T) {
	assert.Equal(t, metrics.OutcomeMalformedRow, outcomeFor(&importer.RowError{Line: 2, Err: importer.ErrMalformedRow}))
	assert.Equal(t, metrics.OutcomeStore, outcomeFor(errors.New("boom")))
	assert.Equal(t, metrics.OutcomeNotFound, outcomeFor(importer.ErrNotFound))
}
