package storage_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/davecgh/go-spew/spew"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/ledger-import/internal/storage"
	"github.com/carson-networks/ledger-import/internal/storage/storagetest"
	"github.com/carson-networks/ledger-import/internal/storage/transaction"
)

func withWriter(t *testing.T, store *storage.Storage, fn func(w *storage.Writer)) {
	t.Helper()
	w, err := store.Write(context.Background())
	require.NoError(t, err)
	fn(w)
	require.NoError(t, w.Commit())
}

// -- dimension tests --

func TestAccountGetOrCreate_ReusesExistingRow(t *testing.T) {
	store := storagetest.New(t)
	ctx := context.Background()

	withWriter(t, store, func(w *storage.Writer) {
		first, err := w.Account.GetOrCreate(ctx, "Checking", "other")
		require.NoError(t, err)
		second, err := w.Account.GetOrCreate(ctx, "Checking", "bank")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	count, err := store.Read().Accounts.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	acc, err := store.Read().Accounts.FindByName(ctx, "Checking")
	require.NoError(t, err)
	assert.Equal(t, "other", acc.AccountType, "existing type is never overwritten")
}

func TestCategoryGetOrCreate_KeyedByNameAndType(t *testing.T) {
	store := storagetest.New(t)
	ctx := context.Background()

	withWriter(t, store, func(w *storage.Writer) {
		groceries, err := w.Category.GetOrCreate(ctx, "Groceries", "expense")
		require.NoError(t, err)
		dining, err := w.Category.GetOrCreate(ctx, "Dining", "expense")
		require.NoError(t, err)
		groceriesIncome, err := w.Category.GetOrCreate(ctx, "Groceries", "income")
		require.NoError(t, err)
		again, err := w.Category.GetOrCreate(ctx, "Groceries", "expense")
		require.NoError(t, err)

		assert.NotEqual(t, groceries, dining)
		assert.NotEqual(t, groceries, groceriesIncome)
		assert.Equal(t, groceries, again)
	})

	categories, err := store.Read().Categories.List(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 3, spew.Sdump(categories))
}

func TestTagGetOrCreate_RolledBackInsertIsNotVisible(t *testing.T) {
	store := storagetest.New(t)
	ctx := context.Background()

	w, err := store.Write(ctx)
	require.NoError(t, err)
	_, err = w.Tag.GetOrCreate(ctx, "personal")
	require.NoError(t, err)
	require.NoError(t, w.Rollback())

	_, err = store.Read().Tags.FindByName(ctx, "personal")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

// -- ledger tests --

func TestTransactionWriter_InsertTagAndDelete(t *testing.T) {
	store := storagetest.New(t)
	ctx := context.Background()

	var csvFileID, logID, transferID int64
	withWriter(t, store, func(w *storage.Writer) {
		var err error
		csvFileID, err = w.CsvFile.Insert(ctx, "may.csv", null.Val[int64]{}, null.Val[string]{})
		require.NoError(t, err)
		logID, err = w.DataLog.Insert(ctx, csvFileID, time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		checking, err := w.Account.GetOrCreate(ctx, "Checking", "other")
		require.NoError(t, err)
		savings, err := w.Account.GetOrCreate(ctx, "Savings", "other")
		require.NoError(t, err)
		groceries, err := w.Category.GetOrCreate(ctx, "Groceries", "expense")
		require.NoError(t, err)
		internal, err := w.Category.GetOrCreate(ctx, "Internal", "transfer")
		require.NoError(t, err)
		personal, err := w.Tag.GetOrCreate(ctx, "personal")
		require.NoError(t, err)

		plainID, err := w.Transaction.Insert(ctx, &transaction.TransactionCreate{
			AccountID:       checking,
			CategoryID:      groceries,
			LogID:           logID,
			Amount:          decimal.RequireFromString("-3200"),
			ItemName:        null.From("SuperMart"),
			TransactionDate: "2024-05-01",
		})
		require.NoError(t, err)
		require.NoError(t, w.Transaction.AttachTag(ctx, plainID, personal))

		transferID, err = w.Transaction.InsertTransfer(ctx, "20240502_0")
		require.NoError(t, err)
		for _, leg := range []struct {
			account int64
			amount  string
		}{{checking, "-10000"}, {savings, "10000"}} {
			_, err = w.Transaction.Insert(ctx, &transaction.TransactionCreate{
				AccountID:       leg.account,
				CategoryID:      internal,
				LogID:           logID,
				TransferID:      null.From(transferID),
				Amount:          decimal.RequireFromString(leg.amount),
				TransactionDate: "2024-05-02",
			})
			require.NoError(t, err)
		}
	})

	reader := store.Read()
	rows, err := reader.Transactions.ListByLogIDs(ctx, []int64{logID})
	require.NoError(t, err)
	require.Len(t, rows, 3, spew.Sdump(rows))
	assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("-3200")))
	assert.Equal(t, "SuperMart", rows[0].ItemName.GetOrZero())
	assert.True(t, rows[0].TransferID.IsNull())
	assert.True(t, rows[1].Amount.Add(rows[2].Amount).IsZero())

	names, err := reader.Tags.NamesForTransaction(ctx, rows[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"personal"}, names)

	summary, err := reader.Transactions.SummaryForCsvFile(ctx, csvFileID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TransactionCount)
	assert.True(t, summary.Expenses.Equal(decimal.RequireFromString("-3200")), summary.Expenses.String())
	assert.True(t, summary.Income.IsZero())
	assert.Equal(t, int64(1), summary.TransferCount)
	assert.True(t, summary.TransferTotal.Equal(decimal.RequireFromString("10000")))

	transferIDs, err := reader.Transactions.TransferIDsByLogIDs(ctx, []int64{logID})
	require.NoError(t, err)
	assert.Equal(t, []int64{transferID}, transferIDs)

	withWriter(t, store, func(w *storage.Writer) {
		tagsDeleted, err := w.Transaction.DeleteTagsByLogIDs(ctx, []int64{logID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), tagsDeleted)

		deleted, err := w.Transaction.DeleteByLogIDs(ctx, []int64{logID})
		require.NoError(t, err)
		assert.Equal(t, int64(3), deleted)

		transfers, err := w.Transaction.DeleteOrphanTransfers(ctx, transferIDs)
		require.NoError(t, err)
		assert.Equal(t, int64(1), transfers)
	})

	remaining, err := reader.Transactions.CountTransfers(ctx)
	require.NoError(t, err)
	assert.Zero(t, remaining)
}

func TestTransactionWriter_EmptyIDSetsAreNoOps(t *testing.T) {
	store := storagetest.New(t)
	ctx := context.Background()

	withWriter(t, store, func(w *storage.Writer) {
		n, err := w.Transaction.DeleteByLogIDs(ctx, nil)
		assert.NoError(t, err)
		assert.Zero(t, n)

		n, err = w.Transaction.DeleteOrphanTransfers(ctx, []int64{})
		assert.NoError(t, err)
		assert.Zero(t, n)
	})

	rows, err := store.Read().Transactions.ListByLogIDs(ctx, nil)
	assert.NoError(t, err)
	assert.Empty(t, rows)
}

// -- csv file tests --

func TestCsvFileWriter_MarkAndClearLoaded(t *testing.T) {
	store := storagetest.New(t)
	ctx := context.Background()

	var id int64
	withWriter(t, store, func(w *storage.Writer) {
		agentID, err := w.CsvFile.GetOrCreateAgent(ctx, "bank-parser")
		require.NoError(t, err)
		again, err := w.CsvFile.GetOrCreateAgent(ctx, "bank-parser")
		require.NoError(t, err)
		assert.Equal(t, agentID, again)

		id, err = w.CsvFile.Insert(ctx, "may.csv", null.From(agentID), null.From("Acme Bank"))
		require.NoError(t, err)

		updated, err := w.CsvFile.MarkLoaded(ctx, id, time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, int64(1), updated)
	})

	file, err := store.Read().CsvFiles.FindByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, file.IsLoaded())
	assert.Equal(t, "2024-06-01 10:30:00", file.LoadedDate.GetOrZero())
	assert.Equal(t, "Acme Bank", file.OrgName.GetOrZero())

	withWriter(t, store, func(w *storage.Writer) {
		updated, err := w.CsvFile.ClearLoaded(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(1), updated)
	})

	file, err = store.Read().CsvFiles.FindByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, file.IsLoaded())

	_, err = store.Read().CsvFiles.FindByID(ctx, id+100)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
