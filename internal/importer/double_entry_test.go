package importer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/ledger-import/internal/storage/transaction"
)

type mockAccountStore struct {
	mock.Mock
}

func (m *mockAccountStore) GetOrCreate(ctx context.Context, name string, accountType string) (int64, error) {
	args := m.Called(ctx, name, accountType)
	return args.Get(0).(int64), args.Error(1)
}

type mockCategoryStore struct {
	mock.Mock
}

func (m *mockCategoryStore) GetOrCreate(ctx context.Context, name string, categoryType string) (int64, error) {
	args := m.Called(ctx, name, categoryType)
	return args.Get(0).(int64), args.Error(1)
}

type mockTagStore struct {
	mock.Mock
}

func (m *mockTagStore) GetOrCreate(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

type mockLedgerStore struct {
	mock.Mock
}

func (m *mockLedgerStore) InsertTransfer(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLedgerStore) Insert(ctx context.Context, create *transaction.TransactionCreate) (int64, error) {
	args := m.Called(ctx, create)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLedgerStore) AttachTag(ctx context.Context, transactionID int64, tagID int64) error {
	args := m.Called(ctx, transactionID, tagID)
	return args.Error(0)
}

type writerMocks struct {
	accounts   *mockAccountStore
	categories *mockCategoryStore
	tags       *mockTagStore
	ledger     *mockLedgerStore
}

func (m writerMocks) assertExpectations(t *testing.T) {
	m.accounts.AssertExpectations(t)
	m.categories.AssertExpectations(t)
	m.tags.AssertExpectations(t)
	m.ledger.AssertExpectations(t)
}

func newTestWriter() (*DoubleEntryWriter, writerMocks) {
	mocks := writerMocks{
		accounts:   new(mockAccountStore),
		categories: new(mockCategoryStore),
		tags:       new(mockTagStore),
		ledger:     new(mockLedgerStore),
	}
	resolver := NewDimensionResolver(mocks.accounts, mocks.categories, mocks.tags, "other")
	return NewDoubleEntryWriter(resolver, mocks.ledger), mocks
}

func plainFact() Fact {
	return Fact{
		Date:         time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Account:      "Checking",
		CategoryType: "expense",
		CategoryName: "Groceries",
		Amount:       decimal.RequireFromString("-3200"),
		ItemName:     null.From("SuperMart"),
		Tags:         []string{"food"},
	}
}

func transferFact() Fact {
	return Fact{
		Date:         time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		Account:      "Checking",
		CategoryType: "transfer",
		CategoryName: "Internal",
		TransferTo:   null.From("Savings"),
		Amount:       decimal.RequireFromString("-10000"),
		Tags:         []string{"personal", "monthly"},
	}
}

// -- plain facts --

func TestWrite_PlainFact(t *testing.T) {
	w, mocks := newTestWriter()
	var seq TransferSequence

	mocks.accounts.On("GetOrCreate", mock.Anything, "Checking", "other").Return(int64(1), nil).Once()
	mocks.categories.On("GetOrCreate", mock.Anything, "Groceries", "expense").Return(int64(10), nil).Once()
	mocks.tags.On("GetOrCreate", mock.Anything, "food").Return(int64(100), nil).Once()
	mocks.ledger.On("Insert", mock.Anything, mock.MatchedBy(func(c *transaction.TransactionCreate) bool {
		return c.AccountID == 1 &&
			c.CategoryID == 10 &&
			c.LogID == 7 &&
			c.TransferID.IsNull() &&
			c.Amount.Equal(decimal.RequireFromString("-3200")) &&
			c.ItemName.GetOrZero() == "SuperMart" &&
			c.TransactionDate == "2024-05-01 00:00:00"
	})).Return(int64(500), nil).Once()
	mocks.ledger.On("AttachTag", mock.Anything, int64(500), int64(100)).Return(nil).Once()

	result, err := w.Write(context.Background(), &seq, plainFact(), 7)

	require.NoError(t, err)
	assert.Equal(t, []int64{500}, result.TransactionIDs)
	assert.True(t, result.TransferID.IsNull())
	assert.Equal(t, 1, result.TagsAttached)
	mocks.ledger.AssertNotCalled(t, "InsertTransfer", mock.Anything, mock.Anything)
	mocks.assertExpectations(t)
}

func TestWrite_DimensionsMemoizedWithinLoad(t *testing.T) {
	w, mocks := newTestWriter()
	var seq TransferSequence

	mocks.accounts.On("GetOrCreate", mock.Anything, "Checking", "other").Return(int64(1), nil).Once()
	mocks.categories.On("GetOrCreate", mock.Anything, "Groceries", "expense").Return(int64(10), nil).Once()
	mocks.tags.On("GetOrCreate", mock.Anything, "food").Return(int64(100), nil).Once()
	mocks.ledger.On("Insert", mock.Anything, mock.Anything).Return(int64(500), nil).Once()
	mocks.ledger.On("Insert", mock.Anything, mock.Anything).Return(int64(501), nil).Once()
	mocks.ledger.On("AttachTag", mock.Anything, mock.Anything, int64(100)).Return(nil).Twice()

	_, err := w.Write(context.Background(), &seq, plainFact(), 7)
	require.NoError(t, err)
	_, err = w.Write(context.Background(), &seq, plainFact(), 7)
	require.NoError(t, err)

	mocks.assertExpectations(t)
}

// -- transfer facts --

func TestWrite_TransferFact(t *testing.T) {
	w, mocks := newTestWriter()
	var seq TransferSequence

	mocks.accounts.On("GetOrCreate", mock.Anything, "Checking", "other").Return(int64(1), nil).Once()
	mocks.accounts.On("GetOrCreate", mock.Anything, "Savings", "other").Return(int64(2), nil).Once()
	mocks.categories.On("GetOrCreate", mock.Anything, "Internal", "transfer").Return(int64(20), nil).Once()
	mocks.tags.On("GetOrCreate", mock.Anything, "personal").Return(int64(100), nil).Once()
	mocks.tags.On("GetOrCreate", mock.Anything, "monthly").Return(int64(101), nil).Once()
	mocks.ledger.On("InsertTransfer", mock.Anything, "20240502_0").Return(int64(40), nil).Once()
	mocks.ledger.On("Insert", mock.Anything, mock.MatchedBy(func(c *transaction.TransactionCreate) bool {
		return c.AccountID == 1 && c.TransferID.GetOrZero() == 40 && c.Amount.Equal(decimal.RequireFromString("-10000"))
	})).Return(int64(600), nil).Once()
	mocks.ledger.On("Insert", mock.Anything, mock.MatchedBy(func(c *transaction.TransactionCreate) bool {
		return c.AccountID == 2 && c.TransferID.GetOrZero() == 40 && c.Amount.Equal(decimal.RequireFromString("10000"))
	})).Return(int64(601), nil).Once()
	for _, txID := range []int64{600, 601} {
		mocks.ledger.On("AttachTag", mock.Anything, txID, int64(100)).Return(nil).Once()
		mocks.ledger.On("AttachTag", mock.Anything, txID, int64(101)).Return(nil).Once()
	}

	result, err := w.Write(context.Background(), &seq, transferFact(), 7)

	require.NoError(t, err)
	assert.Equal(t, []int64{600, 601}, result.TransactionIDs)
	assert.Equal(t, int64(40), result.TransferID.GetOrZero())
	assert.Equal(t, "20240502_0", result.TransferName)
	assert.Equal(t, 4, result.TagsAttached)
	assert.Equal(t, "20240502_1", seq.Observe(transferFact().Date), "sequence advanced after both legs")
	mocks.assertExpectations(t)
}

func TestWrite_TransferLegFailureDoesNotAdvance(t *testing.T) {
	w, mocks := newTestWriter()
	var seq TransferSequence
	fact := transferFact()
	fact.Tags = nil

	mocks.accounts.On("GetOrCreate", mock.Anything, mock.Anything, "other").Return(int64(1), nil)
	mocks.categories.On("GetOrCreate", mock.Anything, mock.Anything, mock.Anything).Return(int64(20), nil)
	mocks.ledger.On("InsertTransfer", mock.Anything, "20240502_0").Return(int64(40), nil).Once()
	mocks.ledger.On("Insert", mock.Anything, mock.Anything).Return(int64(600), nil).Once()
	mocks.ledger.On("Insert", mock.Anything, mock.Anything).Return(int64(0), errors.New("disk full")).Once()

	_, err := w.Write(context.Background(), &seq, fact, 7)

	assert.ErrorIs(t, err, ErrStore)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, "20240502_0", seq.Observe(fact.Date))
}

func TestWrite_ResolverErrorIsStoreError(t *testing.T) {
	w, mocks := newTestWriter()
	var seq TransferSequence

	mocks.accounts.On("GetOrCreate", mock.Anything, "Checking", "other").Return(int64(0), errors.New("database is locked"))

	_, err := w.Write(context.Background(), &seq, plainFact(), 7)

	assert.ErrorIs(t, err, ErrStore)
	mocks.ledger.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}
