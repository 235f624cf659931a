package importer

import (
	"context"

	"github.com/aarondl/opt/null"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-import/internal/storage/transaction"
)

type ledgerStore interface {
	InsertTransfer(ctx context.Context, name string) (int64, error)
	Insert(ctx context.Context, create *transaction.TransactionCreate) (int64, error)
	AttachTag(ctx context.Context, transactionID int64, tagID int64) error
}

// WriteResult lists what one fact produced.
type WriteResult struct {
	TransactionIDs []int64
	TransferID     null.Val[int64]
	TransferName   string
	TagsAttached   int
}

// DoubleEntryWriter persists facts as ledger legs: one leg for a plain fact,
// two opposite legs under a new transfer row for a transfer.
type DoubleEntryWriter struct {
	resolver *DimensionResolver
	ledger   ledgerStore
}

func NewDoubleEntryWriter(resolver *DimensionResolver, ledger ledgerStore) *DoubleEntryWriter {
	return &DoubleEntryWriter{
		resolver: resolver,
		ledger:   ledger,
	}
}

func (w *DoubleEntryWriter) Write(ctx context.Context, seq *TransferSequence, fact Fact, logID int64) (WriteResult, error) {
	accountID, err := w.resolver.Account(ctx, fact.Account)
	if err != nil {
		return WriteResult{}, err
	}
	categoryID, err := w.resolver.Category(ctx, fact.CategoryName, fact.CategoryType)
	if err != nil {
		return WriteResult{}, err
	}
	tagIDs, err := w.resolver.Tags(ctx, fact.Tags)
	if err != nil {
		return WriteResult{}, err
	}

	if !fact.IsTransfer() {
		id, attached, err := w.writeLeg(ctx, fact, accountID, categoryID, logID, null.Val[int64]{}, fact.Amount, tagIDs)
		if err != nil {
			return WriteResult{}, err
		}
		return WriteResult{TransactionIDs: []int64{id}, TagsAttached: attached}, nil
	}

	destinationID, err := w.resolver.Account(ctx, fact.TransferTo.GetOrZero())
	if err != nil {
		return WriteResult{}, err
	}

	label := seq.Observe(fact.Date)
	transferID, err := w.ledger.InsertTransfer(ctx, label)
	if err != nil {
		return WriteResult{}, storeError("insert transfer", err)
	}

	result := WriteResult{
		TransferID:   null.From(transferID),
		TransferName: label,
	}
	legs := []struct {
		accountID int64
		amount    decimal.Decimal
	}{
		{accountID, fact.Amount},
		{destinationID, fact.Amount.Neg()},
	}
	for _, leg := range legs {
		id, attached, err := w.writeLeg(ctx, fact, leg.accountID, categoryID, logID, null.From(transferID), leg.amount, tagIDs)
		if err != nil {
			return WriteResult{}, err
		}
		result.TransactionIDs = append(result.TransactionIDs, id)
		result.TagsAttached += attached
	}

	seq.Advance()
	return result, nil
}

func (w *DoubleEntryWriter) writeLeg(
	ctx context.Context,
	fact Fact,
	accountID int64,
	categoryID int64,
	logID int64,
	transferID null.Val[int64],
	amount decimal.Decimal,
	tagIDs []int64,
) (int64, int, error) {
	id, err := w.ledger.Insert(ctx, &transaction.TransactionCreate{
		AccountID:       accountID,
		CategoryID:      categoryID,
		LogID:           logID,
		TransferID:      transferID,
		Amount:          amount,
		ItemName:        fact.ItemName,
		Description:     fact.Description,
		TransactionDate: fact.Date.Format(DateTimeLayout),
		Memo:            fact.Memo,
	})
	if err != nil {
		return 0, 0, storeError("insert transaction", err)
	}

	for _, tagID := range tagIDs {
		if err = w.ledger.AttachTag(ctx, id, tagID); err != nil {
			return 0, 0, storeError("attach tag", err)
		}
	}
	return id, len(tagIDs), nil
}
