package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/shopspring/decimal"
)

// Record columns, 0-indexed.
const (
	colDate = iota
	colAccount
	colCategoryType
	colCategoryName
	colTransferTo
	colAmount
	colItemName
	colTags
	colDescription
	colMemo
)

// MinFields is the shortest record that reaches the amount column. Shorter
// records are skipped.
const MinFields = colAmount + 1

const (
	DateTimeLayout = "2006-01-02 15:04:05"
	DateLayout     = "2006-01-02"
)

// Fact is one validated csv record.
type Fact struct {
	Date         time.Time
	Account      string
	CategoryType string
	CategoryName string
	TransferTo   null.Val[string]
	Amount       decimal.Decimal
	ItemName     null.Val[string]
	Tags         []string
	Description  null.Val[string]
	Memo         null.Val[string]
}

// IsTransfer reports whether the fact moves money to a second account.
func (f Fact) IsTransfer() bool {
	return f.TransferTo.IsValue()
}

// ParseRow turns one record into a Fact. skip is true for records too short
// to carry an amount; a malformed date or amount returns ErrMalformedRow.
func ParseRow(fields []string) (fact Fact, skip bool, err error) {
	if len(fields) < MinFields {
		return Fact{}, true, nil
	}

	fact.Date, err = parseDate(fields[colDate])
	if err != nil {
		return Fact{}, false, err
	}

	fact.Account = strings.TrimSpace(fields[colAccount])
	fact.CategoryType = strings.TrimSpace(fields[colCategoryType])
	fact.CategoryName = strings.TrimSpace(fields[colCategoryName])
	fact.TransferTo = optionalField(fields, colTransferTo)

	rawAmount := strings.TrimSpace(fields[colAmount])
	fact.Amount, err = decimal.NewFromString(rawAmount)
	if err != nil {
		return Fact{}, false, malformed("invalid amount %q", rawAmount)
	}

	fact.ItemName = optionalField(fields, colItemName)
	fact.Tags = parseTags(optionalField(fields, colTags).GetOrZero())
	fact.Description = optionalField(fields, colDescription)
	fact.Memo = optionalField(fields, colMemo)

	return fact, false, nil
}

func parseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if t, err := time.Parse(DateTimeLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, malformed("invalid date %q", value)
	}
	return t, nil
}

// optionalField treats a missing column, a blank value and the literal
// "None" as absent.
func optionalField(fields []string, index int) null.Val[string] {
	if index >= len(fields) {
		return null.Val[string]{}
	}
	value := strings.TrimSpace(fields[index])
	if value == "" || value == "None" {
		return null.Val[string]{}
	}
	return null.From(value)
}

// parseTags reads "[a|b|c]" or "a|b|c". Blank pieces are dropped and a
// repeated name is kept once.
func parseTags(raw string) []string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		raw = raw[1 : len(raw)-1]
	}
	if raw == "" {
		return nil
	}

	var tags []string
	seen := make(map[string]struct{})
	for _, piece := range strings.Split(raw, "|") {
		name := strings.TrimSpace(piece)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		tags = append(tags, name)
	}
	return tags
}

// RecordReader streams the data records of a csv file, consuming the header
// row first.
type RecordReader struct {
	csv        *csv.Reader
	headerRead bool
}

func NewRecordReader(r io.Reader) *RecordReader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	return &RecordReader{csv: reader}
}

// Next returns the next record and its line number, or io.EOF after the last
// one. A file without a header row is malformed.
func (r *RecordReader) Next() ([]string, int, error) {
	if !r.headerRead {
		if _, err := r.csv.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, 0, malformed("missing header row")
			}
			return nil, 1, r.wrap(err)
		}
		r.headerRead = true
	}

	record, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, io.EOF
		}
		return nil, lineOf(err), r.wrap(err)
	}
	line, _ := r.csv.FieldPos(0)
	return record, line, nil
}

func (r *RecordReader) wrap(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: %w", ErrMalformedRow, err)
	}
	return fmt.Errorf("%w: read csv: %w", ErrFileIO, err)
}

func lineOf(err error) int {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.StartLine
	}
	return 0
}
