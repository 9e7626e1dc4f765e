package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openledgerhq/ledgerd/internal/encoding"
	"github.com/openledgerhq/ledgerd/internal/journal"
)

// Header is the expected journal CSV header.
const Header = "date,entry,account_code,debit,credit,description"

const (
	numFields  = 6
	colDate    = 0
	colEntry   = 1
	colAccount = 2
	colDebit   = 3
	colCredit  = 4
	colDesc    = 5
)

// Row is one parsed CSV line before grouping.
type Row struct {
	Date        time.Time
	EntryKey    string
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

// RowError reports a row that could not be parsed. Line is 1-based and
// counts the header.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

// ParseRows reads journal rows from a CSV upload, decoding the content to
// UTF-8 first. Malformed rows are collected, not fatal.
func ParseRows(r io.Reader) ([]Row, []RowError, error) {
	decoded, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding upload: %w", err)
	}

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = numFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading journal CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil, nil
	}

	start := 0
	if isHeader(records[0]) {
		start = 1
	}

	var (
		rows    []Row
		rowErrs []RowError
	)

	for i, rec := range records[start:] {
		row, err := parseRow(rec)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: start + i + 1, Err: err})
			continue
		}

		rows = append(rows, row)
	}

	return rows, rowErrs, nil
}

func isHeader(rec []string) bool {
	return len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[colDate]), "date")
}

func parseRow(rec []string) (Row, error) {
	date, err := time.Parse(time.DateOnly, strings.TrimSpace(rec[colDate]))
	if err != nil {
		return Row{}, fmt.Errorf("invalid date %q", rec[colDate])
	}

	code := strings.TrimSpace(rec[colAccount])
	if code == "" {
		return Row{}, fmt.Errorf("missing account code")
	}

	debit, err := parseAmount(rec[colDebit])
	if err != nil {
		return Row{}, fmt.Errorf("invalid debit %q", rec[colDebit])
	}

	credit, err := parseAmount(rec[colCredit])
	if err != nil {
		return Row{}, fmt.Errorf("invalid credit %q", rec[colCredit])
	}

	return Row{
		Date:        date,
		EntryKey:    strings.TrimSpace(rec[colEntry]),
		AccountCode: code,
		Debit:       debit,
		Credit:      credit,
		Description: strings.TrimSpace(rec[colDesc]),
	}, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}

	return decimal.NewFromString(s)
}

// GroupRows turns parsed rows into posting params, one entry per
// (entry key, date) in first-seen order. Rows without an entry key are
// grouped by date alone.
func GroupRows(rows []Row) []journal.PostParams {
	type groupKey struct {
		Key  string
		Date string
	}

	groups := make(map[groupKey]*journal.PostParams)

	var order []groupKey

	for _, row := range rows {
		k := groupKey{Key: row.EntryKey, Date: row.Date.Format(time.DateOnly)}

		params, ok := groups[k]
		if !ok {
			params = &journal.PostParams{
				EntryDate:     row.Date,
				Description:   row.Description,
				ReferenceType: journal.RefManual,
			}
			groups[k] = params
			order = append(order, k)
		}

		params.Lines = append(params.Lines, journal.LineParams{
			AccountCode: row.AccountCode,
			Debit:       row.Debit,
			Credit:      row.Credit,
			Description: row.Description,
		})
	}

	entries := make([]journal.PostParams, len(order))
	for i, k := range order {
		entries[i] = *groups[k]
	}

	return entries
}
