package importer_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openledgerhq/ledgerd/internal/importer"
	"github.com/openledgerhq/ledgerd/internal/journal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParseRows(t *testing.T) {
	input := strings.Join([]string{
		"date,entry,account_code,debit,credit,description",
		"2024-01-15,sale-1,1000,1000.00,,Cash sale",
		"2024-01-15,sale-1,4000,,1000.00,Cash sale",
		"2024-01-16,,6000,250,,Rent",
	}, "\n")

	rows, rowErrs, err := importer.ParseRows(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 3)

	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), rows[0].Date)
	assert.Equal(t, "sale-1", rows[0].EntryKey)
	assert.Equal(t, "1000", rows[0].AccountCode)
	assert.Equal(t, "1000", rows[0].Debit.String())
	assert.True(t, rows[0].Credit.IsZero())
	assert.Equal(t, "Cash sale", rows[0].Description)

	assert.Equal(t, "1000", rows[1].Credit.String())
	assert.Empty(t, rows[2].EntryKey)
}

func TestParseRows_CollectsRowErrors(t *testing.T) {
	input := strings.Join([]string{
		"date,entry,account_code,debit,credit,description",
		"not-a-date,x,1000,100,,bad date",
		"2024-01-15,x,,100,,missing account",
		"2024-01-15,x,1000,abc,,bad amount",
		"2024-01-15,x,1000,100,,good",
	}, "\n")

	rows, rowErrs, err := importer.ParseRows(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "good", rows[0].Description)

	require.Len(t, rowErrs, 3)
	assert.Equal(t, 2, rowErrs[0].Line)
	assert.Equal(t, 3, rowErrs[1].Line)
	assert.Equal(t, 4, rowErrs[2].Line)
}

func TestParseRows_NoHeader(t *testing.T) {
	rows, rowErrs, err := importer.ParseRows(strings.NewReader("2024-01-15,x,1000,100,,headerless\n"))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 1)
	assert.Equal(t, "headerless", rows[0].Description)
}

func TestParseRows_Empty(t *testing.T) {
	rows, rowErrs, err := importer.ParseRows(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, rowErrs)
}

func TestGroupRows(t *testing.T) {
	day1 := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)

	rows := []importer.Row{
		{Date: day1, EntryKey: "sale-1", AccountCode: "1000", Debit: dec("1000"), Description: "Cash sale"},
		{Date: day1, EntryKey: "sale-1", AccountCode: "4000", Credit: dec("1000"), Description: "Cash sale"},
		{Date: day2, EntryKey: "", AccountCode: "6000", Debit: dec("250"), Description: "Rent"},
		{Date: day2, EntryKey: "", AccountCode: "1000", Credit: dec("250"), Description: "Rent"},
	}

	entries := importer.GroupRows(rows)
	require.Len(t, entries, 2)

	assert.Equal(t, day1, entries[0].EntryDate)
	assert.Equal(t, journal.RefManual, entries[0].ReferenceType)
	require.Len(t, entries[0].Lines, 2)
	assert.Equal(t, "1000", entries[0].Lines[0].AccountCode)
	assert.Equal(t, "4000", entries[0].Lines[1].AccountCode)

	assert.Equal(t, day2, entries[1].EntryDate)
	require.Len(t, entries[1].Lines, 2)
}

func TestGroupRows_SameKeyDifferentDates(t *testing.T) {
	day1 := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)

	rows := []importer.Row{
		{Date: day1, EntryKey: "adj", AccountCode: "1000", Debit: dec("10")},
		{Date: day2, EntryKey: "adj", AccountCode: "1000", Debit: dec("20")},
	}

	// The same key on different dates is two entries.
	entries := importer.GroupRows(rows)
	assert.Len(t, entries, 2)
}
