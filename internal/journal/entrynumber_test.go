package journal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openledgerhq/ledgerd/internal/journal"
)

func TestFormatEntryNumber(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "JE-20240115-0001", journal.FormatEntryNumber(day, 1))
	assert.Equal(t, "JE-20240115-0042", journal.FormatEntryNumber(day, 42))
	assert.Equal(t, "JE-20240115-10000", journal.FormatEntryNumber(day, 10000))
}

func TestParseEntryNumber(t *testing.T) {
	day, seq, err := journal.ParseEntryNumber("JE-20240115-0003")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), day)
	assert.Equal(t, 3, seq)

	for _, bad := range []string{"", "JE-20240115", "INV-20240115-0003", "JE-2024011-0003", "JE-20240115-abc"} {
		_, _, err := journal.ParseEntryNumber(bad)
		assert.Error(t, err, "number %q", bad)
	}
}
