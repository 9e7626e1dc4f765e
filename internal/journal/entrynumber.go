package journal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatEntryNumber returns an entry number like "JE-20240115-0003".
// Sequences restart per day, so numbers sort chronologically.
func FormatEntryNumber(day time.Time, seq int) string {
	return fmt.Sprintf("JE-%s-%04d", day.Format("20060102"), seq)
}

// ParseEntryNumber parses "JE-20240115-0003" into its day and sequence.
func ParseEntryNumber(number string) (time.Time, int, error) {
	parts := strings.SplitN(number, "-", 3)
	if len(parts) != 3 || parts[0] != "JE" {
		return time.Time{}, 0, fmt.Errorf("invalid entry number format: %q", number)
	}

	day, err := time.Parse("20060102", parts[1])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid day in entry number %q: %w", number, err)
	}

	seq, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid sequence in entry number %q: %w", number, err)
	}

	return day, seq, nil
}
