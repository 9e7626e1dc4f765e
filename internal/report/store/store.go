package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/openledgerhq/ledgerd/internal/account"
	"github.com/openledgerhq/ledgerd/internal/report"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const totalsQuery = `
	SELECT a.id, a.code, a.name, a.type, a.category,
	       COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
	FROM accounts a
	JOIN journal_entry_lines l ON l.account_id = a.id
	JOIN journal_entries e ON e.id = l.entry_id
	WHERE e.is_posted AND %s
	GROUP BY a.id, a.code, a.name, a.type, a.category
	ORDER BY a.code ASC
`

func (s *Store) Movements(ctx context.Context, start, end time.Time) ([]report.AccountTotals, error) {
	query := fmt.Sprintf(totalsQuery, "e.entry_date >= $1 AND e.entry_date <= $2")
	return s.queryTotals(ctx, query, start, end)
}

func (s *Store) BalancesAsOf(ctx context.Context, asOf time.Time) ([]report.AccountTotals, error) {
	query := fmt.Sprintf(totalsQuery, "e.entry_date <= $1")
	return s.queryTotals(ctx, query, asOf)
}

func (s *Store) queryTotals(ctx context.Context, query string, args ...any) ([]report.AccountTotals, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying account totals: %w", err)
	}
	defer rows.Close()

	var totals []report.AccountTotals

	for rows.Next() {
		var t report.AccountTotals

		var typeStr string

		if err := rows.Scan(
			&t.AccountID, &t.AccountCode, &t.AccountName, &typeStr, &t.Category,
			&t.Debit, &t.Credit,
		); err != nil {
			return nil, fmt.Errorf("scanning account totals: %w", err)
		}

		t.AccountType = account.Type(typeStr)

		totals = append(totals, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating account totals: %w", err)
	}

	return totals, nil
}
