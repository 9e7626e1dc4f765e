package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openledgerhq/ledgerd/internal/account"
	"github.com/openledgerhq/ledgerd/internal/journal"
	"github.com/openledgerhq/ledgerd/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `
		SELECT a.id, a.code, a.name, a.type, a.category, a.parent_id, a.description,
		       a.is_system, a.is_active, a.balance, a.created_at, a.updated_at
		FROM accounts a
		WHERE a.id = $1
	`

	var a account.Account

	var typeStr string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.Code, &a.Name, &typeStr, &a.Category, &a.ParentID, &a.Description,
		&a.IsSystem, &a.IsActive, &a.Balance, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrNotFound
		}

		return nil, fmt.Errorf("getting account: %w", err)
	}

	a.Type = account.Type(typeStr)

	return &a, nil
}

func (s *Store) SumBefore(ctx context.Context, accountID uuid.UUID, before time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.id = l.entry_id
		WHERE l.account_id = $1 AND e.is_posted AND e.entry_date < $2
	`

	var debit, credit decimal.Decimal
	if err := s.db.QueryRowContext(ctx, query, accountID, before).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("summing prior lines: %w", err)
	}

	return debit, credit, nil
}

func (s *Store) Lines(ctx context.Context, accountID uuid.UUID, startDate, endDate *time.Time) ([]ledger.Line, error) {
	query := `
		SELECT e.id, e.entry_number, e.entry_date, e.description, e.reference_type, e.reference_id,
		       l.debit, l.credit, l.description
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.id = l.entry_id
		WHERE l.account_id = $1 AND e.is_posted
	`

	args := []any{accountID}
	argIdx := 2

	if startDate != nil {
		query += fmt.Sprintf(" AND e.entry_date >= $%d", argIdx)

		args = append(args, *startDate)
		argIdx++
	}

	if endDate != nil {
		query += fmt.Sprintf(" AND e.entry_date <= $%d", argIdx)

		args = append(args, *endDate)
		argIdx++
	}

	query += " ORDER BY e.entry_date ASC, e.created_at ASC, l.line_no ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying ledger lines: %w", err)
	}
	defer rows.Close()

	var lines []ledger.Line

	for rows.Next() {
		var line ledger.Line

		var (
			entryDesc string
			lineDesc  string
			refType   sql.NullString
		)

		if err := rows.Scan(
			&line.EntryID, &line.EntryNumber, &line.EntryDate, &entryDesc, &refType, &line.ReferenceID,
			&line.Debit, &line.Credit, &lineDesc,
		); err != nil {
			return nil, fmt.Errorf("scanning ledger line: %w", err)
		}

		line.ReferenceType = journal.ReferenceType(refType.String)

		// Prefer the line's own narration, fall back to the entry's.
		line.Description = lineDesc
		if line.Description == "" {
			line.Description = entryDesc
		}

		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ledger lines: %w", err)
	}

	return lines, nil
}
