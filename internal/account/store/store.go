package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/openledgerhq/ledgerd/internal/account"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectAccountColumns = `
	a.id, a.code, a.name, a.type, a.category, a.parent_id, a.description,
	a.is_system, a.is_active, a.balance, a.created_at, a.updated_at
`

func scanAccount(s scanner) (*account.Account, error) {
	var a account.Account

	var typeStr string

	if err := s.Scan(
		&a.ID, &a.Code, &a.Name, &typeStr, &a.Category, &a.ParentID, &a.Description,
		&a.IsSystem, &a.IsActive, &a.Balance, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}

	a.Type = account.Type(typeStr)

	return &a, nil
}

func (s *Store) CreateAccount(ctx context.Context, a *account.Account) error {
	query := `
		INSERT INTO accounts (code, name, type, category, parent_id, description, is_system, is_active, balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, NOW())
		RETURNING id, balance, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		a.Code,
		a.Name,
		a.Type,
		a.Category,
		a.ParentID,
		a.Description,
		a.IsSystem,
		a.IsActive,
	).Scan(&a.ID, &a.Balance, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating account: %w", err)
	}

	return nil
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts a WHERE a.id = $1`

	a, err := scanAccount(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrNotFound
		}

		return nil, fmt.Errorf("getting account: %w", err)
	}

	return a, nil
}

func (s *Store) GetAccountByCode(ctx context.Context, code string) (*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts a WHERE a.code = $1`

	a, err := scanAccount(s.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrNotFound
		}

		return nil, fmt.Errorf("getting account by code: %w", err)
	}

	return a, nil
}

func (s *Store) ListAccounts(ctx context.Context, filter account.ListFilter) ([]*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts a WHERE TRUE`

	if filter.ActiveOnly {
		query += " AND a.is_active"
	}

	if filter.ParentOnly {
		query += " AND a.parent_id IS NULL"
	}

	query += " ORDER BY a.code ASC"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}

		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating accounts: %w", err)
	}

	return accounts, nil
}

func (s *Store) UpdateAccount(ctx context.Context, a *account.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, type = $2, category = $3, parent_id = $4, description = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7
	`

	_, err := s.db.ExecContext(ctx, query,
		a.Name,
		a.Type,
		a.Category,
		a.ParentID,
		a.Description,
		a.IsActive,
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating account: %w", err)
	}

	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}

	return nil
}

func (s *Store) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE code = $1)`, code,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking account code: %w", err)
	}

	return exists, nil
}

func (s *Store) HasJournalLines(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM journal_entry_lines WHERE account_id = $1)`, id,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking journal lines: %w", err)
	}

	return exists, nil
}

// ResetAll wipes the journal and zeroes every balance in one transaction.
// The chart of accounts itself is preserved.
func (s *Store) ResetAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning reset tx: %w", err)
	}
	defer tx.Rollback()

	statements := []string{
		`DELETE FROM journal_entry_lines`,
		`DELETE FROM journal_entries`,
		`DELETE FROM entry_sequences`,
		`UPDATE accounts SET balance = 0, updated_at = NOW()`,
	}

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("resetting ledger: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing reset: %w", err)
	}

	return nil
}
