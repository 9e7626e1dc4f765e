package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openledgerhq/ledgerd/internal/account"
	"github.com/openledgerhq/ledgerd/internal/journal"
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

const selectEntryColumns = `
	e.id, e.entry_number, e.entry_date, e.description, e.reference_type, e.reference_id,
	e.total_debit, e.total_credit, e.is_posted, e.is_reversed, e.created_at
`

func scanEntry(s scanner) (*journal.Entry, error) {
	var e journal.Entry

	var refType sql.NullString

	if err := s.Scan(
		&e.ID, &e.EntryNumber, &e.EntryDate, &e.Description, &refType, &e.ReferenceID,
		&e.TotalDebit, &e.TotalCredit, &e.IsPosted, &e.IsReversed, &e.CreatedAt,
	); err != nil {
		return nil, err
	}

	e.ReferenceType = journal.ReferenceType(refType.String)

	return &e, nil
}

func (s *Store) GetEntry(ctx context.Context, id uuid.UUID) (*journal.Entry, error) {
	query := `SELECT ` + selectEntryColumns + ` FROM journal_entries e WHERE e.id = $1`

	e, err := scanEntry(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, journal.ErrNotFound
		}

		return nil, fmt.Errorf("getting journal entry: %w", err)
	}

	if err := s.loadLines(ctx, []*journal.Entry{e}); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Store) ListEntries(ctx context.Context, filter journal.ListFilter) ([]*journal.Entry, error) {
	query := `SELECT ` + selectEntryColumns + ` FROM journal_entries e WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND e.entry_date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND e.entry_date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.ReferenceType != nil {
		query += fmt.Sprintf(" AND e.reference_type = $%d", argIdx)

		args = append(args, string(*filter.ReferenceType))
		argIdx++
	}

	query += " ORDER BY e.entry_date DESC, e.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing journal entries: %w", err)
	}
	defer rows.Close()

	var entries []*journal.Entry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating journal entries: %w", err)
	}

	if err := s.loadLines(ctx, entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// loadLines attaches lines (with account code and name) to the given
// entries in creation order.
func (s *Store) loadLines(ctx context.Context, entries []*journal.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*journal.Entry, len(entries))
	placeholders := make([]string, len(entries))
	args := make([]any, len(entries))

	for i, e := range entries {
		byID[e.ID] = e
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = e.ID
	}

	query := fmt.Sprintf(`
		SELECT l.id, l.entry_id, l.account_id, a.code, a.name, l.debit, l.credit, l.description
		FROM journal_entry_lines l
		JOIN accounts a ON a.id = l.account_id
		WHERE l.entry_id IN (%s)
		ORDER BY l.entry_id, l.line_no ASC
	`, strings.Join(placeholders, ", "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("loading journal lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l journal.Line
		if err := rows.Scan(
			&l.ID, &l.EntryID, &l.AccountID, &l.AccountCode, &l.AccountName,
			&l.Debit, &l.Credit, &l.Description,
		); err != nil {
			return fmt.Errorf("scanning journal line: %w", err)
		}

		if e, ok := byID[l.EntryID]; ok {
			e.Lines = append(e.Lines, l)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating journal lines: %w", err)
	}

	return nil
}

type postTx struct {
	tx *sql.Tx
}

func (s *Store) BeginPost(ctx context.Context) (journal.PostTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning posting tx: %w", err)
	}

	return &postTx{tx: tx}, nil
}

func (p *postTx) Commit() error   { return p.tx.Commit() }
func (p *postTx) Rollback() error { return p.tx.Rollback() }

// LockAccounts selects the referenced accounts FOR UPDATE in code order.
// The deterministic ordering means two postings sharing accounts acquire
// their row locks in the same sequence and cannot deadlock each other.
func (p *postTx) LockAccounts(ctx context.Context, codes []string, ids []uuid.UUID) ([]*account.Account, error) {
	if len(codes) == 0 && len(ids) == 0 {
		return nil, nil
	}

	var (
		conditions []string
		args       []any
	)

	argIdx := 1

	for _, code := range codes {
		conditions = append(conditions, fmt.Sprintf("a.code = $%d", argIdx))

		args = append(args, code)
		argIdx++
	}

	for _, id := range ids {
		conditions = append(conditions, fmt.Sprintf("a.id = $%d", argIdx))

		args = append(args, id)
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT a.id, a.code, a.name, a.type, a.category, a.parent_id, a.description,
		       a.is_system, a.is_active, a.balance, a.created_at, a.updated_at
		FROM accounts a
		WHERE %s
		ORDER BY a.code ASC
		FOR UPDATE
	`, strings.Join(conditions, " OR "))

	rows, err := p.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("locking accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account

	for rows.Next() {
		var a account.Account

		var typeStr string

		if err := rows.Scan(
			&a.ID, &a.Code, &a.Name, &typeStr, &a.Category, &a.ParentID, &a.Description,
			&a.IsSystem, &a.IsActive, &a.Balance, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning locked account: %w", err)
		}

		a.Type = account.Type(typeStr)

		accounts = append(accounts, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating locked accounts: %w", err)
	}

	return accounts, nil
}

// NextEntryNumber bumps the per-day sequence row. The upsert serializes
// concurrent postings for the same day, which keeps numbers gap-free.
func (p *postTx) NextEntryNumber(ctx context.Context, day time.Time) (string, error) {
	query := `
		INSERT INTO entry_sequences (day, last_seq)
		VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET last_seq = entry_sequences.last_seq + 1
		RETURNING last_seq
	`

	var seq int
	if err := p.tx.QueryRowContext(ctx, query, day).Scan(&seq); err != nil {
		return "", fmt.Errorf("allocating entry sequence: %w", err)
	}

	return journal.FormatEntryNumber(day, seq), nil
}

func (p *postTx) CreateEntry(ctx context.Context, e *journal.Entry) error {
	entryQuery := `
		INSERT INTO journal_entries (entry_number, entry_date, description, reference_type, reference_id, total_debit, total_credit, is_posted, is_reversed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, NOW())
		RETURNING id, created_at
	`

	var refType *string
	if e.ReferenceType != "" {
		refType = (*string)(&e.ReferenceType)
	}

	err := p.tx.QueryRowContext(ctx, entryQuery,
		e.EntryNumber,
		e.EntryDate,
		e.Description,
		refType,
		e.ReferenceID,
		e.TotalDebit,
		e.TotalCredit,
		e.IsPosted,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating journal entry: %w", err)
	}

	lineQuery := `
		INSERT INTO journal_entry_lines (entry_id, line_no, account_id, debit, credit, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id
	`

	for i := range e.Lines {
		l := &e.Lines[i]
		l.EntryID = e.ID

		if err := p.tx.QueryRowContext(ctx, lineQuery,
			l.EntryID,
			i+1,
			l.AccountID,
			l.Debit,
			l.Credit,
			l.Description,
		).Scan(&l.ID); err != nil {
			return fmt.Errorf("creating journal line: %w", err)
		}
	}

	return nil
}

func (p *postTx) AddToBalance(ctx context.Context, accountID uuid.UUID, delta decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2
	`

	if _, err := p.tx.ExecContext(ctx, query, delta, accountID); err != nil {
		return fmt.Errorf("applying balance delta: %w", err)
	}

	return nil
}

func (p *postTx) MarkReversed(ctx context.Context, entryID uuid.UUID) (bool, error) {
	query := `
		UPDATE journal_entries
		SET is_reversed = TRUE
		WHERE id = $1 AND is_posted AND NOT is_reversed
	`

	res, err := p.tx.ExecContext(ctx, query, entryID)
	if err != nil {
		return false, fmt.Errorf("marking entry reversed: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}

	return affected > 0, nil
}
