package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openledgerhq/ledgerd/internal/account"
	"github.com/openledgerhq/ledgerd/internal/audit"
)

// balanceTolerance absorbs float rounding in client-computed sums. All
// internal arithmetic is exact decimal; the tolerance only applies when
// validating incoming entries.
var balanceTolerance = decimal.New(1, -3) // 0.001

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=journal
type Repository interface {
	GetEntry(ctx context.Context, id uuid.UUID) (*Entry, error)
	ListEntries(ctx context.Context, filter ListFilter) ([]*Entry, error)

	BeginPost(ctx context.Context) (PostTx, error)
}

// PostTx is a single posting transaction. Entry creation, line creation
// and every balance update happen inside it; a partial post can never be
// observed.
type PostTx interface {
	// LockAccounts loads and row-locks the referenced accounts in
	// deterministic code order, so concurrent postings that share
	// accounts serialize instead of deadlocking.
	LockAccounts(ctx context.Context, codes []string, ids []uuid.UUID) ([]*account.Account, error)

	// NextEntryNumber allocates the next sequence for the entry's day.
	NextEntryNumber(ctx context.Context, day time.Time) (string, error)

	CreateEntry(ctx context.Context, e *Entry) error
	AddToBalance(ctx context.Context, accountID uuid.UUID, delta decimal.Decimal) error

	// MarkReversed flags the entry if it is posted and not yet reversed.
	// Returns false when another transaction won the race.
	MarkReversed(ctx context.Context, entryID uuid.UUID) (bool, error)

	Commit() error
	Rollback() error
}

type Service struct {
	repo  Repository
	audit audit.Recorder
}

func NewService(repo Repository, recorder audit.Recorder) *Service {
	return &Service{repo: repo, audit: recorder}
}

type PostParams struct {
	EntryDate     time.Time
	Description   string
	ReferenceType ReferenceType
	ReferenceID   *uuid.UUID
	Lines         []LineParams
}

// LineParams references an account either by ID or by code.
type LineParams struct {
	AccountID   *uuid.UUID
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

type ListFilter struct {
	StartDate     *time.Time
	EndDate       *time.Time
	ReferenceType *ReferenceType
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return s.repo.GetEntry(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Entry, error) {
	return s.repo.ListEntries(ctx, filter)
}

// Post validates and posts a balanced entry, applying every line's signed
// delta to the referenced account balance in one atomic transaction.
func (s *Service) Post(ctx context.Context, params PostParams) (*Entry, error) {
	ptx, err := s.repo.BeginPost(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin posting: %w", err)
	}
	defer ptx.Rollback()

	entry, err := s.post(ctx, ptx, params)
	if err != nil {
		return nil, err
	}

	if err := ptx.Commit(); err != nil {
		return nil, fmt.Errorf("commit posting: %w", err)
	}

	s.audit.Record(ctx, audit.Event{
		Action:     "journal.post",
		TargetType: "journal_entry",
		TargetID:   entry.ID.String(),
		Metadata: map[string]any{
			"entry_number":   entry.EntryNumber,
			"reference_type": string(entry.ReferenceType),
			"total":          entry.TotalDebit.String(),
		},
	})

	return entry, nil
}

// Reverse creates a mirror entry that negates a posted entry and flags the
// original as reversed, all in the same transaction. The mirror is dated
// at reversal time so period reports show the correction when it was made.
func (s *Service) Reverse(ctx context.Context, entryID uuid.UUID) (*Entry, error) {
	orig, err := s.repo.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if !orig.IsPosted {
		return nil, fmt.Errorf("%w: %s", ErrNotPosted, orig.EntryNumber)
	}

	if orig.IsReversed {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyReversed, orig.EntryNumber)
	}

	ptx, err := s.repo.BeginPost(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin reversal: %w", err)
	}
	defer ptx.Rollback()

	// Re-check under the transaction: two concurrent reversals must not
	// both succeed.
	ok, err := ptx.MarkReversed(ctx, orig.ID)
	if err != nil {
		return nil, fmt.Errorf("marking entry reversed: %w", err)
	}

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyReversed, orig.EntryNumber)
	}

	mirrorLines := make([]LineParams, len(orig.Lines))
	for i, l := range orig.Lines {
		mirrorLines[i] = LineParams{
			AccountID:   &orig.Lines[i].AccountID,
			Debit:       l.Credit,
			Credit:      l.Debit,
			Description: l.Description,
		}
	}

	mirror, err := s.post(ctx, ptx, PostParams{
		EntryDate:     time.Now().UTC().Truncate(24 * time.Hour),
		Description:   fmt.Sprintf("Reversal of %s", orig.EntryNumber),
		ReferenceType: RefReversal,
		ReferenceID:   &orig.ID,
		Lines:         mirrorLines,
	})
	if err != nil {
		return nil, err
	}

	if err := ptx.Commit(); err != nil {
		return nil, fmt.Errorf("commit reversal: %w", err)
	}

	s.audit.Record(ctx, audit.Event{
		Action:     "journal.reverse",
		TargetType: "journal_entry",
		TargetID:   orig.ID.String(),
		Metadata: map[string]any{
			"entry_number":    orig.EntryNumber,
			"reversal_number": mirror.EntryNumber,
		},
	})

	return mirror, nil
}

// post runs validation and the posting side effects inside an open
// transaction. Shared between Post and Reverse.
func (s *Service) post(ctx context.Context, ptx PostTx, params PostParams) (*Entry, error) {
	if params.ReferenceType != "" && !params.ReferenceType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidReference, params.ReferenceType)
	}

	lines := dropEmptyLines(params.Lines)
	if err := validateLines(lines); err != nil {
		return nil, err
	}

	totalDebit, totalCredit := sumLines(lines)
	if totalDebit.Sub(totalCredit).Abs().GreaterThan(balanceTolerance) {
		return nil, &UnbalancedError{TotalDebit: totalDebit, TotalCredit: totalCredit}
	}

	byID, byCode, err := s.lockAccounts(ctx, ptx, lines)
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		EntryDate:     params.EntryDate,
		Description:   params.Description,
		ReferenceType: params.ReferenceType,
		ReferenceID:   params.ReferenceID,
		TotalDebit:    totalDebit,
		TotalCredit:   totalCredit,
		IsPosted:      true,
		Lines:         make([]Line, len(lines)),
	}

	deltas := make(map[uuid.UUID]decimal.Decimal)
	order := make([]uuid.UUID, 0, len(lines))

	for i, lp := range lines {
		acct, err := resolveAccount(lp, byID, byCode)
		if err != nil {
			return nil, err
		}

		// Reversals must go through even when the account was
		// deactivated after the original posting.
		if !acct.IsActive && params.ReferenceType != RefReversal {
			return nil, fmt.Errorf("%w: %s", ErrAccountInactive, acct.Code)
		}

		entry.Lines[i] = Line{
			AccountID:   acct.ID,
			AccountCode: acct.Code,
			AccountName: acct.Name,
			Debit:       lp.Debit,
			Credit:      lp.Credit,
			Description: lp.Description,
		}

		if _, seen := deltas[acct.ID]; !seen {
			order = append(order, acct.ID)
		}

		deltas[acct.ID] = deltas[acct.ID].Add(acct.Type.SignedAmount(lp.Debit, lp.Credit))
	}

	number, err := ptx.NextEntryNumber(ctx, params.EntryDate)
	if err != nil {
		return nil, fmt.Errorf("allocating entry number: %w", err)
	}

	entry.EntryNumber = number

	if err := ptx.CreateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("creating entry: %w", err)
	}

	for _, id := range order {
		if err := ptx.AddToBalance(ctx, id, deltas[id]); err != nil {
			return nil, fmt.Errorf("updating balance: %w", err)
		}
	}

	return entry, nil
}

func (s *Service) lockAccounts(ctx context.Context, ptx PostTx, lines []LineParams) (map[uuid.UUID]*account.Account, map[string]*account.Account, error) {
	var (
		codes []string
		ids   []uuid.UUID
	)

	for _, lp := range lines {
		if lp.AccountID != nil {
			ids = append(ids, *lp.AccountID)
			continue
		}

		codes = append(codes, lp.AccountCode)
	}

	accounts, err := ptx.LockAccounts(ctx, codes, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("locking accounts: %w", err)
	}

	byID := make(map[uuid.UUID]*account.Account, len(accounts))
	byCode := make(map[string]*account.Account, len(accounts))

	for _, a := range accounts {
		byID[a.ID] = a
		byCode[a.Code] = a
	}

	return byID, byCode, nil
}

func resolveAccount(lp LineParams, byID map[uuid.UUID]*account.Account, byCode map[string]*account.Account) (*account.Account, error) {
	if lp.AccountID != nil {
		a, ok := byID[*lp.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, lp.AccountID)
		}

		return a, nil
	}

	a, ok := byCode[lp.AccountCode]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrAccountNotFound, lp.AccountCode)
	}

	return a, nil
}

// dropEmptyLines filters zero/zero lines, which the UI sends for blank
// form rows.
func dropEmptyLines(lines []LineParams) []LineParams {
	kept := make([]LineParams, 0, len(lines))

	for _, l := range lines {
		if l.Debit.IsZero() && l.Credit.IsZero() {
			continue
		}

		kept = append(kept, l)
	}

	return kept
}

func validateLines(lines []LineParams) error {
	if len(lines) < 2 {
		return ErrTooFewLines
	}

	for _, l := range lines {
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return ErrNegativeAmount
		}

		if !l.Debit.IsZero() && !l.Credit.IsZero() {
			return ErrBothSides
		}
	}

	return nil
}

func sumLines(lines []LineParams) (totalDebit, totalCredit decimal.Decimal) {
	for _, l := range lines {
		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)
	}

	return totalDebit, totalCredit
}
