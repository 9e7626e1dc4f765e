package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openledgerhq/ledgerd/internal/account"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error)

	// SumBefore returns the debit and credit totals of all posted lines
	// for the account strictly before the given date.
	SumBefore(ctx context.Context, accountID uuid.UUID, before time.Time) (debit, credit decimal.Decimal, err error)

	// Lines returns the account's posted lines within the window,
	// ordered by entry date ascending, tie-broken by entry creation
	// order. RunningBalance is left zero for the service to fill.
	Lines(ctx context.Context, accountID uuid.UUID, startDate, endDate *time.Time) ([]Line, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AccountLedger folds the account's posted lines into a running balance.
// When the window has a start date, the running balance is seeded from the
// balance accumulated before the window, not from zero; a date-filtered
// ledger would otherwise show wrong balances.
func (s *Service) AccountLedger(ctx context.Context, accountID uuid.UUID, startDate, endDate *time.Time) (*AccountLedger, error) {
	acct, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var opening decimal.Decimal

	if startDate != nil {
		debit, credit, err := s.repo.SumBefore(ctx, accountID, *startDate)
		if err != nil {
			return nil, fmt.Errorf("computing opening balance: %w", err)
		}

		opening = acct.Type.SignedAmount(debit, credit)
	}

	lines, err := s.repo.Lines(ctx, accountID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("loading ledger lines: %w", err)
	}

	running := opening
	for i := range lines {
		running = running.Add(acct.Type.SignedAmount(lines[i].Debit, lines[i].Credit))
		lines[i].RunningBalance = running
	}

	return &AccountLedger{
		AccountID:      acct.ID,
		AccountCode:    acct.Code,
		AccountName:    acct.Name,
		AccountType:    acct.Type,
		StartDate:      startDate,
		EndDate:        endDate,
		OpeningBalance: opening,
		ClosingBalance: running,
		Lines:          lines,
	}, nil
}
