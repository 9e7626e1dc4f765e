package account

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/openledgerhq/ledgerd/internal/audit"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=account
type Repository interface {
	CreateAccount(ctx context.Context, a *Account) error
	GetAccount(ctx context.Context, id uuid.UUID) (*Account, error)
	GetAccountByCode(ctx context.Context, code string) (*Account, error)
	ListAccounts(ctx context.Context, filter ListFilter) ([]*Account, error)
	UpdateAccount(ctx context.Context, a *Account) error
	DeleteAccount(ctx context.Context, id uuid.UUID) error

	CodeExists(ctx context.Context, code string) (bool, error)
	HasJournalLines(ctx context.Context, id uuid.UUID) (bool, error)

	// ResetAll deletes every journal entry and line and zeroes every
	// account balance in a single transaction. Account rows survive.
	ResetAll(ctx context.Context) error
}

type Service struct {
	repo  Repository
	audit audit.Recorder
}

func NewService(repo Repository, recorder audit.Recorder) *Service {
	return &Service{repo: repo, audit: recorder}
}

type CreateParams struct {
	Code        string
	Name        string
	Type        Type
	Category    string
	ParentID    *uuid.UUID
	Description string
}

type ListFilter struct {
	ActiveOnly bool
	ParentOnly bool
}

// UpdateParams carries the mutable account fields. Nil means unchanged.
// IsSystem is deliberately absent: the flag is immutable.
type UpdateParams struct {
	Name        *string
	Type        *Type
	Category    *string
	ParentID    *uuid.UUID
	Description *string
	IsActive    *bool
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Account, error) {
	if !params.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, params.Type)
	}

	exists, err := s.repo.CodeExists(ctx, params.Code)
	if err != nil {
		return nil, fmt.Errorf("checking account code: %w", err)
	}

	if exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateCode, params.Code)
	}

	a := &Account{
		Code:        params.Code,
		Name:        params.Name,
		Type:        params.Type,
		Category:    params.Category,
		ParentID:    params.ParentID,
		Description: params.Description,
		IsActive:    true,
	}
	if err := s.repo.CreateAccount(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.GetAccount(ctx, id)
}

func (s *Service) GetByCode(ctx context.Context, code string) (*Account, error) {
	return s.repo.GetAccountByCode(ctx, code)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Account, error) {
	return s.repo.ListAccounts(ctx, filter)
}

// Update applies params to the account. Changing the type of an account
// that already has journal lines is rejected: it would flip the normal
// side of every historical ledger line.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Account, error) {
	a, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Type != nil && *params.Type != a.Type {
		if !params.Type.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidType, *params.Type)
		}

		used, err := s.repo.HasJournalLines(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("checking journal lines: %w", err)
		}

		if used {
			return nil, fmt.Errorf("%w: cannot change type of account %s", ErrInUse, a.Code)
		}

		a.Type = *params.Type
	}

	if params.Name != nil {
		a.Name = *params.Name
	}

	if params.Category != nil {
		a.Category = *params.Category
	}

	if params.ParentID != nil {
		a.ParentID = params.ParentID
	}

	if params.Description != nil {
		a.Description = *params.Description
	}

	if params.IsActive != nil {
		a.IsActive = *params.IsActive
	}

	if err := s.repo.UpdateAccount(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	a, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		return err
	}

	if a.IsSystem {
		return fmt.Errorf("%w: %s", ErrSystemAccount, a.Code)
	}

	used, err := s.repo.HasJournalLines(ctx, id)
	if err != nil {
		return fmt.Errorf("checking journal lines: %w", err)
	}

	if used {
		return fmt.Errorf("%w: %s", ErrInUse, a.Code)
	}

	if err := s.repo.DeleteAccount(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.Event{
		Action:     "account.delete",
		TargetType: "account",
		TargetID:   id.String(),
		Metadata:   map[string]any{"code": a.Code, "name": a.Name},
	})

	return nil
}

// ResetAllBalances wipes every journal entry and zeroes every balance.
// The HTTP boundary gates this behind an explicit confirmation phrase;
// the operation itself is always audited.
func (s *Service) ResetAllBalances(ctx context.Context) error {
	if err := s.repo.ResetAll(ctx); err != nil {
		return err
	}

	s.audit.Record(ctx, audit.Event{
		Action:     "accounting.reset",
		TargetType: "ledger",
	})

	return nil
}

// SeedDefaults creates any missing system accounts from the default chart.
// Existing codes are left untouched, so seeding is idempotent.
func (s *Service) SeedDefaults(ctx context.Context) error {
	for _, d := range DefaultChart {
		exists, err := s.repo.CodeExists(ctx, d.Code)
		if err != nil {
			return fmt.Errorf("checking account code %s: %w", d.Code, err)
		}

		if exists {
			continue
		}

		a := &Account{
			Code:     d.Code,
			Name:     d.Name,
			Type:     d.Type,
			Category: d.Category,
			IsSystem: true,
			IsActive: true,
		}
		if err := s.repo.CreateAccount(ctx, a); err != nil {
			return fmt.Errorf("seeding account %s: %w", d.Code, err)
		}
	}

	return nil
}
