package journal_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/openledgerhq/ledgerd/internal/account"
	"github.com/openledgerhq/ledgerd/internal/audit"
	"github.com/openledgerhq/ledgerd/internal/journal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var entryDate = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func twoAccounts() (*account.Account, *account.Account) {
	cash := &account.Account{
		ID:       uuid.New(),
		Code:     "1000",
		Name:     "Cash",
		Type:     account.TypeAsset,
		IsActive: true,
	}
	sales := &account.Account{
		ID:       uuid.New(),
		Code:     "4000",
		Name:     "Sales Revenue",
		Type:     account.TypeRevenue,
		IsActive: true,
	}

	return cash, sales
}

func TestService_Post_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := journal.NewMockRepository(ctrl)
	ptx := journal.NewMockPostTx(ctrl)
	svc := journal.NewService(repo, audit.NopRecorder{})

	cash, sales := twoAccounts()
	deltas := map[uuid.UUID]decimal.Decimal{}

	repo.EXPECT().BeginPost(gomock.Any()).Return(ptx, nil)
	ptx.EXPECT().
		LockAccounts(gomock.Any(), []string{"1000", "4000"}, gomock.Nil()).
		Return([]*account.Account{cash, sales}, nil)
	ptx.EXPECT().
		NextEntryNumber(gomock.Any(), entryDate).
		Return("JE-20240115-0001", nil)
	ptx.EXPECT().
		CreateEntry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *journal.Entry) error {
			e.ID = uuid.New()
			return nil
		})
	ptx.EXPECT().
		AddToBalance(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id uuid.UUID, delta decimal.Decimal) error {
			deltas[id] = delta
			return nil
		}).
		Times(2)
	ptx.EXPECT().Commit().Return(nil)
	ptx.EXPECT().Rollback().Return(nil)

	entry, err := svc.Post(context.Background(), journal.PostParams{
		EntryDate:     entryDate,
		Description:   "Cash sale",
		ReferenceType: journal.RefDirectSale,
		Lines: []journal.LineParams{
			{AccountCode: "1000", Debit: dec("1000")},
			{AccountCode: "4000", Credit: dec("1000")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "JE-20240115-0001", entry.EntryNumber)
	assert.True(t, entry.IsPosted)
	assert.False(t, entry.IsReversed)
	assert.Equal(t, "1000", entry.TotalDebit.String())
	assert.Equal(t, "1000", entry.TotalCredit.String())

	require.Len(t, entry.Lines, 2)
	assert.Equal(t, cash.ID, entry.Lines[0].AccountID)
	assert.Equal(t, "Cash", entry.Lines[0].AccountName)
	assert.Equal(t, sales.ID, entry.Lines[1].AccountID)

	// Both the debit-normal and credit-normal account increase.
	assert.Equal(t, "1000", deltas[cash.ID].String())
	assert.Equal(t, "1000", deltas[sales.ID].String())
}

func TestService_Post_DropsEmptyLines(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := journal.NewMockRepository(ctrl)
	ptx := journal.NewMockPostTx(ctrl)
	svc := journal.NewService(repo, audit.NopRecorder{})

	cash, sales := twoAccounts()

	repo.EXPECT().BeginPost(gomock.Any()).Return(ptx, nil)
	ptx.EXPECT().
		LockAccounts(gomock.Any(), []string{"1000", "4000"}, gomock.Nil()).
		Return([]*account.Account{cash, sales}, nil)
	ptx.EXPECT().NextEntryNumber(gomock.Any(), entryDate).Return("JE-20240115-0002", nil)
	ptx.EXPECT().CreateEntry(gomock.Any(), gomock.Any()).Return(nil)
	ptx.EXPECT().AddToBalance(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	ptx.EXPECT().Commit().Return(nil)
	ptx.EXPECT().Rollback().Return(nil)

	// The blank form row in the middle must be ignored.
	entry, err := svc.Post(context.Background(), journal.PostParams{
		EntryDate:     entryDate,
		ReferenceType: journal.RefManual,
		Lines: []journal.LineParams{
			{AccountCode: "1000", Debit: dec("50")},
			{},
			{AccountCode: "4000", Credit: dec("50")},
		},
	})
	require.NoError(t, err)
	assert.Len(t, entry.Lines, 2)
}

func TestService_Post_ValidationErrors(t *testing.T) {
	type testCase struct {
		name    string
		params  journal.PostParams
		wantErr error
	}

	tests := []testCase{
		{
			name: "TooFewLines",
			params: journal.PostParams{
				EntryDate:     entryDate,
				ReferenceType: journal.RefManual,
				Lines: []journal.LineParams{
					{AccountCode: "1000", Debit: dec("100")},
				},
			},
			wantErr: journal.ErrTooFewLines,
		},
		{
			name: "OnlyEmptyLines",
			params: journal.PostParams{
				EntryDate:     entryDate,
				ReferenceType: journal.RefManual,
				Lines:         []journal.LineParams{{}, {}},
			},
			wantErr: journal.ErrTooFewLines,
		},
		{
			name: "BothSides",
			params: journal.PostParams{
				EntryDate:     entryDate,
				ReferenceType: journal.RefManual,
				Lines: []journal.LineParams{
					{AccountCode: "1000", Debit: dec("100"), Credit: dec("100")},
					{AccountCode: "4000", Credit: dec("100")},
				},
			},
			wantErr: journal.ErrBothSides,
		},
		{
			name: "NegativeAmount",
			params: journal.PostParams{
				EntryDate:     entryDate,
				ReferenceType: journal.RefManual,
				Lines: []journal.LineParams{
					{AccountCode: "1000", Debit: dec("-100")},
					{AccountCode: "4000", Credit: dec("-100")},
				},
			},
			wantErr: journal.ErrNegativeAmount,
		},
		{
			name: "InvalidReference",
			params: journal.PostParams{
				EntryDate:     entryDate,
				ReferenceType: "coupon",
				Lines: []journal.LineParams{
					{AccountCode: "1000", Debit: dec("100")},
					{AccountCode: "4000", Credit: dec("100")},
				},
			},
			wantErr: journal.ErrInvalidReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := journal.NewMockRepository(ctrl)
			ptx := journal.NewMockPostTx(ctrl)
			svc := journal.NewService(repo, audit.NopRecorder{})

			repo.EXPECT().BeginPost(gomock.Any()).Return(ptx, nil)
			ptx.EXPECT().Rollback().Return(nil)

			entry, err := svc.Post(context.Background(), tt.params)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, entry)
		})
	}
}

func TestService_Post_Unbalanced(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := journal.NewMockRepository(ctrl)
	ptx := journal.NewMockPostTx(ctrl)
	svc := journal.NewService(repo, audit.NopRecorder{})

	repo.EXPECT().BeginPost(gomock.Any()).Return(ptx, nil)
	ptx.EXPECT().Rollback().Return(nil)

	entry, err := svc.Post(context.Background(), journal.PostParams{
		EntryDate:     entryDate,
		ReferenceType: journal.RefManual,
		Lines: []journal.LineParams{
			{AccountCode: "1000", Debit: dec("1000")},
			{AccountCode: "4000", Credit: dec("900")},
		},
	})
	assert.Nil(t, entry)

	var unbalanced *journal.UnbalancedError
	require.ErrorAs(t, err, &unbalanced)
	assert.Equal(t, "100", unbalanced.Difference().String())
}

func TestService_Post_WithinTolerance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := journal.NewMockRepository(ctrl)
	ptx := journal.NewMockPostTx(ctrl)
	svc := journal.NewService(repo, audit.NopRecorder{})

	cash, sales := twoAccounts()

	repo.EXPECT().BeginPost(gomock.Any()).Return(ptx, nil)
	ptx.EXPECT().
		LockAccounts(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]*account.Account{cash, sales}, nil)
	ptx.EXPECT().NextEntryNumber(gomock.Any(), entryDate).Return("JE-20240115-0003", nil)
	ptx.EXPECT().CreateEntry(gomock.Any(), gomock.Any()).Return(nil)
	ptx.EXPECT().AddToBalance(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	ptx.EXPECT().Commit().Return(nil)
	ptx.EXPECT().Rollback().Return(nil)

	// A sub-tolerance rounding residue from the client must not reject
	// the entry.
	_, err := svc.Post(context.Background(), journal.PostParams{
		EntryDate:     entryDate,
		ReferenceType: journal.RefManual,
		Lines: []journal.LineParams{
			{AccountCode: "1000", Debit: dec("100.0005")},
			{AccountCode: "4000", Credit: dec("100")},
		},
	})
	assert.NoError(t, err)
}

func TestService_Post_AccountErrors(t *testing.T) {
	cash, sales := twoAccounts()
	sales.IsActive = false

	type testCase struct {
		name    string
		lines   []journal.LineParams
		locked  []*account.Account
		wantErr error
	}

	tests := []testCase{
		{
			name: "UnknownAccount",
			lines: []journal.LineParams{
				{AccountCode: "1000", Debit: dec("100")},
				{AccountCode: "9999", Credit: dec("100")},
			},
			locked:  []*account.Account{cash},
			wantErr: journal.ErrAccountNotFound,
		},
		{
			name: "InactiveAccount",
			lines: []journal.LineParams{
				{AccountCode: "1000", Debit: dec("100")},
				{AccountCode: "4000", Credit: dec("100")},
			},
			locked:  []*account.Account{cash, sales},
			wantErr: journal.ErrAccountInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := journal.NewMockRepository(ctrl)
			ptx := journal.NewMockPostTx(ctrl)
			svc := journal.NewService(repo, audit.NopRecorder{})

			repo.EXPECT().BeginPost(gomock.Any()).Return(ptx, nil)
			ptx.EXPECT().
				LockAccounts(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(tt.locked, nil)
			ptx.EXPECT().Rollback().Return(nil)

			entry, err := svc.Post(context.Background(), journal.PostParams{
				EntryDate:     entryDate,
				ReferenceType: journal.RefManual,
				Lines:         tt.lines,
			})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, entry)
		})
	}
}

func TestService_Reverse_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := journal.NewMockRepository(ctrl)
	ptx := journal.NewMockPostTx(ctrl)
	svc := journal.NewService(repo, audit.NopRecorder{})

	cash, sales := twoAccounts()
	deltas := map[uuid.UUID]decimal.Decimal{}

	orig := &journal.Entry{
		ID:          uuid.New(),
		EntryNumber: "JE-20240115-0001",
		EntryDate:   entryDate,
		TotalDebit:  dec("1000"),
		TotalCredit: dec("1000"),
		IsPosted:    true,
		Lines: []journal.Line{
			{AccountID: cash.ID, AccountCode: "1000", Debit: dec("1000")},
			{AccountID: sales.ID, AccountCode: "4000", Credit: dec("1000")},
		},
	}

	repo.EXPECT().GetEntry(gomock.Any(), orig.ID).Return(orig, nil)
	repo.EXPECT().BeginPost(gomock.Any()).Return(ptx, nil)
	ptx.EXPECT().MarkReversed(gomock.Any(), orig.ID).Return(true, nil)
	ptx.EXPECT().
		LockAccounts(gomock.Any(), gomock.Nil(), []uuid.UUID{cash.ID, sales.ID}).
		Return([]*account.Account{cash, sales}, nil)
	ptx.EXPECT().
		NextEntryNumber(gomock.Any(), gomock.Any()).
		Return("JE-20240116-0001", nil)
	ptx.EXPECT().CreateEntry(gomock.Any(), gomock.Any()).Return(nil)
	ptx.EXPECT().
		AddToBalance(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id uuid.UUID, delta decimal.Decimal) error {
			deltas[id] = delta
			return nil
		}).
		Times(2)
	ptx.EXPECT().Commit().Return(nil)
	ptx.EXPECT().Rollback().Return(nil)

	mirror, err := svc.Reverse(context.Background(), orig.ID)
	require.NoError(t, err)

	assert.Equal(t, journal.RefReversal, mirror.ReferenceType)
	require.NotNil(t, mirror.ReferenceID)
	assert.Equal(t, orig.ID, *mirror.ReferenceID)

	// Debits and credits swap sides on the mirror.
	require.Len(t, mirror.Lines, 2)
	assert.Equal(t, "1000", mirror.Lines[0].Credit.String())
	assert.True(t, mirror.Lines[0].Debit.IsZero())
	assert.Equal(t, "1000", mirror.Lines[1].Debit.String())
	assert.True(t, mirror.Lines[1].Credit.IsZero())

	// Every balance contribution of the original is negated.
	assert.Equal(t, "-1000", deltas[cash.ID].String())
	assert.Equal(t, "-1000", deltas[sales.ID].String())
}

func TestService_Reverse_Guards(t *testing.T) {
	type testCase struct {
		name    string
		entry   *journal.Entry
		wantErr error
	}

	tests := []testCase{
		{
			name:    "NotPosted",
			entry:   &journal.Entry{ID: uuid.New(), EntryNumber: "JE-20240115-0001"},
			wantErr: journal.ErrNotPosted,
		},
		{
			name: "AlreadyReversed",
			entry: &journal.Entry{
				ID:          uuid.New(),
				EntryNumber: "JE-20240115-0001",
				IsPosted:    true,
				IsReversed:  true,
			},
			wantErr: journal.ErrAlreadyReversed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := journal.NewMockRepository(ctrl)
			svc := journal.NewService(repo, audit.NopRecorder{})

			repo.EXPECT().GetEntry(gomock.Any(), tt.entry.ID).Return(tt.entry, nil)

			mirror, err := svc.Reverse(context.Background(), tt.entry.ID)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, mirror)
		})
	}
}

func TestService_Reverse_LostRace(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := journal.NewMockRepository(ctrl)
	ptx := journal.NewMockPostTx(ctrl)
	svc := journal.NewService(repo, audit.NopRecorder{})

	cash, _ := twoAccounts()
	orig := &journal.Entry{
		ID:          uuid.New(),
		EntryNumber: "JE-20240115-0001",
		IsPosted:    true,
		Lines: []journal.Line{
			{AccountID: cash.ID, Debit: dec("100")},
		},
	}

	repo.EXPECT().GetEntry(gomock.Any(), orig.ID).Return(orig, nil)
	repo.EXPECT().BeginPost(gomock.Any()).Return(ptx, nil)

	// A concurrent reversal already flagged the entry.
	ptx.EXPECT().MarkReversed(gomock.Any(), orig.ID).Return(false, nil)
	ptx.EXPECT().Rollback().Return(nil)

	mirror, err := svc.Reverse(context.Background(), orig.ID)
	assert.ErrorIs(t, err, journal.ErrAlreadyReversed)
	assert.Nil(t, mirror)
}

func TestService_Post_CommitError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := journal.NewMockRepository(ctrl)
	ptx := journal.NewMockPostTx(ctrl)
	svc := journal.NewService(repo, audit.NopRecorder{})

	cash, sales := twoAccounts()

	repo.EXPECT().BeginPost(gomock.Any()).Return(ptx, nil)
	ptx.EXPECT().
		LockAccounts(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]*account.Account{cash, sales}, nil)
	ptx.EXPECT().NextEntryNumber(gomock.Any(), entryDate).Return("JE-20240115-0004", nil)
	ptx.EXPECT().CreateEntry(gomock.Any(), gomock.Any()).Return(nil)
	ptx.EXPECT().AddToBalance(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	ptx.EXPECT().Commit().Return(errors.New("commit failed"))
	ptx.EXPECT().Rollback().Return(nil)

	entry, err := svc.Post(context.Background(), journal.PostParams{
		EntryDate:     entryDate,
		ReferenceType: journal.RefManual,
		Lines: []journal.LineParams{
			{AccountCode: "1000", Debit: dec("100")},
			{AccountCode: "4000", Credit: dec("100")},
		},
	})
	assert.Error(t, err)
	assert.Nil(t, entry)
}
