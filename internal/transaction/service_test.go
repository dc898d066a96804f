package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/aion/internal/transaction"
)

var fixedNow = time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)

func newService(repo transaction.Repository) *transaction.Service {
	return transaction.NewService(repo, transaction.WithClock(func() time.Time { return fixedNow }))
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		req       transaction.GenerateRequest
		setupMock func(m *transaction.MockRepository)
		wantLen   int
		wantErr   error
		check     func(t *testing.T, got []*transaction.Transaction)
	}

	tests := []testCase{
		{
			name: "SingleOnSaturdayMovesToMonday",
			req: transaction.GenerateRequest{
				Description:  "Rent",
				Amount:       100000,
				Date:         date(2024, time.June, 15),
				Type:         transaction.TypeExpense,
				Recurrence:   transaction.RecurrenceSingle,
				WorkDaysOnly: true,
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(1)).Return(nil)
			},
			wantLen: 1,
			check: func(t *testing.T, got []*transaction.Transaction) {
				assert.Equal(t, date(2024, time.June, 17), got[0].Date)
				assert.Equal(t, transaction.StatusPending, got[0].Status)
			},
		},
		{
			name: "PastMembersStoredOverdue",
			req: transaction.GenerateRequest{
				Description:      "Laptop",
				Amount:           30000,
				Date:             date(2024, time.May, 15),
				Type:             transaction.TypeExpense,
				Recurrence:       transaction.RecurrenceInstallments,
				InstallmentCount: 3,
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(3)).Return(nil)
			},
			wantLen: 3,
			check: func(t *testing.T, got []*transaction.Transaction) {
				assert.Equal(t, transaction.StatusOverdue, got[0].Status)
				assert.Equal(t, transaction.StatusPending, got[1].Status)
				assert.Equal(t, transaction.StatusPending, got[2].Status)

				for _, tx := range got {
					assert.Equal(t, int64(10000), tx.Amount)
				}
			},
		},
		{
			name: "FixedTwelveMembers",
			req: transaction.GenerateRequest{
				Description: "Gym",
				Amount:      9990,
				Date:        date(2024, time.June, 20),
				Type:        transaction.TypeExpense,
				Recurrence:  transaction.RecurrenceFixed,
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(12)).Return(nil)
			},
			wantLen: 12,
		},
		{
			name: "InvalidRequest",
			req: transaction.GenerateRequest{
				Description: "Nothing",
				Date:        date(2024, time.June, 20),
				Type:        transaction.TypeExpense,
			},
			wantErr: transaction.ErrInvalidInput,
		},
		{
			name: "RepoError",
			req: transaction.GenerateRequest{
				Description: "Rent",
				Amount:      100000,
				Date:        date(2024, time.June, 20),
				Type:        transaction.TypeExpense,
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := newService(repo).Create(context.Background(), tt.req)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, got)

				if errors.Is(tt.wantErr, transaction.ErrInvalidInput) {
					assert.ErrorIs(t, err, transaction.ErrInvalidInput)
				}

				return
			}

			require.NoError(t, err)
			require.Len(t, got, tt.wantLen)

			for _, tx := range got {
				assert.NotEqual(t, uuid.Nil, tx.ID)
				assert.Equal(t, fixedNow, tx.CreatedAt)
			}

			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestService_AddIncome(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(1)).Return(nil)

	got, err := newService(repo).AddIncome(context.Background(), "Freelance", 250000, date(2024, time.June, 5), "Salário")
	require.NoError(t, err)

	assert.Equal(t, transaction.TypeIncome, got.Type)
	assert.Equal(t, transaction.StatusPaid, got.Status)
	require.NotNil(t, got.PaidAt)
	assert.Equal(t, fixedNow, *got.PaidAt)
	assert.Equal(t, transaction.PaymentOther, got.PaymentMethod)
}

func TestService_Record_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := newService(transaction.NewMockRepository(ctrl))

	_, err := svc.Record(context.Background(), transaction.CreateParams{Description: "x", Amount: 0, Type: transaction.TypeIncome})
	assert.ErrorIs(t, err, transaction.ErrInvalidInput)

	_, err = svc.Record(context.Background(), transaction.CreateParams{Description: "x", Amount: 10, Type: "gift"})
	assert.ErrorIs(t, err, transaction.ErrInvalidInput)
}

func TestService_List(t *testing.T) {
	type testCase struct {
		name      string
		filter    transaction.ListFilter
		setupMock func(m *transaction.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name:   "Success",
			filter: transaction.ListFilter{},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{}).
					Return([]*transaction.Transaction{
						{ID: uuid.New()},
						{ID: uuid.New()},
					}, nil)
			},
			wantLen: 2,
		},
		{
			name:   "Error",
			filter: transaction.ListFilter{},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{}).
					Return(nil, errors.New("list error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := newService(repo).List(context.Background(), tt.filter)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_ListMonth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	start := date(2024, time.February, 1)
	end := date(2024, time.March, 1)

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().
		ListTransactions(gomock.Any(), transaction.ListFilter{StartDate: &start, EndDate: &end}).
		Return(nil, nil)

	_, err := newService(repo).ListMonth(context.Background(), 2024, time.February)
	assert.NoError(t, err)
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	stored := &transaction.Transaction{
		ID:          id,
		Description: "Old",
		Amount:      1000,
		Date:        date(2024, time.July, 1),
		Status:      transaction.StatusPending,
	}

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().GetTransaction(gomock.Any(), id).Return(stored, nil)
	repo.EXPECT().UpdateTransaction(gomock.Any(), stored).Return(nil)

	got, err := newService(repo).Update(context.Background(), id, transaction.EditParams{
		Description: new(" New "),
		Amount:      new(int64(2500)),
	})
	require.NoError(t, err)

	assert.Equal(t, "New", got.Description)
	assert.Equal(t, int64(2500), got.Amount)
	assert.Equal(t, date(2024, time.July, 1), got.Date)
}

func TestService_Update_InvalidAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, err := newService(transaction.NewMockRepository(ctrl)).Update(context.Background(), uuid.New(), transaction.EditParams{
		Amount: new(int64(0)),
	})
	assert.ErrorIs(t, err, transaction.ErrInvalidInput)
}

func TestService_UpdateStatus(t *testing.T) {
	type testCase struct {
		name       string
		stored     transaction.Status
		target     transaction.Status
		wantStatus transaction.Status
		wantPaidAt bool
		wantErr    error
	}

	tests := []testCase{
		{name: "PayPending", stored: transaction.StatusPending, target: transaction.StatusPaid, wantStatus: transaction.StatusPaid, wantPaidAt: true},
		{name: "PayOverdue", stored: transaction.StatusOverdue, target: transaction.StatusPaid, wantStatus: transaction.StatusPaid, wantPaidAt: true},
		{name: "RevertPaid", stored: transaction.StatusPaid, target: transaction.StatusPending, wantStatus: transaction.StatusPending},
		{name: "ManualOverdue", stored: transaction.StatusPending, target: transaction.StatusOverdue, wantErr: transaction.ErrInvalidTransition},
		{name: "PayTwice", stored: transaction.StatusPaid, target: transaction.StatusPaid, wantErr: transaction.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			id := uuid.New()
			stored := &transaction.Transaction{ID: id, Status: tt.stored}
			if tt.stored == transaction.StatusPaid {
				stored.PaidAt = new(date(2024, time.January, 1))
			}

			repo := transaction.NewMockRepository(ctrl)
			repo.EXPECT().GetTransaction(gomock.Any(), id).Return(stored, nil)

			if tt.wantErr == nil {
				repo.EXPECT().UpdateTransaction(gomock.Any(), stored).Return(nil)
			}

			got, err := newService(repo).UpdateStatus(context.Background(), id, tt.target)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)

			if tt.wantPaidAt {
				require.NotNil(t, got.PaidAt)
				assert.Equal(t, fixedNow, *got.PaidAt)
			} else {
				assert.Nil(t, got.PaidAt)
			}
		})
	}
}

func TestService_UpdateStatus_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().GetTransaction(gomock.Any(), id).Return(nil, transaction.ErrNotFound)

	_, err := newService(repo).UpdateStatus(context.Background(), id, transaction.StatusPaid)
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestService_StopRecurrence(t *testing.T) {
	groupID := uuid.New()
	refDate := date(2024, time.March, 10)

	type testCase struct {
		name      string
		ref       *transaction.Transaction
		setupMock func(m *transaction.MockRepository, ref *transaction.Transaction)
		want      int64
		wantErr   error
	}

	tests := []testCase{
		{
			name: "DeletesLaterMembers",
			ref:  &transaction.Transaction{ID: uuid.New(), GroupID: &groupID, IsRecurring: true, Date: refDate},
			setupMock: func(m *transaction.MockRepository, ref *transaction.Transaction) {
				m.EXPECT().GetTransaction(gomock.Any(), ref.ID).Return(ref, nil)
				m.EXPECT().DeleteGroupAfter(gomock.Any(), groupID, refDate).Return(int64(9), nil)
			},
			want: 9,
		},
		{
			name: "NotGrouped",
			ref:  &transaction.Transaction{ID: uuid.New(), Date: refDate},
			setupMock: func(m *transaction.MockRepository, ref *transaction.Transaction) {
				m.EXPECT().GetTransaction(gomock.Any(), ref.ID).Return(ref, nil)
			},
			wantErr: transaction.ErrNotGrouped,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			tt.setupMock(repo, tt.ref)

			got, err := newService(repo).StopRecurrence(context.Background(), tt.ref.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Anticipate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	groupID := uuid.New()
	ref := &transaction.Transaction{
		ID:                 uuid.New(),
		GroupID:            &groupID,
		InstallmentCurrent: 2,
		InstallmentTotal:   5,
	}

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().GetTransaction(gomock.Any(), ref.ID).Return(ref, nil)
	repo.EXPECT().PayGroup(gomock.Any(), groupID, fixedNow).Return(int64(4), nil)

	got, err := newService(repo).Anticipate(context.Background(), ref.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got)
}

func TestService_Anticipate_NotGrouped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ref := &transaction.Transaction{ID: uuid.New()}

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().GetTransaction(gomock.Any(), ref.ID).Return(ref, nil)

	_, err := newService(repo).Anticipate(context.Background(), ref.ID)
	assert.ErrorIs(t, err, transaction.ErrNotGrouped)
}

func TestService_HasFutureRecurrences(t *testing.T) {
	groupID := uuid.New()
	ref := &transaction.Transaction{GroupID: &groupID, IsRecurring: true, Date: date(2024, time.May, 5)}

	type testCase struct {
		name    string
		ref     *transaction.Transaction
		members []*transaction.Transaction
		want    bool
	}

	tests := []testCase{
		{
			name:    "HasLater",
			ref:     ref,
			members: []*transaction.Transaction{ref, {Date: date(2024, time.June, 5)}},
			want:    true,
		},
		{
			name:    "LastMember",
			ref:     ref,
			members: []*transaction.Transaction{{Date: date(2024, time.April, 5)}, ref},
			want:    false,
		},
		{
			name: "Single",
			ref:  &transaction.Transaction{Date: date(2024, time.May, 5)},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.ref.InGroup() {
				repo.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{GroupID: tt.ref.GroupID}).
					Return(tt.members, nil)
			}

			got, err := newService(repo).HasFutureRecurrences(context.Background(), tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_HasPendingInstallments(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	groupID := uuid.New()
	ref := &transaction.Transaction{GroupID: &groupID, InstallmentCurrent: 1, InstallmentTotal: 2, Status: transaction.StatusPaid}

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().
		ListTransactions(gomock.Any(), transaction.ListFilter{GroupID: &groupID}).
		Return([]*transaction.Transaction{ref, {Status: transaction.StatusPaid}}, nil)

	got, err := newService(repo).HasPendingInstallments(context.Background(), ref)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestService_SweepOverdue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().MarkOverdue(gomock.Any(), date(2024, time.June, 10)).Return(int64(3), nil)

	got, err := newService(repo).SweepOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), got)
}

func TestService_Replace(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	txs := []*transaction.Transaction{
		{Status: transaction.StatusPaid, Date: date(2024, time.January, 3)},
		{ID: uuid.New(), Status: transaction.StatusPending, Date: date(2024, time.January, 4), PaidAt: new(fixedNow)},
	}

	repo := transaction.NewMockRepository(ctrl)
	gomock.InOrder(
		repo.EXPECT().ReplaceTransactions(gomock.Any(), txs).Return(nil),
		repo.EXPECT().MarkOverdue(gomock.Any(), gomock.Any()).Return(int64(1), nil),
	)

	require.NoError(t, newService(repo).Replace(context.Background(), txs))

	assert.NotEqual(t, uuid.Nil, txs[0].ID)
	require.NotNil(t, txs[0].PaidAt)
	assert.Equal(t, date(2024, time.January, 3), *txs[0].PaidAt)
	assert.Nil(t, txs[1].PaidAt)
}
