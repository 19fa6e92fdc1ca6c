package expense_test

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

	"github.com/MrJamesThe3rd/spendwise/internal/expense"
)

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newService(repo expense.Repository, opts ...expense.Option) *expense.Service {
	opts = append([]expense.Option{
		expense.WithLatency(expense.Latency{}),
		expense.WithClock(func() time.Time { return fixedNow }),
	}, opts...)

	return expense.NewService(repo, opts...)
}

func TestService_Add(t *testing.T) {
	type args struct {
		form expense.FormData
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *expense.MockRepository)
		wantErr   bool
		wantIs    error
		check     func(t *testing.T, e *expense.Expense)
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{form: expense.FormData{
				Title:       " Lunch ",
				Amount:      "12.50",
				Description: "Thali",
				Category:    "Food & Dining",
			}},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, e *expense.Expense) {
				assert.NotEqual(t, uuid.Nil, e.ID)
				assert.Equal(t, "Lunch", e.Title)
				assert.True(t, decimal.RequireFromString("12.5").Equal(e.Amount))
				assert.Equal(t, expense.CategoryFood, e.Category)
				assert.Equal(t, "🍽️", e.Icon)
				assert.Equal(t, fixedNow, e.Date)
				assert.Equal(t, fixedNow, e.CreatedAt)
				assert.Equal(t, fixedNow, e.UpdatedAt)
			},
		},
		{
			name: "UnknownCategoryBecomesOther",
			args: args{form: expense.FormData{Title: "Milk", Amount: "3", Category: "Groceries"}},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, e *expense.Expense) {
				assert.Equal(t, expense.CategoryOther, e.Category)
				assert.Equal(t, expense.FallbackIcon, e.Icon)
			},
		},
		{
			name:    "MissingTitle",
			args:    args{form: expense.FormData{Title: "   ", Amount: "3"}},
			wantErr: true,
			wantIs:  expense.ErrValidation,
		},
		{
			name:    "NonNumericAmount",
			args:    args{form: expense.FormData{Title: "Milk", Amount: "three"}},
			wantErr: true,
			wantIs:  expense.ErrValidation,
		},
		{
			name:    "NegativeAmount",
			args:    args{form: expense.FormData{Title: "Refund", Amount: "-3"}},
			wantErr: true,
			wantIs:  expense.ErrInvalidAmount,
		},
		{
			name:    "SubCentAmount",
			args:    args{form: expense.FormData{Title: "Milk", Amount: "1.005"}},
			wantErr: true,
			wantIs:  expense.ErrInvalidAmount,
		},
		{
			name: "RepoError",
			args: args{form: expense.FormData{Title: "Milk", Amount: "3"}},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := expense.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := newService(repo).Add(context.Background(), tt.args.form)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)

				if tt.wantIs != nil {
					assert.ErrorIs(t, err, tt.wantIs)
				}

				return
			}

			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestService_Add_CancelledDuringLatency(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	svc := newService(repo, expense.WithLatency(expense.Latency{Add: time.Hour}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Add(ctx, expense.FormData{Title: "Milk", Amount: "3"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, svc.Busy())
}

func TestService_Busy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	repo.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)

	svc := newService(repo, expense.WithLatency(expense.Latency{Add: 200 * time.Millisecond}))
	assert.False(t, svc.Busy())

	done := make(chan error, 1)
	go func() {
		_, err := svc.Add(context.Background(), expense.FormData{Title: "Milk", Amount: "3"})
		done <- err
	}()

	assert.Eventually(t, svc.Busy, time.Second, 5*time.Millisecond)
	require.NoError(t, <-done)
	assert.False(t, svc.Busy())
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	svc := newService(repo)

	id := uuid.New()
	created := fixedNow.Add(-time.Hour)
	existing := &expense.Expense{
		ID:        id,
		Title:     "Cab",
		Amount:    decimal.NewFromInt(20),
		Category:  expense.CategoryOther,
		Icon:      expense.FallbackIcon,
		CreatedAt: created,
		UpdatedAt: created,
	}

	repo.EXPECT().GetExpense(gomock.Any(), id).Return(existing, nil)
	repo.EXPECT().
		UpdateExpense(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *expense.Expense) error {
			assert.Equal(t, "Airport cab", e.Title)
			assert.True(t, decimal.NewFromInt(20).Equal(e.Amount))
			assert.Equal(t, expense.CategoryTransportation, e.Category)
			assert.Equal(t, "🚗", e.Icon)
			assert.Equal(t, created, e.CreatedAt)
			assert.Equal(t, fixedNow, e.UpdatedAt)
			return nil
		})

	title := "Airport cab"
	category := expense.CategoryTransportation

	err := svc.Update(context.Background(), id, expense.Update{Title: &title, Category: &category})
	require.NoError(t, err)
}

func TestService_Update_NotFoundIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	repo.EXPECT().GetExpense(gomock.Any(), gomock.Any()).Return(nil, expense.ErrNotFound)

	title := "anything"
	err := newService(repo).Update(context.Background(), uuid.New(), expense.Update{Title: &title})
	assert.NoError(t, err)
}

func TestService_Update_RejectsBlankTitle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	blank := "  "
	err := newService(expense.NewMockRepository(ctrl)).Update(context.Background(), uuid.New(), expense.Update{Title: &blank})
	assert.ErrorIs(t, err, expense.ErrValidation)
}

func TestService_Update_RejectsUnstorableAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := newService(expense.NewMockRepository(ctrl))

	for _, s := range []string{"-1", "1.005", "1000000000000"} {
		amount := decimal.RequireFromString(s)
		err := svc.Update(context.Background(), uuid.New(), expense.Update{Amount: &amount})
		assert.ErrorIs(t, err, expense.ErrInvalidAmount, s)
	}
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	id := uuid.New()
	repo.EXPECT().DeleteExpense(gomock.Any(), id).Return(nil)

	assert.NoError(t, newService(repo).Delete(context.Background(), id))
}

func TestService_ImportBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	svc := newService(repo)

	forms := []expense.FormData{
		{Title: "newest", Amount: "1", Date: fixedNow},
		{Title: "oldest", Amount: "2", Date: fixedNow.AddDate(0, 0, -3)},
	}

	repo.EXPECT().
		CreateExpenses(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, es []*expense.Expense) error {
			require.Len(t, es, 2)
			assert.Equal(t, "newest", es[0].Title)
			assert.Equal(t, "oldest", es[1].Title)
			assert.Equal(t, fixedNow.AddDate(0, 0, -3), es[1].Date)
			assert.Less(t, es[1].ID.String(), es[0].ID.String(), "oldest row should get the smaller id")
			return nil
		})

	got, err := svc.ImportBatch(context.Background(), forms)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestService_ImportBatch_InvalidRow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	forms := []expense.FormData{
		{Title: "ok", Amount: "1"},
		{Title: "", Amount: "2"},
	}

	_, err := newService(expense.NewMockRepository(ctrl)).ImportBatch(context.Background(), forms)
	require.Error(t, err)
	assert.ErrorIs(t, err, expense.ErrValidation)
	assert.Contains(t, err.Error(), "row 2")
}
