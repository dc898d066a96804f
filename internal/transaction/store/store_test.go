package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/aion/internal/database/dbtest"
	"github.com/MrJamesThe3rd/aion/internal/transaction"
	"github.com/MrJamesThe3rd/aion/internal/transaction/store"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func member(groupID *uuid.UUID, date time.Time, status transaction.Status) *transaction.Transaction {
	return &transaction.Transaction{
		ID:            uuid.New(),
		GroupID:       groupID,
		Description:   "Gym",
		Amount:        9990,
		Category:      "Lazer",
		Type:          transaction.TypeExpense,
		Status:        status,
		Date:          date,
		IsRecurring:   groupID != nil,
		PaymentMethod: transaction.PaymentPix,
		CreatedAt:     day(time.January, 1),
	}
}

func TestStore_Lifecycle(t *testing.T) {
	db := dbtest.Postgres(t)
	s := store.New(db)
	ctx := context.Background()

	groupID := uuid.New()
	earlyPaidAt := day(time.January, 5)
	paidEarly := member(&groupID, day(time.April, 10), transaction.StatusPending)
	require.NoError(t, paidEarly.MarkPaid(earlyPaidAt))

	txs := []*transaction.Transaction{
		member(&groupID, day(time.January, 10), transaction.StatusPending),
		member(&groupID, day(time.February, 10), transaction.StatusPending),
		member(&groupID, day(time.March, 10), transaction.StatusPending),
		member(nil, day(time.February, 20), transaction.StatusPending),
		paidEarly,
	}

	require.NoError(t, s.CreateTransactions(ctx, txs))

	got, err := s.GetTransaction(ctx, txs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Gym", got.Description)
	assert.Equal(t, groupID, *got.GroupID)
	assert.True(t, got.Date.Equal(day(time.January, 10)))
	assert.Nil(t, got.PaidAt)

	group, err := s.ListTransactions(ctx, transaction.ListFilter{GroupID: &groupID})
	require.NoError(t, err)
	assert.Len(t, group, 4)

	start, end := day(time.February, 1), day(time.March, 1)
	feb, err := s.ListTransactions(ctx, transaction.ListFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	assert.Len(t, feb, 2)

	n, err := s.MarkOverdue(ctx, day(time.February, 15))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	paidAt := day(time.February, 16)
	n, err = s.PayGroup(ctx, groupID, paidAt)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	got, err = s.GetTransaction(ctx, txs[2].ID)
	require.NoError(t, err)
	assert.Equal(t, transaction.StatusPaid, got.Status)
	require.NotNil(t, got.PaidAt)
	assert.True(t, got.PaidAt.Equal(paidAt))

	kept, err := s.GetTransaction(ctx, paidEarly.ID)
	require.NoError(t, err)
	assert.Equal(t, transaction.StatusPaid, kept.Status)
	require.NotNil(t, kept.PaidAt)
	assert.True(t, kept.PaidAt.Equal(earlyPaidAt), "already paid members keep their payment date")

	n, err = s.PayGroup(ctx, groupID, day(time.February, 20))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.DeleteGroupAfter(ctx, groupID, day(time.January, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.NoError(t, s.DeleteTransaction(ctx, txs[3].ID))
	assert.ErrorIs(t, s.DeleteTransaction(ctx, txs[3].ID), transaction.ErrNotFound)

	_, err = s.GetTransaction(ctx, txs[3].ID)
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestStore_UpdateAndReplace(t *testing.T) {
	db := dbtest.Postgres(t)
	s := store.New(db)
	ctx := context.Background()

	tx := member(nil, day(time.May, 5), transaction.StatusPending)
	require.NoError(t, s.CreateTransactions(ctx, []*transaction.Transaction{tx}))

	tx.Description = "Gym annual"
	tx.Amount = 99000
	require.NoError(t, tx.MarkPaid(day(time.May, 6)))
	require.NoError(t, s.UpdateTransaction(ctx, tx))

	got, err := s.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gym annual", got.Description)
	assert.Equal(t, int64(99000), got.Amount)
	assert.Equal(t, transaction.StatusPaid, got.Status)

	assert.ErrorIs(t, s.UpdateTransaction(ctx, member(nil, day(time.May, 5), transaction.StatusPending)), transaction.ErrNotFound)

	replacement := []*transaction.Transaction{member(nil, day(time.June, 1), transaction.StatusPending)}
	require.NoError(t, s.ReplaceTransactions(ctx, replacement))

	all, err := s.ListTransactions(ctx, transaction.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, replacement[0].ID, all[0].ID)
}
