package localstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/aion/internal/card"
	"github.com/MrJamesThe3rd/aion/internal/goal"
	"github.com/MrJamesThe3rd/aion/internal/localstore"
	"github.com/MrJamesThe3rd/aion/internal/settings"
	"github.com/MrJamesThe3rd/aion/internal/transaction"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func open(t *testing.T, dir string) *localstore.Store {
	t.Helper()

	s, err := localstore.Open(context.Background(), dir, time.UTC)
	require.NoError(t, err)

	return s
}

func member(groupID *uuid.UUID, date time.Time) *transaction.Transaction {
	return &transaction.Transaction{
		ID:            uuid.New(),
		GroupID:       groupID,
		Description:   "Netflix",
		Amount:        5590,
		Category:      "Lazer",
		Type:          transaction.TypeExpense,
		Status:        transaction.StatusPending,
		Date:          date,
		IsRecurring:   groupID != nil,
		PaymentMethod: transaction.PaymentCreditCard,
		CreatedAt:     day(time.January, 1),
	}
}

func TestStore_TransactionsSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	s := open(t, dir)

	groupID := uuid.New()
	txs := []*transaction.Transaction{
		member(&groupID, day(time.March, 5)),
		member(&groupID, day(time.January, 5)),
		member(&groupID, day(time.February, 5)),
		member(nil, day(time.February, 20)),
	}

	require.NoError(t, s.CreateTransactions(ctx, txs))

	reopened := open(t, dir)

	all, err := reopened.ListTransactions(ctx, transaction.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.True(t, all[0].Date.Equal(day(time.January, 5)), "listing is ordered by date")
	assert.Equal(t, groupID, *all[0].GroupID)

	start, end := day(time.February, 1), day(time.March, 1)
	feb, err := reopened.ListTransactions(ctx, transaction.ListFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	assert.Len(t, feb, 2)

	expense := transaction.TypeExpense
	grouped, err := reopened.ListTransactions(ctx, transaction.ListFilter{GroupID: &groupID, Type: &expense})
	require.NoError(t, err)
	assert.Len(t, grouped, 3)
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := open(t, t.TempDir())

	tx := member(nil, day(time.May, 1))
	require.NoError(t, s.CreateTransactions(ctx, []*transaction.Transaction{tx}))

	tx.Description = "changed by caller"

	got, err := s.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "Netflix", got.Description)

	got.Amount = 1

	again, err := s.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5590), again.Amount)
}

func TestStore_GroupOperations(t *testing.T) {
	ctx := context.Background()
	s := open(t, t.TempDir())

	groupID := uuid.New()
	earlyPaidAt := day(time.January, 5)
	paidEarly := member(&groupID, day(time.April, 10))
	require.NoError(t, paidEarly.MarkPaid(earlyPaidAt))

	txs := []*transaction.Transaction{
		member(&groupID, day(time.January, 10)),
		member(&groupID, day(time.February, 10)),
		member(&groupID, day(time.March, 10)),
		member(nil, day(time.January, 2)),
		paidEarly,
	}
	require.NoError(t, s.CreateTransactions(ctx, txs))

	n, err := s.MarkOverdue(ctx, day(time.February, 15))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = s.MarkOverdue(ctx, day(time.February, 15))
	require.NoError(t, err)
	assert.Zero(t, n)

	paidAt := day(time.February, 16)
	n, err = s.PayGroup(ctx, groupID, paidAt)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	got, err := s.GetTransaction(ctx, txs[2].ID)
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

	loose, err := s.GetTransaction(ctx, txs[3].ID)
	require.NoError(t, err)
	assert.Equal(t, transaction.StatusOverdue, loose.Status)

	n, err = s.DeleteGroupAfter(ctx, groupID, day(time.January, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	left, err := s.ListTransactions(ctx, transaction.ListFilter{GroupID: &groupID})
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestStore_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := open(t, t.TempDir())

	tx := member(nil, day(time.May, 1))
	require.NoError(t, s.CreateTransactions(ctx, []*transaction.Transaction{tx}))

	tx.Description = "Netflix 4K"
	require.NoError(t, tx.MarkPaid(day(time.May, 2)))
	require.NoError(t, s.UpdateTransaction(ctx, tx))

	got, err := s.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "Netflix 4K", got.Description)
	assert.Equal(t, transaction.StatusPaid, got.Status)

	assert.ErrorIs(t, s.UpdateTransaction(ctx, member(nil, day(time.May, 1))), transaction.ErrNotFound)

	require.NoError(t, s.DeleteTransaction(ctx, tx.ID))
	assert.ErrorIs(t, s.DeleteTransaction(ctx, tx.ID), transaction.ErrNotFound)

	_, err = s.GetTransaction(ctx, tx.ID)
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestStore_UnreadableCollectionsStartEmpty(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, localstore.KeyTransactions), []byte("not a ledger"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, localstore.KeyCards), []byte(`[{"id":"","name":"x"}]`), 0o600))

	s := open(t, dir)

	txs, err := s.ListTransactions(ctx, transaction.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, txs)

	cards, err := s.ListCards(ctx)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestStore_ReadsPlainJSONWithLegacyIDs(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	plain := `[
		{"id":"1700000000000","description":"Salário","amount":5000,"date":"2024-05-05","type":"INCOME","category":"Salário","status":"paid","paidAt":"2024-05-05T09:00:00Z"},
		{"id":"broken","description":"","amount":-1,"date":"nope","type":"EXPENSE","status":"pending"}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, localstore.KeyTransactions), []byte(plain), 0o600))

	s := open(t, dir)

	txs, err := s.ListTransactions(ctx, transaction.ListFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, int64(500000), txs[0].Amount)
	assert.Equal(t, transaction.TypeIncome, txs[0].Type)
	assert.NotEqual(t, uuid.Nil, txs[0].ID)
}

func TestStore_LegacyTimestampsStableAcrossReopen(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	dir := t.TempDir()
	ctx := context.Background()

	plain := `[
		{"id":"r1","description":"Aluguel","amount":1500,"date":"2024-02-01T03:00:00.000Z","type":"EXPENSE","category":"Moradia","status":"paid"}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, localstore.KeyTransactions), []byte(plain), 0o600))

	s, err := localstore.Open(ctx, dir, loc)
	require.NoError(t, err)

	first, err := s.ListTransactions(ctx, transaction.ListFilter{})
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, first[0].Date.Equal(time.Date(2024, time.February, 1, 0, 0, 0, 0, loc)))
	require.NotNil(t, first[0].PaidAt, "paid documents always carry a payment date")

	require.NoError(t, s.ReplaceTransactions(ctx, first))

	reopened, err := localstore.Open(ctx, dir, loc)
	require.NoError(t, err)

	again, err := reopened.ListTransactions(ctx, transaction.ListFilter{})
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.True(t, again[0].Date.Equal(first[0].Date))
	assert.Equal(t, time.February, again[0].Date.In(loc).Month())
}

func TestStore_Entities(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	s := open(t, dir)

	c := &card.Card{ID: uuid.New(), Name: "Nubank", HolderName: "Ana", LimitTotal: 500000, ClosingDay: 3, DueDay: 10}
	require.NoError(t, s.CreateCard(ctx, c))

	c.IsArchived = true
	require.NoError(t, s.UpdateCard(ctx, c))
	assert.ErrorIs(t, s.UpdateCard(ctx, &card.Card{ID: uuid.New()}), card.ErrNotFound)

	g := &goal.Goal{ID: uuid.New(), Title: "Viagem", TargetAmount: 1000000, CurrentAmount: 25000, CreatedAt: day(time.April, 1)}
	require.NoError(t, s.CreateGoal(ctx, g))

	require.NoError(t, s.ReplaceCategories(ctx, []string{"Casa", "Pets"}))
	require.NoError(t, s.SaveSettings(ctx, settings.Settings{Theme: "blue", Mode: "light", UserName: "Ana"}))

	reopened := open(t, dir)

	gotCard, err := reopened.GetCard(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nubank", gotCard.Name)
	assert.True(t, gotCard.IsArchived)

	gotGoal, err := reopened.GetGoal(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(25000), gotGoal.CurrentAmount)

	names, err := reopened.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Casa", "Pets"}, names)

	prefs, err := reopened.GetSettings(ctx)
	require.NoError(t, err)
	require.NotNil(t, prefs)
	assert.Equal(t, "blue", prefs.Theme)

	require.NoError(t, reopened.DeleteCard(ctx, c.ID))
	assert.ErrorIs(t, reopened.DeleteCard(ctx, c.ID), card.ErrNotFound)

	require.NoError(t, reopened.DeleteGoal(ctx, g.ID))
	_, err = reopened.GetGoal(ctx, g.ID)
	assert.ErrorIs(t, err, goal.ErrNotFound)
}

func TestStore_EmptyDirectory(t *testing.T) {
	ctx := context.Background()
	s := open(t, t.TempDir())

	names, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Nil(t, names)

	prefs, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Nil(t, prefs)
}
