package snapshot_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/aion/internal/snapshot"
	"github.com/MrJamesThe3rd/aion/internal/transaction"
)

// A transaction exported by the browser application.
const legacyTransaction = `{
	"id": "k2j3h4g5f",
	"groupId": "ab12cd34e",
	"description": "Notebook",
	"amount": 333.34,
	"date": "2024-03-15",
	"type": "EXPENSE",
	"category": "Educação",
	"status": "paid",
	"paidAt": "2024-03-16T14:03:00.000Z",
	"installmentCurrent": 1,
	"installmentTotal": 3,
	"paymentMethod": "credit_card",
	"cardId": "zz99yy88x"
}`

func TestTransaction_Legacy(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	var doc snapshot.Transaction
	require.NoError(t, json.Unmarshal([]byte(legacyTransaction), &doc))

	tx, err := doc.ToTransaction(loc)
	require.NoError(t, err)

	assert.Equal(t, int64(33334), tx.Amount)
	assert.Equal(t, transaction.TypeExpense, tx.Type)
	assert.Equal(t, transaction.StatusPaid, tx.Status)
	assert.Equal(t, transaction.PaymentCreditCard, tx.PaymentMethod)
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, loc), tx.Date)
	require.NotNil(t, tx.PaidAt)
	assert.True(t, tx.PaidAt.Equal(time.Date(2024, time.March, 16, 14, 3, 0, 0, time.UTC)))
	assert.True(t, tx.IsInstallment())

	again, err := doc.ToTransaction(loc)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, again.ID, "legacy ids map to stable uuids")
	assert.Equal(t, *tx.GroupID, *again.GroupID)
}

func TestTransaction_RoundTrip(t *testing.T) {
	groupID := uuid.New()
	paidAt := time.Date(2024, time.July, 2, 10, 0, 0, 0, time.UTC)

	in := &transaction.Transaction{
		ID:            uuid.New(),
		GroupID:       &groupID,
		Description:   "Gym",
		Amount:        9990,
		Category:      "Saúde",
		Type:          transaction.TypeExpense,
		Status:        transaction.StatusPaid,
		Date:          time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC),
		PaidAt:        &paidAt,
		IsRecurring:   true,
		PaymentMethod: transaction.PaymentPix,
		CreatedAt:     time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(snapshot.FromTransaction(in))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"amount":99.90`)
	assert.Contains(t, string(raw), `"date":"2024-07-01"`)
	assert.Contains(t, string(raw), `"type":"EXPENSE"`)

	var doc snapshot.Transaction
	require.NoError(t, json.Unmarshal(raw, &doc))

	out, err := doc.ToTransaction(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestTransaction_Invalid(t *testing.T) {
	tests := map[string]snapshot.Transaction{
		"MissingID":     {Description: "x", Amount: 100, Date: "2024-01-01", Type: "INCOME", Status: "paid"},
		"UnknownType":   {ID: "a", Amount: 100, Date: "2024-01-01", Type: "TRANSFER", Status: "paid"},
		"UnknownStatus": {ID: "a", Amount: 100, Date: "2024-01-01", Type: "INCOME", Status: "late"},
		"ZeroAmount":    {ID: "a", Date: "2024-01-01", Type: "INCOME", Status: "paid"},
		"BadDate":       {ID: "a", Amount: 100, Date: "01/02/2024", Type: "INCOME", Status: "paid"},
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := doc.ToTransaction(time.UTC)
			assert.Error(t, err)
		})
	}
}

func TestGoal_Deadline(t *testing.T) {
	doc := snapshot.Goal{
		ID:            "g1",
		Title:         "Viagem",
		TargetAmount:  500000,
		CurrentAmount: 12000,
		Deadline:      "2025-12-01T00:00:00.000Z",
		CreatedAt:     "2024-01-10T12:00:00.000Z",
	}

	g, err := doc.ToGoal(time.UTC)
	require.NoError(t, err)
	require.NotNil(t, g.Deadline)
	assert.Equal(t, 2025, g.Deadline.Year())
	assert.Equal(t, int64(12000), g.CurrentAmount)

	back := snapshot.FromGoal(g)
	assert.Equal(t, "2025-12-01T00:00:00Z", back.Deadline)
}

func TestTransaction_TimestampDateStableAcrossReload(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	tests := map[string]struct {
		date string
		want time.Time
	}{
		"LocalMidnightAsUTC": {date: "2024-02-01T03:00:00.000Z", want: time.Date(2024, time.February, 1, 0, 0, 0, 0, loc)},
		"UTCMidnight":        {date: "2024-02-01T00:00:00.000Z", want: time.Date(2024, time.January, 31, 0, 0, 0, 0, loc)},
		"BareDate":           {date: "2024-02-01", want: time.Date(2024, time.February, 1, 0, 0, 0, 0, loc)},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			doc := snapshot.Transaction{ID: "a1", Description: "Aluguel", Amount: 150000, Date: tt.date, Type: "EXPENSE", Status: "pending"}

			first, err := doc.ToTransaction(loc)
			require.NoError(t, err)
			assert.True(t, first.Date.Equal(tt.want), "got %s", first.Date)

			reloaded, err := snapshot.FromTransaction(first).ToTransaction(loc)
			require.NoError(t, err)
			assert.True(t, reloaded.Date.Equal(first.Date), "date changed after reload: %s -> %s", first.Date, reloaded.Date)
			assert.Equal(t, first.Date.Month(), reloaded.Date.Month())
		})
	}
}

func TestTransaction_PaidAtFollowsStatus(t *testing.T) {
	paidNoDate := snapshot.Transaction{ID: "p1", Description: "Luz", Amount: 20000, Date: "2024-05-10", Type: "EXPENSE", Status: "paid"}

	tx, err := paidNoDate.ToTransaction(time.UTC)
	require.NoError(t, err)
	require.NotNil(t, tx.PaidAt)
	assert.True(t, tx.PaidAt.Equal(tx.Date))

	pendingWithDate := snapshot.Transaction{
		ID: "p2", Description: "Água", Amount: 9000, Date: "2024-05-10", Type: "EXPENSE", Status: "pending",
		PaidAt: "2024-05-09T10:00:00Z",
	}

	tx, err = pendingWithDate.ToTransaction(time.UTC)
	require.NoError(t, err)
	assert.Nil(t, tx.PaidAt)
}
