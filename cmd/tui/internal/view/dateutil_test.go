package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/aion/internal/transaction"
)

func TestMonthCursor(t *testing.T) {
	c := MonthCursor{Year: 2024, Month: time.December}

	assert.Equal(t, MonthCursor{Year: 2025, Month: time.January}, c.Next())
	assert.Equal(t, MonthCursor{Year: 2024, Month: time.November}, c.Prev())
	assert.Equal(t, MonthCursor{Year: 2023, Month: time.December}, MonthCursor{Year: 2024, Month: time.January}.Prev())
	assert.Equal(t, "Dezembro de 2024", c.String())

	start, end := c.Range(time.UTC)
	assert.Equal(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	for _, in := range []string{"05/03/2024", "2024-03-05", " 05/03/2024 "} {
		got, err := ParseDate(in, time.UTC)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDate("31/02/2024", time.UTC)
	assert.Error(t, err)

	_, err = ParseDate("", time.UTC)
	assert.Error(t, err)
}

func TestInstallmentLabel(t *testing.T) {
	assert.Equal(t, "2/10", installmentLabel(&transaction.Transaction{InstallmentCurrent: 2, InstallmentTotal: 10}))
	assert.Equal(t, "fixa", installmentLabel(&transaction.Transaction{IsRecurring: true}))
	assert.Empty(t, installmentLabel(&transaction.Transaction{}))
}
