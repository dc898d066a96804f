package money_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/aion/internal/money"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "1000", want: 100000},
		{in: "12.50", want: 1250},
		{in: "12,5", want: 1250},
		{in: "1.234,56", want: 123456},
		{in: "1,234.56", want: 123456},
		{in: "R$ 99,90", want: 9990},
		{in: "0.005", want: 1},
		{in: "-10,00", want: -1000},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := money.Parse(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, money.ErrInvalidAmount)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplit(t *testing.T) {
	assert.Equal(t, []int64{10000, 10000, 10000}, money.Split(30000, 3))
	assert.Equal(t, []int64{3334, 3333, 3333}, money.Split(10000, 3))
	assert.Equal(t, []int64{2, 1, 1, 1}, money.Split(5, 4))
	assert.Nil(t, money.Split(100, 0))

	var sum int64
	for _, p := range money.Split(99999, 7) {
		sum += p
	}

	assert.Equal(t, int64(99999), sum)
}

func TestReais_JSON(t *testing.T) {
	type doc struct {
		Amount money.Reais `json:"amount"`
	}

	out, err := json.Marshal(doc{Amount: 123405})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount": 1234.05}`, string(out))

	tests := map[string]money.Reais{
		`{"amount": 100.5}`:   10050,
		`{"amount": "19.99"}`: 1999,
		`{"amount": 0.105}`:   11,
		`{"amount": null}`:    0,
		`{"amount": 1200}`:    120000,
	}

	for in, want := range tests {
		var d doc
		require.NoError(t, json.Unmarshal([]byte(in), &d), in)
		assert.Equal(t, want, d.Amount, in)
	}

	var d doc
	assert.Error(t, json.Unmarshal([]byte(`{"amount": "ten"}`), &d))
}

func TestFormatPlain_RoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 5, 1999, 123456} {
		got, err := money.Parse(money.FormatPlain(cents))
		require.NoError(t, err)
		assert.Equal(t, cents, got)
	}

	assert.Equal(t, "1234.50", money.FormatPlain(123450))
}
