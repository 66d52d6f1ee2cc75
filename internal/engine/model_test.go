package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestUserCredit(t *testing.T) {
	u := &User{Saldo: dec("10.00")}

	require.NoError(t, u.Credit(dec("2.50")))
	assert.True(t, u.Saldo.Equal(dec("12.50")))

	require.NoError(t, u.Credit(decimal.Zero))
	assert.True(t, u.Saldo.Equal(dec("12.50")))

	err := u.Credit(dec("-1.00"))
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.True(t, u.Saldo.Equal(dec("12.50")))
}

func TestUserDebit(t *testing.T) {
	testCases := []struct {
		name    string
		saldo   string
		amount  string
		wantErr error
		want    string
	}{
		{name: "debito parcial", saldo: "10.00", amount: "4.00", want: "6.00"},
		{name: "debito total zera saldo", saldo: "10.00", amount: "10.00", want: "0.00"},
		{name: "saldo insuficiente", saldo: "10.00", amount: "15.00", wantErr: ErrInsufficientFunds, want: "10.00"},
		{name: "valor negativo", saldo: "10.00", amount: "-1.00", wantErr: ErrInvalidAmount, want: "10.00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u := &User{Saldo: dec(tc.saldo)}
			err := u.Debit(dec(tc.amount))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
			// falha nunca muta o saldo
			assert.True(t, u.Saldo.Equal(dec(tc.want)), "saldo %s", u.Saldo)
		})
	}
}

func TestBonusPlayCounter(t *testing.T) {
	u := &User{}

	err := u.ConsumeBonusPlay()
	assert.ErrorIs(t, err, ErrNoBonusPlayAvailable)

	u.GrantBonusPlays(2)
	assert.Equal(t, 2, u.BonusPlaysAvailable)

	u.GrantBonusPlays(0)
	u.GrantBonusPlays(-3)
	assert.Equal(t, 2, u.BonusPlaysAvailable)

	require.NoError(t, u.ConsumeBonusPlay())
	require.NoError(t, u.ConsumeBonusPlay())
	assert.Equal(t, 0, u.BonusPlaysAvailable)
	assert.ErrorIs(t, u.ConsumeBonusPlay(), ErrNoBonusPlayAvailable)
}
