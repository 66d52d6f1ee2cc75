package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSettlementValidate(t *testing.T) {
	plays := func(prizes ...string) []PlayOutcome {
		out := make([]PlayOutcome, len(prizes))
		for i, p := range prizes {
			out[i] = PlayOutcome{Prize: dec(p)}
		}
		return out
	}

	testCases := []struct {
		name    string
		req     SettlementRequest
		wantErr error
	}{
		{
			name: "lote consistente",
			req: SettlementRequest{
				PlayCount:  3,
				StakeTotal: dec("3.00"),
				PrizeTotal: dec("7.50"),
				Plays:      plays("0.00", "2.50", "5.00"),
			},
		},
		{
			name: "soma dos premios diverge do total declarado",
			req: SettlementRequest{
				PlayCount:  3,
				StakeTotal: dec("3.00"),
				PrizeTotal: dec("8.00"),
				Plays:      plays("0.00", "2.50", "5.00"),
			},
			wantErr: ErrPrizeMismatch,
		},
		{
			name: "igualdade decimal exata, nao aproximada",
			req: SettlementRequest{
				PlayCount:  2,
				StakeTotal: dec("2.00"),
				PrizeTotal: dec("0.30"),
				Plays:      plays("0.10", "0.20"),
			},
		},
		{
			name: "quantidade declarada diverge da lista",
			req: SettlementRequest{
				PlayCount:  3,
				StakeTotal: dec("3.00"),
				PrizeTotal: dec("1.00"),
				Plays:      plays("1.00"),
			},
			wantErr: ErrPlayCountMismatch,
		},
		{
			name: "quantidade zero",
			req: SettlementRequest{
				PlayCount:  0,
				StakeTotal: decimal.Zero,
				PrizeTotal: decimal.Zero,
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "premio individual negativo",
			req: SettlementRequest{
				PlayCount:  2,
				StakeTotal: dec("2.00"),
				PrizeTotal: dec("1.00"),
				Plays:      plays("2.00", "-1.00"),
			},
			wantErr: ErrInvalidAmount,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
