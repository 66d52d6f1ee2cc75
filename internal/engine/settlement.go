package engine

import "github.com/shopspring/decimal"

// PlayOutcome é o resultado de uma raspadinha informado pelo chamador.
// O engine não sorteia prêmios; só valida e liquida.
type PlayOutcome struct {
	Prize   decimal.Decimal
	IsBonus bool
}

// SettlementRequest descreve uma compra de raspadinhas a liquidar.
type SettlementRequest struct {
	PlayCount       int
	StakeTotal      decimal.Decimal
	PrizeTotal      decimal.Decimal
	FundedByBalance bool
	UseBonusPlay    bool
	Plays           []PlayOutcome
}

// Validate confere a consistência do lote antes de qualquer mutação:
// quantidade declarada igual ao tamanho da lista e premio_total igual à
// soma exata (decimal) dos prêmios individuais.
func (r *SettlementRequest) Validate() error {
	if r.PlayCount <= 0 || r.StakeTotal.IsNegative() || r.PrizeTotal.IsNegative() {
		return ErrInvalidAmount
	}
	if len(r.Plays) != r.PlayCount {
		return ErrPlayCountMismatch
	}

	sum := decimal.Zero
	for _, p := range r.Plays {
		if p.Prize.IsNegative() {
			return ErrInvalidAmount
		}
		sum = sum.Add(p.Prize)
	}
	if !sum.Equal(r.PrizeTotal) {
		return ErrPrizeMismatch
	}
	return nil
}
