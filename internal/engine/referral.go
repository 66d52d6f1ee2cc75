package engine

// ApplyReferral registra mais um cadastro indicado no usuário indicador e
// concede raspadinhas bônus para cada múltiplo de 3 recém-atingido.
//
// A comparação é contra a marca d'água durável (ReferralBonusAwardedCount),
// não contra "count % 3 == 0": repetir a operação nunca premia duas vezes o
// mesmo limiar, e contagens ajustadas fora de banda ainda convergem.
func (u *User) ApplyReferral() int {
	u.ReferralCount++

	threshold := u.ReferralCount / 3
	if threshold <= u.ReferralBonusAwardedCount {
		return 0
	}

	delta := threshold - u.ReferralBonusAwardedCount
	u.GrantBonusPlays(delta)
	u.ReferralBonusAwardedCount = threshold
	return delta
}
