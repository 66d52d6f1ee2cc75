package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// User é a entidade financeira central: saldo em reais (NUMERIC exato) e
// contadores de indicação/bônus. Todas as mutações monetárias passam pelos
// métodos abaixo, sempre dentro da transação da operação que as engloba.
type User struct {
	ID                        string
	Nome                      string
	Email                     string
	Telefone                  string
	PasswordHash              string
	Saldo                     decimal.Decimal
	ReferralCode              string
	ReferredByUserID          *string
	PartnerCouponID           *string
	ReferralCount             int
	ReferralBonusAwardedCount int
	BonusPlaysAvailable       int
	CreatedAt                 time.Time
	LastLoginAt               *time.Time
}

// Credit adiciona valor ao saldo. Valor negativo é erro de chamada,
// nunca uma operação parcial.
func (u *User) Credit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	u.Saldo = u.Saldo.Add(amount)
	return nil
}

// Debit subtrai valor do saldo. Falha com ErrInsufficientFunds sem mutar
// nada quando o saldo não cobre o valor.
func (u *User) Debit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	if u.Saldo.LessThan(amount) {
		return ErrInsufficientFunds
	}
	u.Saldo = u.Saldo.Sub(amount)
	return nil
}

// GrantBonusPlays credita raspadinhas bônus ao usuário.
func (u *User) GrantBonusPlays(count int) {
	if count <= 0 {
		return
	}
	u.BonusPlaysAvailable += count
}

// ConsumeBonusPlay consome uma raspadinha bônus, se houver.
func (u *User) ConsumeBonusPlay() error {
	if u.BonusPlaysAvailable <= 0 {
		return ErrNoBonusPlayAvailable
	}
	u.BonusPlaysAvailable--
	return nil
}

// PartnerCoupon é um código promocional emitido para um parceiro externo.
// usage_count acompanha quantos usuários se cadastraram com ele.
type PartnerCoupon struct {
	ID          string
	Code        string
	PartnerName string
	Description string
	IsActive    bool
	UsageCount  int
	CreatedAt   time.Time
}

// Game é uma compra de N raspadinhas liquidada como uma única transação.
// Imutável depois de criada.
type Game struct {
	ID              string
	UserID          string
	PlayCount       int
	StakeTotal      decimal.Decimal
	PrizeTotal      decimal.Decimal
	FundedByBalance bool
	UsedBonusPlay   bool
	CreatedAt       time.Time
	Plays           []Play
}

// Play é o resultado de uma raspadinha individual.
type Play struct {
	ID      string
	GameID  string
	Prize   decimal.Decimal
	IsBonus bool
}

// Withdrawal é um pedido de saque via PIX, com ciclo de vida de quatro
// estados (ver withdrawal.go).
type Withdrawal struct {
	ID          string
	UserID      string
	Amount      decimal.Decimal
	PixKey      string
	Status      string
	RequestedAt time.Time
	ProcessedAt *time.Time
}

// Setting é uma entrada chave/valor de configuração da plataforma.
type Setting struct {
	Chave     string
	Valor     string
	Descricao string
}
