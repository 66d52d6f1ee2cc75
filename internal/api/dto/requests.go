package dto

import "github.com/shopspring/decimal"

type RegisterRequest struct {
	Nome          string `json:"nome"`
	Email         string `json:"email"`
	Telefone      string `json:"telefone"`
	Senha         string `json:"senha"`
	CodigoConvite string `json:"codigo_convite,omitempty"`
}

type LoginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

type UpdateProfileRequest struct {
	Nome     *string `json:"nome,omitempty"`
	Telefone *string `json:"telefone,omitempty"`
	Senha    *string `json:"senha,omitempty"`
}

// PlayResult é o resultado de uma raspadinha dentro do lote.
type PlayResult struct {
	Premio  decimal.Decimal `json:"premio"`
	IsBonus bool            `json:"is_bonus"`
}

// NewGameRequest liquida a compra de um lote de raspadinhas. O valor
// total e a soma dos prêmios são conferidos no servidor.
type NewGameRequest struct {
	QuantidadeRaspadinhas int             `json:"quantidade_raspadinhas"`
	ValorTotal            decimal.Decimal `json:"valor_total"`
	PremioTotal           decimal.Decimal `json:"premio_total"`
	OrigemSaldo           bool            `json:"origem_saldo"`
	UsouBonus             bool            `json:"usou_bonus"`
	Raspadinhas           []PlayResult    `json:"raspadinhas"`
}

type WithdrawalRequest struct {
	Valor    decimal.Decimal `json:"valor"`
	ChavePix string          `json:"chave_pix"`
}

type SetWithdrawalStatusRequest struct {
	Status string `json:"status"`
}

type CreateCouponRequest struct {
	Code        string `json:"code"`
	PartnerName string `json:"partner_name"`
	Description string `json:"description,omitempty"`
}

type UpsertSettingRequest struct {
	Chave     string `json:"chave"`
	Valor     string `json:"valor"`
	Descricao string `json:"descricao,omitempty"`
}
