package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/raspadinha-premiada/platform/internal/engine"
)

type ErrorResponse struct {
	Erro string `json:"erro"`
}

type TokenResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID                  string          `json:"id"`
	Nome                string          `json:"nome"`
	Email               string          `json:"email"`
	Telefone            string          `json:"telefone"`
	Saldo               decimal.Decimal `json:"saldo"`
	ReferralCode        string          `json:"referral_code"`
	BonusPlaysAvailable int             `json:"raspadinhas_bonus"`
	IsAdmin             bool            `json:"is_admin"`
	CreatedAt           time.Time       `json:"created_at"`
}

func NewUserResponse(u *engine.User, isAdmin bool) UserResponse {
	return UserResponse{
		ID:                  u.ID,
		Nome:                u.Nome,
		Email:               u.Email,
		Telefone:            u.Telefone,
		Saldo:               u.Saldo,
		ReferralCode:        u.ReferralCode,
		BonusPlaysAvailable: u.BonusPlaysAvailable,
		IsAdmin:             isAdmin,
		CreatedAt:           u.CreatedAt,
	}
}

// ReferralInfoResponse mostra o progresso até a próxima raspadinha bônus.
type ReferralInfoResponse struct {
	ReferralCode        string `json:"referral_code"`
	ReferralCount       int    `json:"total_indicacoes"`
	BonusAwarded        int    `json:"bonus_concedidos"`
	NextBonusIn         int    `json:"faltam_para_proximo_bonus"`
	BonusPlaysAvailable int    `json:"raspadinhas_bonus"`
}

type PlayResponse struct {
	ID      string          `json:"id"`
	Premio  decimal.Decimal `json:"premio"`
	IsBonus bool            `json:"is_bonus"`
}

type GameResponse struct {
	ID                    string          `json:"id"`
	UserID                string          `json:"user_id"`
	QuantidadeRaspadinhas int             `json:"quantidade_raspadinhas"`
	ValorTotal            decimal.Decimal `json:"valor_total"`
	PremioTotal           decimal.Decimal `json:"premio_total"`
	OrigemSaldo           bool            `json:"origem_saldo"`
	UsouBonus             bool            `json:"usou_bonus"`
	CreatedAt             time.Time       `json:"created_at"`
	Raspadinhas           []PlayResponse  `json:"raspadinhas,omitempty"`
}

func NewGameResponse(g *engine.Game) GameResponse {
	resp := GameResponse{
		ID:                    g.ID,
		UserID:                g.UserID,
		QuantidadeRaspadinhas: g.PlayCount,
		ValorTotal:            g.StakeTotal,
		PremioTotal:           g.PrizeTotal,
		OrigemSaldo:           g.FundedByBalance,
		UsouBonus:             g.UsedBonusPlay,
		CreatedAt:             g.CreatedAt,
	}
	for _, p := range g.Plays {
		resp.Raspadinhas = append(resp.Raspadinhas, PlayResponse{
			ID: p.ID, Premio: p.Prize, IsBonus: p.IsBonus,
		})
	}
	return resp
}

// NewGameResult devolve o lote liquidado junto com o saldo atualizado.
type NewGameResult struct {
	Jogo      GameResponse    `json:"jogo"`
	NovoSaldo decimal.Decimal `json:"novo_saldo"`
}

type WithdrawalResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Valor       decimal.Decimal `json:"valor"`
	ChavePix    string          `json:"chave_pix"`
	Status      string          `json:"status"`
	RequestedAt time.Time       `json:"solicitado_em"`
	ProcessedAt *time.Time      `json:"processado_em,omitempty"`
}

func NewWithdrawalResponse(w *engine.Withdrawal) WithdrawalResponse {
	return WithdrawalResponse{
		ID:          w.ID,
		UserID:      w.UserID,
		Valor:       w.Amount,
		ChavePix:    w.PixKey,
		Status:      w.Status,
		RequestedAt: w.RequestedAt,
		ProcessedAt: w.ProcessedAt,
	}
}

type WithdrawalResult struct {
	Saque     WithdrawalResponse `json:"saque"`
	NovoSaldo decimal.Decimal    `json:"novo_saldo"`
}

type CouponResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	PartnerName string    `json:"partner_name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	UsageCount  int       `json:"usage_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewCouponResponse(c *engine.PartnerCoupon) CouponResponse {
	return CouponResponse{
		ID:          c.ID,
		Code:        c.Code,
		PartnerName: c.PartnerName,
		Description: c.Description,
		IsActive:    c.IsActive,
		UsageCount:  c.UsageCount,
		CreatedAt:   c.CreatedAt,
	}
}

type SettingResponse struct {
	Chave     string `json:"chave"`
	Valor     string `json:"valor"`
	Descricao string `json:"descricao,omitempty"`
}

// PagedResponse embrulha listagens administrativas com o total bruto.
type PagedResponse struct {
	Items   any `json:"items"`
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// AdminUserResponse expõe os contadores que o painel precisa ver.
type AdminUserResponse struct {
	UserResponse
	ReferralCount             int        `json:"total_indicacoes"`
	ReferralBonusAwardedCount int        `json:"bonus_concedidos"`
	LastLoginAt               *time.Time `json:"last_login_at,omitempty"`
}

// StatsResponse agrega os contadores em tempo real mantidos no Redis.
type StatsResponse struct {
	JogosLiquidados   int64  `json:"jogos_liquidados"`
	RaspadinhasTotal  int64  `json:"raspadinhas_total"`
	ApostadoTotal     string `json:"apostado_total"`
	PremiadoTotal     string `json:"premiado_total"`
	SaquesSolicitados int64  `json:"saques_solicitados"`
	SaquesPendentes   int64  `json:"saques_pendentes"`
	SaquesConcluidos  int64  `json:"saques_concluidos"`
	SaquesCancelados  int64  `json:"saques_cancelados"`
}
