package engine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Postgres implementa as operações do engine sobre Postgres. Cada operação
// é uma transação única: lê o estado com FOR UPDATE, valida, aplica as
// mutações puras das entidades e persiste, tudo ou nada.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

const uniqueViolation = "23505"
const foreignKeyViolation = "23503"

const userColumns = `id, nome, email, telefone, password_hash, saldo, referral_code,
	referred_by_user_id, partner_coupon_id, referral_count,
	referral_bonus_awarded_count, bonus_plays_available, created_at, last_login_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	var referredBy, couponID sql.NullString
	var lastLogin sql.NullTime
	err := row.Scan(
		&u.ID, &u.Nome, &u.Email, &u.Telefone, &u.PasswordHash, &u.Saldo,
		&u.ReferralCode, &referredBy, &couponID, &u.ReferralCount,
		&u.ReferralBonusAwardedCount, &u.BonusPlaysAvailable,
		&u.CreatedAt, &lastLogin,
	)
	if err != nil {
		return nil, err
	}
	if referredBy.Valid {
		u.ReferredByUserID = &referredBy.String
	}
	if couponID.Valid {
		u.PartnerCouponID = &couponID.String
	}
	if lastLogin.Valid {
		u.LastLoginAt = &lastLogin.Time
	}
	return &u, nil
}

// lockUser carrega o usuário com lock de linha, serializando mutações
// concorrentes de saldo sobre o mesmo usuário.
func lockUser(ctx context.Context, tx *sql.Tx, userID string) (*User, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, userID)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

// saveLedgerFields persiste os campos mutáveis da parte financeira do
// usuário (saldo e contadores), já validados pelas mutações puras.
func saveLedgerFields(ctx context.Context, tx *sql.Tx, u *User) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE users
		SET saldo = $1, referral_count = $2, referral_bonus_awarded_count = $3,
		    bonus_plays_available = $4
		WHERE id = $5`,
		u.Saldo, u.ReferralCount, u.ReferralBonusAwardedCount,
		u.BonusPlaysAvailable, u.ID)
	return err
}

// RegisterParams agrupa os dados de cadastro. ReferralCodeInput é o código
// livre digitado pelo usuário: cupom de parceiro, código pessoal de
// indicação, ou lixo (ignorado em silêncio).
type RegisterParams struct {
	Nome              string
	Email             string
	Telefone          string
	PasswordHash      string
	ReferralCodeInput string
}

// Register cria o usuário e, na mesma transação, resolve o código de
// indicação e premia o indicador. Precedência: cupom de parceiro ativo
// ganha do código pessoal; nunca os dois.
func (p *Postgres) Register(ctx context.Context, params RegisterParams) (*User, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists bool
	if err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, params.Email).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	// Resolução do código: primeiro cupom ativo, depois código pessoal.
	// O FOR UPDATE nas linhas tocadas serializa cadastros concorrentes
	// com o mesmo código.
	var couponID *string
	var referrer *User
	if params.ReferralCodeInput != "" {
		var cid string
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM partner_coupons WHERE code = $1 AND is_active FOR UPDATE`,
			params.ReferralCodeInput).Scan(&cid)
		switch {
		case err == nil:
			couponID = &cid
		case errors.Is(err, sql.ErrNoRows):
			row := tx.QueryRowContext(ctx,
				`SELECT `+userColumns+` FROM users WHERE referral_code = $1 FOR UPDATE`,
				params.ReferralCodeInput)
			referrer, err = scanUser(row)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return nil, err
			}
			// código desconhecido: segue sem vínculo algum
		default:
			return nil, err
		}
	}

	u := &User{
		ID:           uuid.NewString(),
		Nome:         params.Nome,
		Email:        params.Email,
		Telefone:     params.Telefone,
		PasswordHash: params.PasswordHash,
		Saldo:        decimal.Zero,
		ReferralCode: uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
	}
	if couponID != nil {
		u.PartnerCouponID = couponID
	} else if referrer != nil {
		u.ReferredByUserID = &referrer.ID
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, nome, email, telefone, password_hash, saldo,
			referral_code, referred_by_user_id, partner_coupon_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		u.ID, u.Nome, u.Email, u.Telefone, u.PasswordHash, u.Saldo,
		u.ReferralCode, u.ReferredByUserID, u.PartnerCouponID, u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if couponID != nil {
		if _, err = tx.ExecContext(ctx,
			`UPDATE partner_coupons SET usage_count = usage_count + 1 WHERE id = $1`,
			*couponID); err != nil {
			return nil, err
		}
	} else if referrer != nil {
		referrer.ApplyReferral()
		if err = saveLedgerFields(ctx, tx, referrer); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return u, nil
}

// SettleGame valida e liquida uma compra de raspadinhas: consome a
// raspadinha bônus (se usada), debita a aposta (se paga com saldo), grava
// jogo e raspadinhas e credita o prêmio, tudo na mesma transação.
func (p *Postgres) SettleGame(ctx context.Context, userID string, req SettlementRequest) (*Game, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	u, err := lockUser(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if req.UseBonusPlay {
		if err = u.ConsumeBonusPlay(); err != nil {
			return nil, err
		}
	}
	if req.FundedByBalance {
		if err = u.Debit(req.StakeTotal); err != nil {
			return nil, err
		}
	}
	if req.PrizeTotal.IsPositive() {
		if err = u.Credit(req.PrizeTotal); err != nil {
			return nil, err
		}
	}

	g := &Game{
		ID:              uuid.NewString(),
		UserID:          u.ID,
		PlayCount:       req.PlayCount,
		StakeTotal:      req.StakeTotal,
		PrizeTotal:      req.PrizeTotal,
		FundedByBalance: req.FundedByBalance,
		UsedBonusPlay:   req.UseBonusPlay,
		CreatedAt:       time.Now().UTC(),
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO games (id, user_id, play_count, stake_total, prize_total,
			funded_by_balance, used_bonus_play, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		g.ID, g.UserID, g.PlayCount, g.StakeTotal, g.PrizeTotal,
		g.FundedByBalance, g.UsedBonusPlay, g.CreatedAt)
	if err != nil {
		return nil, err
	}

	// position preserva a ordem em que as raspadinhas foram enviadas
	for i, outcome := range req.Plays {
		play := Play{
			ID:      uuid.NewString(),
			GameID:  g.ID,
			Prize:   outcome.Prize,
			IsBonus: outcome.IsBonus,
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO plays (id, game_id, position, prize, is_bonus) VALUES ($1,$2,$3,$4,$5)`,
			play.ID, play.GameID, i, play.Prize, play.IsBonus); err != nil {
			return nil, err
		}
		g.Plays = append(g.Plays, play)
	}

	if err = saveLedgerFields(ctx, tx, u); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return g, nil
}

// RequestWithdrawal debita o saldo imediatamente e cria o saque pendente.
func (p *Postgres) RequestWithdrawal(ctx context.Context, userID string, amount decimal.Decimal, pixKey string) (*Withdrawal, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	u, err := lockUser(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if err = u.Debit(amount); err != nil {
		return nil, err
	}

	w := &Withdrawal{
		ID:          uuid.NewString(),
		UserID:      u.ID,
		Amount:      amount,
		PixKey:      pixKey,
		Status:      StatusPendente,
		RequestedAt: time.Now().UTC(),
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO withdrawals (id, user_id, amount, pix_key, status, requested_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		w.ID, w.UserID, w.Amount, w.PixKey, w.Status, w.RequestedAt)
	if err != nil {
		return nil, err
	}

	if err = saveLedgerFields(ctx, tx, u); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return w, nil
}

// SetWithdrawalStatus aplica uma transição de status do backoffice e
// devolve também o status anterior, que vai no evento saque_status.
// Entrada em cancelado restaura o saldo do dono na mesma transação;
// repetir o cancelamento é no-op e nunca credita duas vezes.
func (p *Postgres) SetWithdrawalStatus(ctx context.Context, withdrawalID, newStatus string) (*Withdrawal, string, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", err
	}
	defer tx.Rollback()

	w := &Withdrawal{ID: withdrawalID}
	var processedAt sql.NullTime
	err = tx.QueryRowContext(ctx, `
		SELECT user_id, amount, pix_key, status, requested_at, processed_at
		FROM withdrawals WHERE id = $1 FOR UPDATE`, withdrawalID).
		Scan(&w.UserID, &w.Amount, &w.PixKey, &w.Status, &w.RequestedAt, &processedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	if processedAt.Valid {
		w.ProcessedAt = &processedAt.Time
	}
	oldStatus := w.Status

	refund, err := w.Transition(newStatus, time.Now().UTC())
	if err != nil {
		return nil, "", err
	}

	if refund {
		u, err := lockUser(ctx, tx, w.UserID)
		if err != nil {
			return nil, "", err
		}
		if err = u.Credit(w.Amount); err != nil {
			return nil, "", err
		}
		if err = saveLedgerFields(ctx, tx, u); err != nil {
			return nil, "", err
		}
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE withdrawals SET status = $1, processed_at = $2 WHERE id = $3`,
		w.Status, w.ProcessedAt, w.ID); err != nil {
		return nil, "", err
	}

	if err = tx.Commit(); err != nil {
		return nil, "", err
	}
	return w, oldStatus, nil
}

// TouchLastLogin carimba o último login do usuário.
func (p *Postgres) TouchLastLogin(ctx context.Context, userID string) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = NOW() WHERE id = $1`, userID)
	return err
}

// UpdateProfile altera nome, telefone e/ou senha. Campos nil ficam como estão.
func (p *Postgres) UpdateProfile(ctx context.Context, userID string, nome, telefone, passwordHash *string) (*User, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	u, err := lockUser(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if nome != nil {
		u.Nome = *nome
	}
	if telefone != nil {
		u.Telefone = *telefone
	}
	if passwordHash != nil {
		u.PasswordHash = *passwordHash
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE users SET nome = $1, telefone = $2, password_hash = $3 WHERE id = $4`,
		u.Nome, u.Telefone, u.PasswordHash, u.ID); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return u, nil
}
