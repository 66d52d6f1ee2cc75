package engine

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Leituras e operações administrativas sem invariante financeira
// (listagens paginadas, cupons, configurações).

func (p *Postgres) GetUserByID(ctx context.Context, userID string) (*User, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

// GamesByUser retorna o histórico de jogos do usuário, com as raspadinhas
// de cada jogo, do mais recente para o mais antigo.
func (p *Postgres) GamesByUser(ctx context.Context, userID string) ([]Game, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, play_count, stake_total, prize_total,
		       funded_by_balance, used_bonus_play, created_at
		FROM games WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games, err := scanGames(rows)
	if err != nil {
		return nil, err
	}
	return p.attachPlays(ctx, games)
}

func scanGames(rows *sql.Rows) ([]Game, error) {
	var games []Game
	for rows.Next() {
		var g Game
		if err := rows.Scan(&g.ID, &g.UserID, &g.PlayCount, &g.StakeTotal,
			&g.PrizeTotal, &g.FundedByBalance, &g.UsedBonusPlay, &g.CreatedAt); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

func (p *Postgres) attachPlays(ctx context.Context, games []Game) ([]Game, error) {
	if len(games) == 0 {
		return games, nil
	}

	ids := make([]string, len(games))
	index := make(map[string]int, len(games))
	for i, g := range games {
		ids[i] = g.ID
		index[g.ID] = i
	}

	rows, err := p.db.QueryContext(ctx, `
		SELECT id, game_id, prize, is_bonus FROM plays
		WHERE game_id = ANY($1) ORDER BY game_id, position`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var play Play
		if err := rows.Scan(&play.ID, &play.GameID, &play.Prize, &play.IsBonus); err != nil {
			return nil, err
		}
		i := index[play.GameID]
		games[i].Plays = append(games[i].Plays, play)
	}
	return games, rows.Err()
}

func scanWithdrawals(rows *sql.Rows) ([]Withdrawal, error) {
	var ws []Withdrawal
	for rows.Next() {
		var w Withdrawal
		var processedAt sql.NullTime
		if err := rows.Scan(&w.ID, &w.UserID, &w.Amount, &w.PixKey, &w.Status,
			&w.RequestedAt, &processedAt); err != nil {
			return nil, err
		}
		if processedAt.Valid {
			w.ProcessedAt = &processedAt.Time
		}
		ws = append(ws, w)
	}
	return ws, rows.Err()
}

// WithdrawalsByUser retorna os saques do usuário, mais recentes primeiro.
func (p *Postgres) WithdrawalsByUser(ctx context.Context, userID string) ([]Withdrawal, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, amount, pix_key, status, requested_at, processed_at
		FROM withdrawals WHERE user_id = $1 ORDER BY requested_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWithdrawals(rows)
}

// Page delimita uma página de listagem administrativa.
type Page struct {
	Number  int
	PerPage int
}

// Normalize aplica os defaults de paginação: página 1, 20 por página,
// teto de 100. A camada HTTP ecoa os valores normalizados na resposta.
func (pg Page) Normalize() Page {
	if pg.PerPage <= 0 || pg.PerPage > 100 {
		pg.PerPage = 20
	}
	if pg.Number <= 0 {
		pg.Number = 1
	}
	return pg
}

func (pg Page) limitOffset() (int, int) {
	pg = pg.Normalize()
	return pg.PerPage, (pg.Number - 1) * pg.PerPage
}

// ListUsers lista usuários por data de cadastro, paginado.
func (p *Postgres) ListUsers(ctx context.Context, pg Page) ([]User, int, error) {
	var total int
	if err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := pg.limitOffset()
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

// ListGames lista jogos paginados, opcionalmente filtrados por usuário.
func (p *Postgres) ListGames(ctx context.Context, userID string, pg Page) ([]Game, int, error) {
	filter := ``
	args := []any{}
	if userID != "" {
		filter = ` WHERE user_id = $1`
		args = append(args, userID)
	}

	var total int
	if err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`+filter, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := pg.limitOffset()
	args = append(args, limit, offset)
	n := len(args)
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, play_count, stake_total, prize_total,
		       funded_by_balance, used_bonus_play, created_at
		FROM games`+filter+` ORDER BY created_at DESC LIMIT $`+strconv.Itoa(n-1)+` OFFSET $`+strconv.Itoa(n), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	games, err := scanGames(rows)
	if err != nil {
		return nil, 0, err
	}
	games, err = p.attachPlays(ctx, games)
	return games, total, err
}

// ListWithdrawals lista saques paginados, opcionalmente filtrados por status.
func (p *Postgres) ListWithdrawals(ctx context.Context, status string, pg Page) ([]Withdrawal, int, error) {
	filter := ``
	args := []any{}
	if status != "" {
		if !ValidStatus(status) {
			return nil, 0, ErrInvalidStatus
		}
		filter = ` WHERE status = $1`
		args = append(args, status)
	}

	var total int
	if err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM withdrawals`+filter, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := pg.limitOffset()
	args = append(args, limit, offset)
	n := len(args)
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, amount, pix_key, status, requested_at, processed_at
		FROM withdrawals`+filter+` ORDER BY requested_at DESC LIMIT $`+strconv.Itoa(n-1)+` OFFSET $`+strconv.Itoa(n), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	ws, err := scanWithdrawals(rows)
	return ws, total, err
}

// CreateCoupon cadastra um cupom de parceiro. Colisão de código → ErrDuplicateCode.
func (p *Postgres) CreateCoupon(ctx context.Context, code, partnerName, description string) (*PartnerCoupon, error) {
	c := &PartnerCoupon{
		ID:          uuid.NewString(),
		Code:        code,
		PartnerName: partnerName,
		Description: description,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO partner_coupons (id, code, partner_name, description, is_active, usage_count, created_at)
		VALUES ($1,$2,$3,$4,$5,0,$6)`,
		c.ID, c.Code, c.PartnerName, c.Description, c.IsActive, c.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateCode
		}
		return nil, err
	}
	return c, nil
}

// ListCoupons retorna todos os cupons, mais recentes primeiro.
func (p *Postgres) ListCoupons(ctx context.Context) ([]PartnerCoupon, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, code, partner_name, COALESCE(description, ''), is_active, usage_count, created_at
		FROM partner_coupons ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []PartnerCoupon
	for rows.Next() {
		var c PartnerCoupon
		if err := rows.Scan(&c.ID, &c.Code, &c.PartnerName, &c.Description,
			&c.IsActive, &c.UsageCount, &c.CreatedAt); err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

// ToggleCoupon inverte a flag de ativação do cupom.
func (p *Postgres) ToggleCoupon(ctx context.Context, couponID string) (*PartnerCoupon, error) {
	var c PartnerCoupon
	err := p.db.QueryRowContext(ctx, `
		UPDATE partner_coupons SET is_active = NOT is_active WHERE id = $1
		RETURNING id, code, partner_name, COALESCE(description, ''), is_active, usage_count, created_at`,
		couponID).
		Scan(&c.ID, &c.Code, &c.PartnerName, &c.Description, &c.IsActive, &c.UsageCount, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteCoupon remove um cupom. Cupons referenciados por usuários não podem
// ser removidos (ErrCouponInUse): desative em vez de excluir.
func (p *Postgres) DeleteCoupon(ctx context.Context, couponID string) error {
	res, err := p.db.ExecContext(ctx,
		`DELETE FROM partner_coupons WHERE id = $1`, couponID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			return ErrCouponInUse
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertSetting cria ou atualiza uma configuração chave/valor.
func (p *Postgres) UpsertSetting(ctx context.Context, s Setting) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO settings (chave, valor, descricao) VALUES ($1,$2,$3)
		ON CONFLICT (chave) DO UPDATE
		SET valor = EXCLUDED.valor,
		    descricao = COALESCE(NULLIF(EXCLUDED.descricao, ''), settings.descricao)`,
		s.Chave, s.Valor, s.Descricao)
	return err
}

// ListSettings retorna todas as configurações da plataforma.
func (p *Postgres) ListSettings(ctx context.Context) ([]Setting, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT chave, valor, COALESCE(descricao, '') FROM settings ORDER BY chave`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Chave, &s.Valor, &s.Descricao); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}
