package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

func ConnectPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// Migrate cria o schema da plataforma de forma idempotente. Os CHECKs de
// saldo e bônus são a última linha de defesa; a validação de negócio
// acontece antes, no engine.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS partner_coupons (
			id UUID PRIMARY KEY,
			code VARCHAR(50) UNIQUE NOT NULL,
			partner_name VARCHAR(100) NOT NULL,
			description TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			usage_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			nome VARCHAR(100) NOT NULL,
			email VARCHAR(100) UNIQUE NOT NULL,
			telefone VARCHAR(20) NOT NULL,
			password_hash VARCHAR(200) NOT NULL,
			saldo NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (saldo >= 0),
			referral_code VARCHAR(36) UNIQUE NOT NULL,
			referred_by_user_id UUID REFERENCES users(id),
			partner_coupon_id UUID REFERENCES partner_coupons(id),
			referral_count INTEGER NOT NULL DEFAULT 0,
			referral_bonus_awarded_count INTEGER NOT NULL DEFAULT 0,
			bonus_plays_available INTEGER NOT NULL DEFAULT 0 CHECK (bonus_plays_available >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_login_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS games (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			play_count INTEGER NOT NULL,
			stake_total NUMERIC(12,2) NOT NULL,
			prize_total NUMERIC(12,2) NOT NULL,
			funded_by_balance BOOLEAN NOT NULL DEFAULT FALSE,
			used_bonus_play BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS plays (
			id UUID PRIMARY KEY,
			game_id UUID NOT NULL REFERENCES games(id),
			position INTEGER NOT NULL,
			prize NUMERIC(12,2) NOT NULL,
			is_bonus BOOLEAN NOT NULL DEFAULT FALSE,
			UNIQUE (game_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS withdrawals (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
			pix_key VARCHAR(100) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pendente',
			requested_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			processed_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			chave VARCHAR(50) PRIMARY KEY,
			valor VARCHAR(255) NOT NULL,
			descricao VARCHAR(255)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_games_user_id ON games (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_plays_game_id ON plays (game_id)`,
		`CREATE INDEX IF NOT EXISTS idx_withdrawals_user_id ON withdrawals (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_withdrawals_status ON withdrawals (status)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
