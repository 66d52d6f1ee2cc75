package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/raspadinha-premiada/platform/internal/api/auth"
	"github.com/raspadinha-premiada/platform/internal/api/dto"
	"github.com/raspadinha-premiada/platform/internal/engine"
	"github.com/raspadinha-premiada/platform/internal/stats"
	"github.com/raspadinha-premiada/platform/pkg/contracts/events"
)

// Publisher abstrai a publicação dos eventos da plataforma no Kafka.
type Publisher interface {
	PublishJogoLiquidado(context.Context, events.JogoLiquidado) error
	PublishSaqueSolicitado(context.Context, events.SaqueSolicitado) error
	PublishSaqueStatus(context.Context, events.SaqueStatus) error
}

type Server struct {
	log   *zap.Logger
	repo  *engine.Postgres
	auth  *auth.Manager
	publ  Publisher
	stats *stats.Counters
}

func NewServer(log *zap.Logger, r *engine.Postgres, a *auth.Manager, p Publisher, s *stats.Counters) *Server {
	return &Server{log: log, repo: r, auth: a, publ: p, stats: s}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/auth/register", s.register) // POST
	mux.HandleFunc("/api/auth/login", s.login)       // POST

	mux.Handle("/api/auth/profile", s.auth.Middleware(http.HandlerFunc(s.profile)))                      // GET | PUT
	mux.Handle("/api/auth/profile/referral-info", s.auth.Middleware(http.HandlerFunc(s.referralInfo)))   // GET
	mux.Handle("/api/jogos/novo", s.auth.Middleware(http.HandlerFunc(s.newGame)))                        // POST
	mux.Handle("/api/jogos/historico", s.auth.Middleware(http.HandlerFunc(s.gameHistory)))               // GET
	mux.Handle("/api/jogos/solicitar-saque", s.auth.Middleware(http.HandlerFunc(s.requestWithdrawal)))   // POST
	mux.Handle("/api/jogos/saques", s.auth.Middleware(http.HandlerFunc(s.withdrawalHistory)))            // GET

	s.mountAdmin(mux)
	return mux
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONStatus(w, http.StatusBadRequest, dto.ErrorResponse{Erro: "json inválido"})
		return
	}
	if req.Nome == "" || req.Email == "" || req.Senha == "" {
		writeJSONStatus(w, http.StatusBadRequest, dto.ErrorResponse{Erro: "nome, email e senha são obrigatórios"})
		return
	}

	hash, err := auth.HashPassword(req.Senha)
	if err != nil {
		s.writeError(w, err)
		return
	}

	u, err := s.repo.Register(r.Context(), engine.RegisterParams{
		Nome:              req.Nome,
		Email:             req.Email,
		Telefone:          req.Telefone,
		PasswordHash:      hash,
		ReferralCodeInput: req.CodigoConvite,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	token, err := s.auth.IssueToken(u.ID, u.Email)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSONStatus(w, http.StatusCreated, dto.TokenResponse{
		Token: token,
		User:  dto.NewUserResponse(u, s.auth.IsAdmin(u.Email)),
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONStatus(w, http.StatusBadRequest, dto.ErrorResponse{Erro: "json inválido"})
		return
	}

	u, err := s.repo.GetUserByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, engine.ErrNotFound) {
		s.writeError(w, err)
		return
	}
	if err != nil || !auth.CheckPassword(u.PasswordHash, req.Senha) {
		writeJSONStatus(w, http.StatusUnauthorized, dto.ErrorResponse{Erro: "email ou senha incorretos"})
		return
	}

	if err := s.repo.TouchLastLogin(r.Context(), u.ID); err != nil {
		s.log.Warn("touch last_login", zap.Error(err))
	}

	token, err := s.auth.IssueToken(u.ID, u.Email)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, dto.TokenResponse{
		Token: token,
		User:  dto.NewUserResponse(u, s.auth.IsAdmin(u.Email)),
	})
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.FromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		u, err := s.repo.GetUserByID(r.Context(), claims.UserID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, dto.NewUserResponse(u, claims.IsAdmin))

	case http.MethodPut:
		var req dto.UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONStatus(w, http.StatusBadRequest, dto.ErrorResponse{Erro: "json inválido"})
			return
		}
		var passwordHash *string
		if req.Senha != nil {
			h, err := auth.HashPassword(*req.Senha)
			if err != nil {
				s.writeError(w, err)
				return
			}
			passwordHash = &h
		}
		u, err := s.repo.UpdateProfile(r.Context(), claims.UserID, req.Nome, req.Telefone, passwordHash)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, dto.NewUserResponse(u, claims.IsAdmin))

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) referralInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	claims, _ := auth.FromContext(r.Context())

	u, err := s.repo.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	next := 3 - u.ReferralCount%3
	writeJSON(w, dto.ReferralInfoResponse{
		ReferralCode:        u.ReferralCode,
		ReferralCount:       u.ReferralCount,
		BonusAwarded:        u.ReferralBonusAwardedCount,
		NextBonusIn:         next,
		BonusPlaysAvailable: u.BonusPlaysAvailable,
	})
}

func (s *Server) newGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	claims, _ := auth.FromContext(r.Context())

	var req dto.NewGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONStatus(w, http.StatusBadRequest, dto.ErrorResponse{Erro: "json inválido"})
		return
	}

	plays := make([]engine.PlayOutcome, 0, len(req.Raspadinhas))
	for _, p := range req.Raspadinhas {
		plays = append(plays, engine.PlayOutcome{Prize: p.Premio, IsBonus: p.IsBonus})
	}

	g, err := s.repo.SettleGame(r.Context(), claims.UserID, engine.SettlementRequest{
		PlayCount:       req.QuantidadeRaspadinhas,
		StakeTotal:      req.ValorTotal,
		PrizeTotal:      req.PremioTotal,
		FundedByBalance: req.OrigemSaldo,
		UseBonusPlay:    req.UsouBonus,
		Plays:           plays,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	u, err := s.repo.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.publ.PublishJogoLiquidado(r.Context(), events.JogoLiquidado{
		JogoID:          g.ID,
		UserID:          g.UserID,
		PlayCount:       g.PlayCount,
		StakeTotal:      g.StakeTotal.StringFixed(2),
		PrizeTotal:      g.PrizeTotal.StringFixed(2),
		FundedByBalance: g.FundedByBalance,
		UsedBonusPlay:   g.UsedBonusPlay,
	}); err != nil {
		// liquidação já está no banco; evento perdido só atrasa o painel
		s.log.Warn("publish jogo_liquidado", zap.String("jogoId", g.ID), zap.Error(err))
	}

	writeJSONStatus(w, http.StatusCreated, dto.NewGameResult{
		Jogo:      dto.NewGameResponse(g),
		NovoSaldo: u.Saldo,
	})
}

func (s *Server) gameHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	claims, _ := auth.FromContext(r.Context())

	games, err := s.repo.GamesByUser(r.Context(), claims.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]dto.GameResponse, 0, len(games))
	for i := range games {
		out = append(out, dto.NewGameResponse(&games[i]))
	}
	writeJSON(w, out)
}

func (s *Server) requestWithdrawal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	claims, _ := auth.FromContext(r.Context())

	var req dto.WithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONStatus(w, http.StatusBadRequest, dto.ErrorResponse{Erro: "json inválido"})
		return
	}
	if req.ChavePix == "" {
		writeJSONStatus(w, http.StatusBadRequest, dto.ErrorResponse{Erro: "chave_pix é obrigatória"})
		return
	}

	wd, err := s.repo.RequestWithdrawal(r.Context(), claims.UserID, req.Valor, req.ChavePix)
	if err != nil {
		s.writeError(w, err)
		return
	}

	u, err := s.repo.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.publ.PublishSaqueSolicitado(r.Context(), events.SaqueSolicitado{
		SaqueID: wd.ID,
		UserID:  wd.UserID,
		Valor:   wd.Amount.StringFixed(2),
	}); err != nil {
		s.log.Warn("publish saque_solicitado", zap.String("saqueId", wd.ID), zap.Error(err))
	}

	writeJSONStatus(w, http.StatusCreated, dto.WithdrawalResult{
		Saque:     dto.NewWithdrawalResponse(wd),
		NovoSaldo: u.Saldo,
	})
}

func (s *Server) withdrawalHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	claims, _ := auth.FromContext(r.Context())

	withdrawals, err := s.repo.WithdrawalsByUser(r.Context(), claims.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]dto.WithdrawalResponse, 0, len(withdrawals))
	for i := range withdrawals {
		out = append(out, dto.NewWithdrawalResponse(&withdrawals[i]))
	}
	writeJSON(w, out)
}

// writeError traduz os erros de negócio do engine para status HTTP.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrNotFound):
		writeJSONStatus(w, http.StatusNotFound, dto.ErrorResponse{Erro: err.Error()})
	case errors.Is(err, engine.ErrEmailTaken),
		errors.Is(err, engine.ErrDuplicateCode),
		errors.Is(err, engine.ErrCouponInUse):
		writeJSONStatus(w, http.StatusConflict, dto.ErrorResponse{Erro: err.Error()})
	case errors.Is(err, engine.ErrInsufficientFunds),
		errors.Is(err, engine.ErrNoBonusPlayAvailable),
		errors.Is(err, engine.ErrPrizeMismatch),
		errors.Is(err, engine.ErrPlayCountMismatch),
		errors.Is(err, engine.ErrInvalidStatus),
		errors.Is(err, engine.ErrInvalidAmount):
		writeJSONStatus(w, http.StatusBadRequest, dto.ErrorResponse{Erro: err.Error()})
	default:
		s.log.Error("internal error", zap.Error(err))
		writeJSONStatus(w, http.StatusInternalServerError, dto.ErrorResponse{Erro: "erro interno"})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
