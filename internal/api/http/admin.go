package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/raspadinha-premiada/platform/internal/api/dto"
	"github.com/raspadinha-premiada/platform/internal/engine"
	"github.com/raspadinha-premiada/platform/pkg/contracts/events"
)

func (s *Server) mountAdmin(mux *http.ServeMux) {
	admin := func(h http.HandlerFunc) http.Handler {
		return s.auth.Middleware(s.auth.AdminOnly(h))
	}

	mux.Handle("/api/admin/usuarios", admin(s.adminUsers))              // GET
	mux.Handle("/api/admin/jogos", admin(s.adminGames))                 // GET
	mux.Handle("/api/admin/saques", admin(s.adminWithdrawals))          // GET
	mux.Handle("/api/admin/saques/", admin(s.adminWithdrawalStatus))    // PUT /api/admin/saques/{id}/status
	mux.Handle("/api/admin/partner-coupons", admin(s.adminCoupons))     // GET | POST
	mux.Handle("/api/admin/partner-coupons/", admin(s.adminCouponByID)) // PUT .../toggle | DELETE .../{id}
	mux.Handle("/api/admin/configuracoes", admin(s.adminSettings))      // GET | POST
	mux.Handle("/api/admin/stats", admin(s.adminStats))                 // GET
}

// pageFrom lê page/per_page da query string, já normalizados, para que a
// resposta ecoe os mesmos valores que o repositório usou.
func pageFrom(r *http.Request) engine.Page {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	return engine.Page{Number: page, PerPage: perPage}.Normalize()
}

func (s *Server) adminUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	pg := pageFrom(r)
	users, total, err := s.repo.ListUsers(r.Context(), pg)
	if err != nil {
		s.writeError(w, err)
		return
	}

	items := make([]dto.AdminUserResponse, 0, len(users))
	for i := range users {
		u := &users[i]
		items = append(items, dto.AdminUserResponse{
			UserResponse:              dto.NewUserResponse(u, s.auth.IsAdmin(u.Email)),
			ReferralCount:             u.ReferralCount,
			ReferralBonusAwardedCount: u.ReferralBonusAwardedCount,
			LastLoginAt:               u.LastLoginAt,
		})
	}
	writeJSON(w, dto.PagedResponse{Items: items, Total: total, Page: pg.Number, PerPage: pg.PerPage})
}

func (s *Server) adminGames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	pg := pageFrom(r)
	games, total, err := s.repo.ListGames(r.Context(), r.URL.Query().Get("user_id"), pg)
	if err != nil {
		s.writeError(w, err)
		return
	}

	items := make([]dto.GameResponse, 0, len(games))
	for i := range games {
		items = append(items, dto.NewGameResponse(&games[i]))
	}
	writeJSON(w, dto.PagedResponse{Items: items, Total: total, Page: pg.Number, PerPage: pg.PerPage})
}

func (s *Server) adminWithdrawals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	pg := pageFrom(r)
	withdrawals, total, err := s.repo.ListWithdrawals(r.Context(), r.URL.Query().Get("status"), pg)
	if err != nil {
		s.writeError(w, err)
		return
	}

	items := make([]dto.WithdrawalResponse, 0, len(withdrawals))
	for i := range withdrawals {
		items = append(items, dto.NewWithdrawalResponse(&withdrawals[i]))
	}
	writeJSON(w, dto.PagedResponse{Items: items, Total: total, Page: pg.Number, PerPage: pg.PerPage})
}

// adminWithdrawalStatus trata PUT /api/admin/saques/{id}/status.
func (s *Server) adminWithdrawalStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/admin/saques/")
	id, ok := strings.CutSuffix(rest, "/status")
	if !ok || id == "" {
		writeJSONStatus(w, http.StatusBadRequest, dto.ErrorResponse{Erro: "id do saque obrigatório"})
		return
	}

	var req dto.SetWithdrawalStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONStatus(w, http.StatusBadRequest, dto.ErrorResponse{Erro: "json inválido"})
		return
	}

	wd, oldStatus, err := s.repo.SetWithdrawalStatus(r.Context(), id, req.Status)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if oldStatus != wd.Status {
		if perr := s.publ.PublishSaqueStatus(r.Context(), events.SaqueStatus{
			SaqueID:   wd.ID,
			UserID:    wd.UserID,
			OldStatus: oldStatus,
			NewStatus: wd.Status,
			Valor:     wd.Amount.StringFixed(2),
		}); perr != nil {
			s.log.Warn("publish saque_status", zap.String("saqueId", wd.ID), zap.Error(perr))
		}
	}

	writeJSON(w, dto.NewWithdrawalResponse(wd))
}

func (s *Server) adminCoupons(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		coupons, err := s.repo.ListCoupons(r.Context())
		if err != nil {
			s.writeError(w, err)
			return
		}
		out := make([]dto.CouponResponse, 0, len(coupons))
		for i := range coupons {
			out = append(out, dto.NewCouponResponse(&coupons[i]))
		}
		writeJSON(w, out)

	case http.MethodPost:
		var req dto.CreateCouponRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONStatus(w, http.StatusBadRequest, dto.ErrorResponse{Erro: "json inválido"})
			return
		}
		if req.Code == "" || req.PartnerName == "" {
			writeJSONStatus(w, http.StatusBadRequest, dto.ErrorResponse{Erro: "code e partner_name são obrigatórios"})
			return
		}
		c, err := s.repo.CreateCoupon(r.Context(), req.Code, req.PartnerName, req.Description)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSONStatus(w, http.StatusCreated, dto.NewCouponResponse(c))

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// adminCouponByID trata PUT /api/admin/partner-coupons/{id}/toggle e
// DELETE /api/admin/partner-coupons/{id}.
func (s *Server) adminCouponByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/admin/partner-coupons/")

	switch r.Method {
	case http.MethodPut:
		id, ok := strings.CutSuffix(rest, "/toggle")
		if !ok || id == "" {
			writeJSONStatus(w, http.StatusBadRequest, dto.ErrorResponse{Erro: "id do cupom obrigatório"})
			return
		}
		c, err := s.repo.ToggleCoupon(r.Context(), id)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, dto.NewCouponResponse(c))

	case http.MethodDelete:
		if rest == "" || strings.Contains(rest, "/") {
			writeJSONStatus(w, http.StatusBadRequest, dto.ErrorResponse{Erro: "id do cupom obrigatório"})
			return
		}
		if err := s.repo.DeleteCoupon(r.Context(), rest); err != nil {
			s.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) adminSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		settings, err := s.repo.ListSettings(r.Context())
		if err != nil {
			s.writeError(w, err)
			return
		}
		out := make([]dto.SettingResponse, 0, len(settings))
		for _, st := range settings {
			out = append(out, dto.SettingResponse{Chave: st.Chave, Valor: st.Valor, Descricao: st.Descricao})
		}
		writeJSON(w, out)

	case http.MethodPost:
		var req dto.UpsertSettingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONStatus(w, http.StatusBadRequest, dto.ErrorResponse{Erro: "json inválido"})
			return
		}
		if req.Chave == "" {
			writeJSONStatus(w, http.StatusBadRequest, dto.ErrorResponse{Erro: "chave é obrigatória"})
			return
		}
		err := s.repo.UpsertSetting(r.Context(), engine.Setting{
			Chave: req.Chave, Valor: req.Valor, Descricao: req.Descricao,
		})
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, dto.SettingResponse{Chave: req.Chave, Valor: req.Valor, Descricao: req.Descricao})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// adminStats devolve os contadores em tempo real mantidos pelo
// stats-worker no Redis.
func (s *Server) adminStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snap, err := s.stats.Snapshot(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, dto.StatsResponse{
		JogosLiquidados:   snap.JogosLiquidados,
		RaspadinhasTotal:  snap.RaspadinhasTotal,
		ApostadoTotal:     snap.ApostadoTotal,
		PremiadoTotal:     snap.PremiadoTotal,
		SaquesSolicitados: snap.SaquesSolicitados,
		SaquesPendentes:   snap.SaquesPendentes,
		SaquesConcluidos:  snap.SaquesConcluidos,
		SaquesCancelados:  snap.SaquesCancelados,
	})
}
