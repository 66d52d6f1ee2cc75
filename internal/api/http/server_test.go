package http

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/raspadinha-premiada/platform/internal/api/auth"
	"github.com/raspadinha-premiada/platform/internal/engine"
)

// newTestServer monta o roteador sem banco: só os caminhos que falham
// antes de tocar o repositório são exercitados aqui. O fluxo completo
// roda na suíte de integração do engine.
func newTestServer(t *testing.T) (*Server, *auth.Manager) {
	t.Helper()
	mgr := auth.NewManager("segredo-de-teste", "admin@raspadinha.com", time.Hour)
	return NewServer(zap.NewNop(), nil, mgr, nil, nil), mgr
}

func bearerFor(t *testing.T, mgr *auth.Manager, email string) string {
	t.Helper()
	token, err := mgr.IssueToken("user-1", email)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRouterMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	for _, path := range []string{"/api/auth/register", "/api/auth/login"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, path)
	}
}

func TestRegisterRejectsBadPayload(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	t.Run("json inválido", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("campos obrigatórios", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
			strings.NewReader(`{"email":"a@b.com"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoginStorageFailureIsNotUnauthorized(t *testing.T) {
	// pool fechado: qualquer consulta falha com erro de infraestrutura,
	// que não pode ser confundido com credencial errada
	db, err := sql.Open("postgres", "postgres://127.0.0.1:1/raspadinha?sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	mgr := auth.NewManager("segredo-de-teste", "admin@raspadinha.com", time.Hour)
	srv := NewServer(zap.NewNop(), engine.NewPostgres(db), mgr, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"fulano@example.com","senha":"senha123"}`))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	paths := []string{
		"/api/auth/profile",
		"/api/auth/profile/referral-info",
		"/api/jogos/historico",
		"/api/jogos/saques",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestAdminRoutesRejectRegularUser(t *testing.T) {
	srv, mgr := newTestServer(t)
	router := srv.Router()

	paths := []string{
		"/api/admin/usuarios",
		"/api/admin/jogos",
		"/api/admin/saques",
		"/api/admin/partner-coupons",
		"/api/admin/configuracoes",
		"/api/admin/stats",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", bearerFor(t, mgr, "fulano@example.com"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}
}

func TestWithdrawalStatusPathParsing(t *testing.T) {
	srv, mgr := newTestServer(t)
	router := srv.Router()
	adminToken := bearerFor(t, mgr, "admin@raspadinha.com")

	t.Run("sem id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/admin/saques/status",
			strings.NewReader(`{"status":"concluido"}`))
		req.Header.Set("Authorization", adminToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("sem sufixo /status", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/admin/saques/abc123",
			strings.NewReader(`{"status":"concluido"}`))
		req.Header.Set("Authorization", adminToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("método errado", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/saques/abc123/status", nil)
		req.Header.Set("Authorization", adminToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestCouponPathParsing(t *testing.T) {
	srv, mgr := newTestServer(t)
	router := srv.Router()
	adminToken := bearerFor(t, mgr, "admin@raspadinha.com")

	t.Run("toggle sem id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/admin/partner-coupons/toggle", nil)
		req.Header.Set("Authorization", adminToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete com caminho extra", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/admin/partner-coupons/abc/extra", nil)
		req.Header.Set("Authorization", adminToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("cupom sem code", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/partner-coupons",
			strings.NewReader(`{"partner_name":"Parceiro"}`))
		req.Header.Set("Authorization", adminToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
