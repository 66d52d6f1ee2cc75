package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// Claims viaja dentro do token JWT emitido no login.
type Claims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// Manager emite e valida tokens e concentra as regras de credencial.
type Manager struct {
	secret     []byte
	tokenTTL   time.Duration
	adminEmail string
}

func NewManager(secret, adminEmail string, tokenTTL time.Duration) *Manager {
	return &Manager{
		secret:     []byte(secret),
		tokenTTL:   tokenTTL,
		adminEmail: adminEmail,
	}
}

// HashPassword gera o hash bcrypt que vai pro banco.
func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword compara a senha informada com o hash armazenado.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// IsAdmin decide pelo e-mail configurado, sem papel no banco.
func (m *Manager) IsAdmin(email string) bool {
	return m.adminEmail != "" && strings.EqualFold(email, m.adminEmail)
}

// IssueToken assina um JWT HS256 com validade configurada.
func (m *Manager) IssueToken(userID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:  userID,
		Email:   email,
		IsAdmin: m.IsAdmin(email),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken valida assinatura e expiração e devolve as claims.
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenNotValidYet
	}
	return claims, nil
}

type ctxKey int

const claimsKey ctxKey = 0

// FromContext recupera as claims injetadas pelo middleware.
func FromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok
}

// Middleware exige o header Authorization: Bearer <token>.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, `{"erro":"token ausente"}`, http.StatusUnauthorized)
			return
		}
		claims, err := m.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			http.Error(w, `{"erro":"token inválido ou expirado"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

// AdminOnly roda depois do Middleware e barra quem não é o admin configurado.
func (m *Manager) AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := FromContext(r.Context())
		if !ok || !claims.IsAdmin {
			http.Error(w, `{"erro":"acesso restrito ao administrador"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
