package middleware

import (
	"context"
	"net/http"
	"strings"

	"vendorhub/internal/config"

	"github.com/dgrijalva/jwt-go"
)

type contextKey string

const tokenKey contextKey = "bearer_token"

type Middleware struct {
	Config *config.Config
}

func NewMiddleware(cfg *config.Config) *Middleware {
	return &Middleware{Config: cfg}
}

// AuthMiddleware requires a bearer token and stores it in the request
// context for calls to the backend. The token is opaque unless a JWT key is
// configured, in which case its HS256 signature and expiry are checked.
func (m *Middleware) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		tokenStr := strings.TrimSpace(authHeader[len("Bearer "):])
		if tokenStr == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		if len(m.Config.JwtKey) > 0 {
			claims := &jwt.StandardClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return m.Config.JwtKey, nil
			})
			if err != nil || !token.Valid {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
		}

		ctx := context.WithValue(r.Context(), tokenKey, tokenStr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TokenFromContext returns the bearer token stored by AuthMiddleware.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
