package middleware

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gibber-dev/gibber/internal/domain"
	jwt_internal "github.com/gibber-dev/gibber/internal/jwt"
	"github.com/gibber-dev/gibber/internal/utils"
)

// Key to store the caller identity in the request context
type key int

// CallerKey is exported so handler tests can seed an authenticated request.
const CallerKey key = 0

// NeedAuth verifies the access-token cookie and stores the caller's account
// identity in the request context.
func NeedAuth(jwtService jwt_internal.JwtService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accessCookie, err := r.Cookie("accessToken")
			if err == http.ErrNoCookie {
				http.Error(w, "Please sign-in", http.StatusUnauthorized)
				return
			} else if err != nil {
				http.Error(w, "Invalid cookie", http.StatusInternalServerError)
				return
			}

			token, err := jwtService.DecodeToken(accessCookie.Value)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				http.Error(w, "Invalid access token", http.StatusUnauthorized)
				return
			}
			aid, ok := claims["aid"].(float64)
			if !ok {
				http.Error(w, "Invalid access token", http.StatusUnauthorized)
				return
			}

			caller := domain.Caller{AccountId: int64(aid)}
			ctx := context.WithValue(r.Context(), CallerKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetCallerFromContext retrieves the caller stored by NeedAuth.
func GetCallerFromContext(r *http.Request) (domain.Caller, bool) {
	caller, ok := r.Context().Value(CallerKey).(domain.Caller)
	return caller, ok
}
