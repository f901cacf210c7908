package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/saulo-duarte/quizforge-lambda/internal/apperr"
	"github.com/saulo-duarte/quizforge-lambda/internal/config"
)

type contextKey string

const claimsKey contextKey = "user_claims"

// Anonymous is the subject reported for callers without a valid token.
const Anonymous = "anonymous"

const cookieName = "jwt"

func WithClaims(ctx context.Context, claims *Claims) context.Context {
	ctx = context.WithValue(ctx, claimsKey, claims)
	return config.ContextWithSubject(ctx, claims.UserID)
}

func GetUserClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	if !ok || claims == nil {
		return nil, errors.New("no user claims in context")
	}
	return claims, nil
}

// Subject returns the stable id of the caller, or Anonymous.
func Subject(ctx context.Context) string {
	claims, err := GetUserClaimsFromContext(ctx)
	if err != nil {
		return Anonymous
	}
	return claims.UserID
}

// RequireSubject returns the caller id or ErrUnauthorized for anonymous callers.
func RequireSubject(ctx context.Context) (string, error) {
	subject := Subject(ctx)
	if subject == Anonymous {
		return "", apperr.ErrUnauthorized
	}
	return subject, nil
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := config.WithContext(r.Context())

		token := tokenFromRequest(r)
		if token == "" {
			config.Error(w, apperr.ErrUnauthorized)
			return
		}
		claims, err := ValidateJWT(token)
		if err != nil {
			log.WithError(err).Warn("Rejected invalid token")
			config.Error(w, apperr.ErrUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// OptionalAuth attaches claims when a valid token is present and lets anonymous callers through.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := tokenFromRequest(r); token != "" {
			if claims, err := ValidateJWT(token); err == nil {
				r = r.WithContext(WithClaims(r.Context(), claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}
