// Package middleware provides HTTP middleware for the API server.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mazraati/assistant-platform/internal/model"
)

// ContextKey is a type for context keys.
type ContextKey string

const (
	// UserIDKey is the context key for the authenticated user ID.
	UserIDKey ContextKey = "user_id"
	// AudienceKey is the context key for the caller's audience classification.
	AudienceKey ContextKey = "audience"
)

// Claims represents JWT claims. Role maps to the audience classification.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// OptionalAuth classifies the caller without requiring a token: a missing or
// invalid Authorization header yields the visitor audience rather than a 401.
// The assistant must answer anonymous callers.
func OptionalAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID, audience := classify(r.Header.Get("Authorization"), jwtSecret)

			ctx = context.WithValue(ctx, UserIDKey, userID)
			ctx = context.WithValue(ctx, AudienceKey, audience)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func classify(authHeader, jwtSecret string) (string, model.Audience) {
	if authHeader == "" {
		return "", model.AudienceVisitor
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", model.AudienceVisitor
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", model.AudienceVisitor
	}

	if claims.Role == "" {
		return claims.Subject, model.AudienceAuthenticated
	}
	return claims.Subject, model.ParseAudience(claims.Role)
}

// GetUserID gets the authenticated user ID from context, if any.
func GetUserID(ctx context.Context) string {
	if v := ctx.Value(UserIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetAudience gets the caller's audience from context, defaulting to visitor.
func GetAudience(ctx context.Context) model.Audience {
	if v := ctx.Value(AudienceKey); v != nil {
		return v.(model.Audience)
	}
	return model.AudienceVisitor
}
