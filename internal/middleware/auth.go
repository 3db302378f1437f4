package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/trander-25/pttkht-lapzone-backend-sub001/internal/entities"
	"github.com/trander-25/pttkht-lapzone-backend-sub001/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
)

type actorKey struct{}

// Claims carried by access tokens issued by the account service.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func WithActor(ctx context.Context, actor entities.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) (entities.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(entities.Actor)
	return actor, ok
}

// Auth authenticates HS256 bearer tokens and stores the caller as an actor.
func Auth(secret string) func(next http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				utils.WriteError(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			var claims Claims
			token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), &claims, func(t *jwt.Token) (any, error) {
				return key, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithLeeway(30*time.Second))
			if err != nil || !token.Valid || claims.Subject == "" {
				utils.WriteError(w, "invalid token", http.StatusUnauthorized)
				return
			}

			role := entities.Role(claims.Role)
			if role != entities.RoleAdmin {
				role = entities.RoleCustomer
			}

			ctx := WithActor(r.Context(), entities.Actor{ID: claims.Subject, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects callers whose role is not one of roles.
func RequireRole(roles ...entities.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			utils.WriteError(w, "forbidden", http.StatusForbidden)
		})
	}
}

// IssueToken signs an access token. Used by tooling and tests.
func IssueToken(secret, subject string, role entities.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
