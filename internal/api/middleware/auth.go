package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/peasy-money/peasy-money-backend/internal/api/response"
	"github.com/peasy-money/peasy-money-backend/internal/model"
)

type contextKey string

const userContextKey contextKey = "user"

// UserResolver loads the user named by a token subject.
type UserResolver interface {
	UserFromSubject(ctx context.Context, subject string) (model.User, error)
}

// WithUser returns a context carrying user.
func WithUser(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(userContextKey).(model.User)
	return user, ok
}

// Authenticator rejects requests without a valid bearer token and stores the token's
// user in the request context. It must run after jwtauth.Verifier.
func Authenticator(users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				unauthorized(w)
				return
			}

			subject, ok := claims["sub"].(string)
			if !ok || subject == "" {
				unauthorized(w)
				return
			}

			user, err := users.UserFromSubject(r.Context(), subject)
			if err != nil {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Could not validate credentials")
}
