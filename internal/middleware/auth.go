package middleware

import (
	"context"
	"net/http"

	"github.com/mkravtsov/checkout-service/pkg/utils"
)

// Token verification happens upstream (gateway), by the time a request
// reaches this service the principal is a pair of trusted headers.
const (
	userIDHeader = "X-User-Id"
	roleHeader   = "X-User-Role"

	RoleAdmin = "admin"
)

type Principal struct {
	UserID string
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type principalKey struct{}

// Auth rejects requests with no principal and stores the rest in the
// request context.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(userIDHeader)
		if userID == "" {
			utils.WriteError(w, "UNAUTHENTICATED", "authentication required", http.StatusUnauthorized)
			return
		}

		principal := Principal{
			UserID: userID,
			Role:   r.Header.Get(roleHeader),
		}

		ctx := context.WithValue(r.Context(), principalKey{}, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
