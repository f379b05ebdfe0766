package api

import (
	"net/http"
	"strings"

	"modulith/pkg/auth"
	"modulith/pkg/controller"
	"modulith/pkg/serrors"
)

// WithBearerAuth returns a middleware that verifies the Authorization bearer
// token as an access token and puts the authenticated user ID on the request
// context. Requests without a valid access token are rejected with 401.
func WithBearerAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				controller.Error(ctx, w, serrors.With(serrors.ErrUnauthorized, "missing bearer token"))

				return
			}

			claims, err := tokens.Verify(token, auth.AccessToken)
			if err != nil {
				controller.Error(ctx, w, err)

				return
			}

			userID, err := claims.UserID()
			if err != nil {
				controller.Error(ctx, w, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid subject claim"))

				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUserID(ctx, userID)))
		})
	}
}
