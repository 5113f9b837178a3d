// This file, `middleware.go`, defines the HTTP middleware that gates protected routes:
// JWTMiddleware answers "who are you" and RequireSelf answers "may you touch this".
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/movievault-go/apperror"
	"github.com/user/movievault-go/logutil"
)

// JWTMiddleware verifies the bearer token on every request and stores the resolved
// principal in the request context. Any token problem is a 401; a store outage is a 500.
func JWTMiddleware(svc *AuthService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := svc.VerifyRequest(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				apperror.WriteRequestError(w, r, ToAppError(err))
				return
			}

			ctx := NewContextWithPrincipal(r.Context(), user)
			logger := logutil.GetOrDefault(ctx).With().Str("user_id", user.ID).Logger()
			ctx = logutil.WithLogger(ctx, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSelf rejects the request unless the principal's username equals the chi
// URL parameter named param. It must run after JWTMiddleware and before any handler
// that writes to the store.
func RequireSelf(svc *AuthService, param string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				apperror.WriteRequestError(w, r, ToAppError(ErrMissingToken))
				return
			}
			target := chi.URLParam(r, param)
			if !svc.AuthorizeSelf(principal, target) {
				apperror.WriteRequestError(w, r, ToAppError(ErrPermissionDenied))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
