// Package middleware holds the application's HTTP middleware.
package middleware

import (
	"context"
	"net/http"

	"github.com/armature-go/armature/app/models"
	"github.com/armature-go/armature/app/services"
	gohttp "github.com/armature-go/armature/framework/http"
)

type userContextKey struct{}

// AuthUser returns the authenticated user placed on the request context by
// Authenticate, or nil on unauthenticated requests.
func AuthUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userContextKey{}).(*models.User)
	return user
}

// Authenticate guards routes with bearer access tokens: the token must
// verify and its subject must be an existing user. Failures short-circuit
// with a 401 JSON response.
func Authenticate(tokens *services.TokenService, users *services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := gohttp.NewResponse(w)

			token := gohttp.NewRequest(r).BearerToken()
			if token == "" {
				res.Unauthorized()
				return
			}
			userID, err := tokens.DecodeAccessToken(token)
			if err != nil {
				res.Unauthorized()
				return
			}
			user, err := users.Get(userID)
			if err != nil {
				res.Unauthorized()
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
