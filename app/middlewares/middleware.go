package middlewares

import (
	"log"
	"net/http"

	"github.com/cetak3d/go-printshop/app/helpers"
	"github.com/cetak3d/go-printshop/app/repositories"
	"github.com/cetak3d/go-printshop/app/utils/sessions"
	"github.com/unrolled/render"
)

// SessionUserMiddleware resolves the session cookie into a user and stores it
// on the request context. Requests without a valid session pass through
// anonymously; RequireAuth decides whether that is acceptable per route.
func SessionUserMiddleware(sessionStore sessions.SessionStore, userRepo repositories.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sessionStore.GetUserID(r)
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				log.Printf("SessionUserMiddleware: Error loading user %s: %v", userID, err)
				next.ServeHTTP(w, r)
				return
			}
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(helpers.WithUser(r.Context(), user)))
		})
	}
}

func RequireAuth(renderer *render.Render) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if helpers.GetUserIDFromContext(r.Context()) == "" {
				renderer.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
