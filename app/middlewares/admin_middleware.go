package middlewares

import (
	"net/http"

	"github.com/cetak3d/go-printshop/app/helpers"
	"github.com/unrolled/render"
)

func RequireAdmin(renderer *render.Render) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := helpers.GetUserFromContext(r.Context())
			if user == nil {
				renderer.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}
			if !user.IsAdmin() {
				renderer.JSON(w, http.StatusForbidden, map[string]string{"error": "admin access required"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
