package middleware

import (
	"net/http"

	"github.com/2beens/workoutdash/pkg"

	log "github.com/sirupsen/logrus"
)

const UploadSecretHeader = "X-Upload-Secret"

// UploadAuth guards export uploads with a shared secret, checked against
// its bcrypt hash. An empty hash disables the check.
func UploadAuth(secretHash string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secretHash == "" {
			log.Warn("upload auth disabled: no upload secret hash configured")
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			secret := r.Header.Get(UploadSecretHeader)
			if secret == "" || !pkg.CheckPasswordHash(secret, secretHash) {
				log.WithField("path", r.URL.Path).Warn("upload rejected: bad or missing secret")
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
