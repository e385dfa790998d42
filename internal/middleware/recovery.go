package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/2beens/workoutdash/internal/telemetry/metrics"
	"github.com/2beens/workoutdash/pkg"

	log "github.com/sirupsen/logrus"
)

// PanicRecovery turns a handler panic into a JSON 500 and counts it.
// http.ErrAbortHandler is passed on so the server still aborts the response.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(respWriter http.ResponseWriter, req *http.Request) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if err, ok := r.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(r)
				}

				log.WithFields(log.Fields{
					"method": req.Method,
					"path":   req.URL.Path,
				}).Errorf("http: panic serving request: %v\n%s", r, debug.Stack())
				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}
				pkg.WriteJSON(respWriter, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			}()

			next.ServeHTTP(respWriter, req)
		})
	}
}
