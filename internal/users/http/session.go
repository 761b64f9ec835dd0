package http

import (
	"net/http"

	"github.com/aussiebroadwan/userdir/internal/users/store"
	"github.com/aussiebroadwan/userdir/pkg/httpx"
	"github.com/aussiebroadwan/userdir/pkg/slogx"
)

// SessionMiddleware pins one database connection to the request and
// releases it when the handler returns, whatever the outcome.
func SessionMiddleware(st store.Store) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			sess, err := st.Session(ctx)
			if err != nil {
				log.Error("failed to open store session", "error", err)
				httpx.WriteDetail(w, http.StatusInternalServerError, msgInternal)
				return
			}
			defer func() {
				if err := sess.Close(); err != nil {
					log.Warn("failed to release store session", "error", err)
				}
			}()

			next.ServeHTTP(w, r.WithContext(store.WithSession(ctx, sess)))
		})
	}
}
