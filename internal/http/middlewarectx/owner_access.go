package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/mercadolocal/billing-engine/internal/http/response"
	"github.com/mercadolocal/billing-engine/internal/lib/sl"
)

// AccessService сообщает, открыт ли владельцу доступ к его разделам.
type AccessService interface {
	CanAccess(ctx context.Context, ownerUID string, now time.Time) (bool, error)
}

// OwnerAccessMiddleware создает сквозной гейт доступа владельца:
// приостановленная подписка закрывает все его разделы, не только
// биллинговые. Вешается на каждую группу владельческих маршрутов.
func OwnerAccessMiddleware(svc AccessService, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, _, ok := CallerFromContext(r.Context())
			if !ok {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			allowed, err := svc.CanAccess(r.Context(), uid, time.Now())
			if err != nil {
				log.Error("failed to evaluate owner access", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}
			if !allowed {
				log.Info("owner access denied: subscription suspended", slog.String("uid", uid))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("subscription suspended, access denied"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
