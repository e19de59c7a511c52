package middlewarectx

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/mercadolocal/billing-engine/internal/http/response"
)

// DispatchSecretHeader — заголовок с общим секретом служебных
// эндпоинтов рассылки.
const DispatchSecretHeader = "X-Dispatch-Secret"

// DispatchSecretMiddleware пропускает запрос только при точном
// совпадении общего секрета. Пустой секрет в конфиге отключает защиту —
// вариант для локальной разработки, в логах об этом предупреждение.
func DispatchSecretMiddleware(secret string, log *slog.Logger) func(http.Handler) http.Handler {
	if secret == "" {
		log.Warn("dispatch secret is empty, dispatch endpoints are unprotected")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret != "" {
				got := r.Header.Get(DispatchSecretHeader)
				if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
					log.Error("invalid dispatch secret")
					w.WriteHeader(http.StatusUnauthorized)
					render.JSON(w, r, response.Error("invalid dispatch secret"))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
