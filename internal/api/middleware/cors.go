// cors.go — CORS middleware для формы подачи заявок.
// Разрешён единственный origin из конфигурации; preflight-запросы
// отвечаются без прохода к обработчикам.
package middleware

import "net/http"

// CORS возвращает middleware, выставляющий CORS-заголовки для origin.
// Пустой origin отключает CORS полностью.
func CORS(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept-Language")
				w.Header().Set("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
