package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/mkcho/worldcup-backend/ratelimit"
)

// ClientIP достаёт IP клиента для admission control: сначала заголовки
// прокси/балансировщика, затем RemoteAddr. Если IP определить не удалось,
// возвращается sentinel — такие клиенты делят общий бюджет.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Первый адрес цепочки — исходный клиент.
		first := xff
		if idx := strings.IndexByte(xff, ','); idx >= 0 {
			first = xff[:idx]
		}
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		return ratelimit.UnknownKey
	}
	return host
}
