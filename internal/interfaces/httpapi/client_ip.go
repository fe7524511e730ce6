package httpapi

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// clientIPHeaders are consulted before the socket address, in order.
var clientIPHeaders = []string{"Fly-Client-IP", "X-Forwarded-For", "X-Real-IP"}

func resolveClientIP(r *http.Request) string {
	for _, header := range clientIPHeaders {
		if ip, ok := parseClientIP(r.Header.Get(header)); ok {
			return ip
		}
	}
	if ip, ok := parseClientIP(r.RemoteAddr); ok {
		return ip
	}
	return r.RemoteAddr
}

// parseClientIP accepts a bare address, host:port, or the first hop of a
// forwarded list.
func parseClientIP(raw string) (string, bool) {
	first, _, _ := strings.Cut(raw, ",")
	value := strings.TrimSpace(first)
	if value == "" {
		return "", false
	}
	if host, _, err := net.SplitHostPort(value); err == nil {
		value = host
	}

	addr, err := netip.ParseAddr(value)
	if err != nil {
		return "", false
	}
	return addr.Unmap().String(), true
}
