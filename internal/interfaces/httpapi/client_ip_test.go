package httpapi

import (
	"net/http/httptest"
	"testing"
)

func TestResolveClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "remote addr", remote: "192.0.2.10:4321", want: "192.0.2.10"},
		{name: "forwarded first hop", headers: map[string]string{"X-Forwarded-For": "198.51.100.4, 10.0.0.1"}, remote: "10.0.0.1:80", want: "198.51.100.4"},
		{name: "fly header wins", headers: map[string]string{"Fly-Client-IP": "203.0.113.9", "X-Real-IP": "198.51.100.1"}, remote: "10.0.0.1:80", want: "203.0.113.9"},
		{name: "garbage header skipped", headers: map[string]string{"X-Real-IP": "not-an-ip"}, remote: "[2001:db8::1]:443", want: "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := resolveClientIP(req); got != tt.want {
				t.Fatalf("resolveClientIP()=%q want=%q", got, tt.want)
			}
		})
	}
}
