package handlers

import (
	"net/http"

	"github.com/spectral-labs/auth-api/internal/transport/http/response"
)

type endpoint struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Auth   bool   `json:"auth"`
}

// APIIndex handles GET /api and lists the public surface.
func APIIndex(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{
		"name": "auth-api",
		"endpoints": []endpoint{
			{Method: "POST", Path: "/api/auth/register", Auth: false},
			{Method: "POST", Path: "/api/auth/login", Auth: false},
			{Method: "POST", Path: "/api/auth/logout", Auth: false},
			{Method: "GET", Path: "/api/auth/me", Auth: true},
			{Method: "GET", Path: "/api/admin/users/{id}", Auth: true},
			{Method: "GET", Path: "/health", Auth: false},
			{Method: "GET", Path: "/ready", Auth: false},
			{Method: "GET", Path: "/metrics", Auth: false},
		},
	})
}
