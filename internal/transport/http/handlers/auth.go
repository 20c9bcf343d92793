// Package handlers wires HTTP requests to the auth service.
package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/spectral-labs/auth-api/internal/application/auth"
	"github.com/spectral-labs/auth-api/internal/domain"
	"github.com/spectral-labs/auth-api/internal/infrastructure/security"
	"github.com/spectral-labs/auth-api/internal/logger"
	"github.com/spectral-labs/auth-api/internal/transport/http/dto"
	"github.com/spectral-labs/auth-api/internal/transport/http/middleware"
	"github.com/spectral-labs/auth-api/internal/transport/http/response"
)

type AuthHandler struct {
	svc          *auth.Service
	secureCookie bool
}

// NewAuthHandler builds the auth endpoints. secureCookie should be
// true outside local development so cookies get the Secure attribute
// and the __Host- prefix.
func NewAuthHandler(svc *auth.Service, secureCookie bool) *AuthHandler {
	return &AuthHandler{svc: svc, secureCookie: secureCookie}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Register(r.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	middleware.RegistrationsTotal.WithLabelValues(res.User.Role).Inc()
	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID).
		Str("role", res.User.Role).
		Msg("user registered")

	security.SetAuthToken(w, res.Token.Token, time.Duration(res.Token.ExpiresIn)*time.Second, h.secureCookie)
	response.Created(w, dto.AuthData{User: dto.NewUserView(res.User)})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		response.WriteError(w, r, err)
		return
	}

	middleware.LoginAttemptsTotal.WithLabelValues("success").Inc()
	security.SetAuthToken(w, res.Token.Token, time.Duration(res.Token.ExpiresIn)*time.Second, h.secureCookie)
	response.OK(w, dto.AuthData{User: dto.NewUserView(res.User)})
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so
// logout just drops the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	security.ClearAuthToken(w, h.secureCookie)
	response.NoContent(w)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	u, err := h.svc.GetUserByID(r.Context(), userID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.MeData{User: dto.NewUserView(u)})
}

// AdminGetUser handles GET /api/admin/users/{id}.
func (h *AuthHandler) AdminGetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.WriteError(w, r, domain.ErrMissingField("id"))
		return
	}

	u, err := h.svc.GetUserByID(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.MeData{User: dto.NewUserView(u)})
}
